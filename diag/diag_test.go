// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package diag

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/Mauvesr/tensile"
	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

func TestPrintGenericError(t *testing.T) {
	var buf bytes.Buffer
	p := NewColorPrinter(&buf, false)
	p.Print(errors.New("boom"))
	if buf.String() != "error: boom\n" {
		t.Fatalf("output: %q", buf.String())
	}
}

func TestPrintInferenceError(t *testing.T) {
	ie := &tensile.Error{
		Kind:     tensile.RelationViolation,
		Msg:      "Type relation broadcast does not hold for (Tensor[(2), float32], Tensor[(3), float32])",
		Expr:     ir.NewVar("x"),
		Types:    []types.Type{types.NewTensor(types.Float32, 2), types.NewTensor(types.Float32, 3)},
		Relation: "broadcast",
	}
	want := "[RelationViolation] Type relation broadcast does not hold for (Tensor[(2), float32], Tensor[(3), float32])\n" +
		"  relation: broadcast\n" +
		"  types: Tensor[(2), float32], Tensor[(3), float32]\n" +
		"  in: %x\n"

	var buf bytes.Buffer
	p := NewColorPrinter(&buf, false)
	p.Print(ie)
	if buf.String() != want {
		t.Fatalf("output: %q", buf.String())
	}

	// Wrapped inference errors expand to the same block:

	buf.Reset()
	p.Print(fmt.Errorf("solving module: %w", ie))
	if buf.String() != want {
		t.Fatalf("wrapped output: %q", buf.String())
	}
}

func TestPrintInferenceErrorMinimal(t *testing.T) {
	ie := &tensile.Error{Kind: tensile.UnboundVar, Msg: "Variable %y is not bound"}

	var buf bytes.Buffer
	p := NewColorPrinter(&buf, false)
	p.Print(ie)
	if buf.String() != "[UnboundVar] Variable %y is not bound\n" {
		t.Fatalf("output: %q", buf.String())
	}
}

func TestPrintColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewColorPrinter(&buf, true)
	p.Print(errors.New("boom"))
	if buf.String() != "\x1b[31merror:\x1b[0m boom\n" {
		t.Fatalf("output: %q", buf.String())
	}
}

func TestPrintNil(t *testing.T) {
	var buf bytes.Buffer
	p := NewColorPrinter(&buf, false)
	p.Print(nil)
	if buf.Len() != 0 {
		t.Fatalf("output: %q", buf.String())
	}
}
