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

// Package diag renders inference errors for terminals and logs.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Mauvesr/tensile"
	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Printer writes error reports to an output stream.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a printer for w. Color is enabled when w is a terminal
// and the NO_COLOR convention (https://no-color.org/) does not disable it.
func NewPrinter(w io.Writer) *Printer {
	color := false
	if _, ok := os.LookupEnv("NO_COLOR"); !ok {
		if f, ok := w.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Printer{w: w, color: color}
}

// NewColorPrinter returns a printer for w with color forced on or off.
func NewColorPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Print writes a report for err. Inference errors expand to a block naming
// the error kind, the relation and types involved, and the expression the
// error was detected at; other errors print as a single line.
func (p *Printer) Print(err error) {
	if err == nil {
		return
	}
	var ie *tensile.Error
	if !errors.As(err, &ie) {
		fmt.Fprintf(p.w, "%s %s\n", p.paint("error:"), err.Error())
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.paint("["+ie.Kind.String()+"]"), ie.Msg)
	if ie.Relation != "" {
		fmt.Fprintf(p.w, "  relation: %s\n", ie.Relation)
	}
	if len(ie.Types) > 0 {
		strs := make([]string, len(ie.Types))
		for i, t := range ie.Types {
			strs[i] = types.TypeString(t)
		}
		fmt.Fprintf(p.w, "  types: %s\n", strings.Join(strs, ", "))
	}
	if ie.Expr != nil {
		fmt.Fprintf(p.w, "  in: %s\n", ir.ExprString(ie.Expr))
	}
}

func (p *Printer) paint(s string) string {
	if !p.color {
		return s
	}
	return ansiRed + s + ansiReset
}
