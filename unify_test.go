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

package tensile

import (
	"testing"

	"github.com/Mauvesr/tensile/types"
)

func mustUnify(t *testing.T, ctx *InferenceContext, a, b types.Type) {
	t.Helper()
	if err := ctx.unify(a, b); err != nil {
		t.Fatalf("unify %s with %s: %v", types.TypeString(a), types.TypeString(b), err)
	}
}

func mustFailUnify(t *testing.T, ctx *InferenceContext, a, b types.Type, kind ErrorKind, msg string) {
	t.Helper()
	err := ctx.unify(a, b)
	if err == nil {
		t.Fatalf("expected unify of %s with %s to fail", types.TypeString(a), types.TypeString(b))
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != kind {
		t.Fatalf("expected a %s error, got %v", kind, err)
	}
	if msg != "" && terr.Msg != msg {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check: %v", err)
}

func TestUnifyHoleBinding(t *testing.T) {
	ctx := NewContext()

	h := ctx.arena.Fresh(types.KindType)
	mustUnify(t, ctx, h, types.NewTensor(types.Float32, 2, 3))
	if ts := ctx.ts(h); ts != "Tensor[(2, 3), float32]" {
		t.Fatalf("type: %s", ts)
	}

	// Orientation of the two sides must not matter:

	h2 := ctx.arena.Fresh(types.KindType)
	mustUnify(t, ctx, types.Scalar(types.Bool), h2)
	if ts := ctx.ts(h2); ts != "bool" {
		t.Fatalf("type: %s", ts)
	}

	// An alias chain resolves through to the binding of its root:

	h3, h4 := ctx.arena.Fresh(types.KindType), ctx.arena.Fresh(types.KindType)
	mustUnify(t, ctx, h3, h4)
	mustUnify(t, ctx, h4, types.NewTensor(types.Int32, 5))
	if ts := ctx.ts(h3); ts != "Tensor[(5), int32]" {
		t.Fatalf("type: %s", ts)
	}

	// Unifying a bound hole falls through to its binding:

	mustUnify(t, ctx, h3, types.NewTensor(types.Int32, 5))
	mustFailUnify(t, ctx, h3, types.NewTensor(types.Int32, 6), ShapeMismatch, "Cannot unify dimension 5 with 6")
}

func TestUnifyTensors(t *testing.T) {
	ctx := NewContext()

	mustUnify(t, ctx, types.NewTensor(types.Float32, 2, 3), types.NewTensor(types.Float32, 2, 3))

	mustFailUnify(t, ctx, types.NewTensor(types.Float32, 2, 3), types.NewTensor(types.Float32, 2, 4),
		ShapeMismatch, "Cannot unify dimension 3 with 4")
	mustFailUnify(t, ctx, types.NewTensor(types.Float32, 2), types.NewTensor(types.Float32, 2, 3),
		ShapeMismatch, "Cannot unify rank 1 tensor Tensor[(2), float32] with rank 2 tensor Tensor[(2, 3), float32]")
	mustFailUnify(t, ctx, types.NewTensor(types.Float32, 2), types.NewTensor(types.Int32, 2),
		DTypeMismatch, "Cannot unify element type float32 with int32")
}

func TestUnifyShapeVarWildcards(t *testing.T) {
	ctx := NewContext()

	n := types.NewTypeParam("n", types.KindShapeVar)
	m := types.NewTypeParam("m", types.KindShapeVar)

	// A rigid dimension param stands for an arbitrary size, in either
	// position:

	mustUnify(t, ctx, n, &types.Size{N: 7})
	mustUnify(t, ctx, &types.Size{N: 7}, n)
	mustUnify(t, ctx, n, m)

	shaped := &types.Tensor{DType: &types.Prim{DType: types.Float32}, Shape: []types.Type{n, m}}
	mustUnify(t, ctx, shaped, types.NewTensor(types.Float32, 9, 1))

	mustFailUnify(t, ctx, &types.Size{N: 2}, &types.Size{N: 3},
		ShapeMismatch, "Cannot unify dimension 2 with 3")
}

func TestUnifyRigidParams(t *testing.T) {
	ctx := NewContext()

	a := types.NewTypeParam("a", types.KindType)
	b := types.NewTypeParam("b", types.KindType)
	mustUnify(t, ctx, a, a)
	mustFailUnify(t, ctx, a, b, KindMismatch, "Cannot unify a with b")

	d := types.NewTypeParam("d", types.KindBaseType)
	e := types.NewTypeParam("e", types.KindBaseType)
	mustFailUnify(t, ctx, d, e, DTypeMismatch, "Cannot unify element type d with e")
	mustFailUnify(t, ctx, d, &types.Prim{DType: types.Float32},
		DTypeMismatch, "Cannot unify element type d with float32")
	mustFailUnify(t, ctx, &types.Prim{DType: types.Float32}, d,
		DTypeMismatch, "Cannot unify element type float32 with d")
}

func TestUnifyTuplesAndFuncs(t *testing.T) {
	ctx := NewContext()

	pair := &types.Tuple{Elems: []types.Type{types.Scalar(types.Float32), types.Scalar(types.Bool)}}
	mustUnify(t, ctx, pair, &types.Tuple{Elems: []types.Type{types.Scalar(types.Float32), types.Scalar(types.Bool)}})

	triple := &types.Tuple{Elems: []types.Type{types.Scalar(types.Float32), types.Scalar(types.Bool), types.Scalar(types.Int32)}}
	mustFailUnify(t, ctx, pair, triple,
		ArityMismatch, "Cannot unify 2-tuple (float32, bool) with 3-tuple (float32, bool, int32)")

	unary := &types.Func{Args: []types.Type{types.Scalar(types.Float32)}, Return: types.Scalar(types.Float32)}
	binary := &types.Func{Args: []types.Type{types.Scalar(types.Float32), types.Scalar(types.Float32)}, Return: types.Scalar(types.Float32)}
	mustFailUnify(t, ctx, unary, binary,
		ArityMismatch, "Cannot unify function with 1 argument(s) with function with 2 argument(s)")

	mustFailUnify(t, ctx, types.Scalar(types.Float32), pair,
		KindMismatch, "Cannot unify float32 with (float32, bool)")
}

func TestUnifyAdtApplications(t *testing.T) {
	ctx := NewContext()

	list := types.NewAdt(1, "List")
	option := types.NewAdt(2, "Option")

	mustUnify(t, ctx, list, types.NewAdt(1, "List"))
	mustFailUnify(t, ctx, list, option, AdtMismatch, "Cannot unify data type List with Option")

	// A bare data type is the same type as its application to zero type
	// arguments:

	mustUnify(t, ctx, list, &types.App{Adt: list})
	mustUnify(t, ctx, &types.App{Adt: list}, list)
	mustFailUnify(t, ctx, list, &types.App{Adt: list, Args: []types.Type{types.Scalar(types.Float32)}},
		TypeArgumentArityError, "Data type List applied to 0 and 1 type argument(s)")

	floats := &types.App{Adt: list, Args: []types.Type{types.Scalar(types.Float32)}}
	bools := &types.App{Adt: list, Args: []types.Type{types.Scalar(types.Bool)}}
	mustUnify(t, ctx, floats, &types.App{Adt: list, Args: []types.Type{types.Scalar(types.Float32)}})
	mustFailUnify(t, ctx, floats, bools, DTypeMismatch, "Cannot unify element type float32 with bool")
	mustFailUnify(t, ctx, floats, &types.App{Adt: option, Args: []types.Type{types.Scalar(types.Float32)}},
		AdtMismatch, "Cannot unify data type List with Option")
}

func TestUnifyKindConflict(t *testing.T) {
	ctx := NewContext()

	h := ctx.arena.Fresh(types.KindShapeVar)
	mustFailUnify(t, ctx, h, &types.Prim{DType: types.Float32},
		KindMismatch, "Cannot unify ?0 with float32 (kinds ShapeVar and BaseType)")
}

func TestUnifyOccursCheck(t *testing.T) {
	ctx := NewContext()

	h := ctx.arena.Fresh(types.KindType)
	cyclic := &types.Tuple{Elems: []types.Type{types.Scalar(types.Float32), h}}
	mustFailUnify(t, ctx, h, cyclic,
		OccursCheckFailure, "Implicitly recursive types are not supported (?0 occurs in (float32, ?0))")
}

func TestMatchFuncType(t *testing.T) {
	ctx := NewContext()

	// An incomplete callee is bound to a function type built from fresh
	// holes:

	h := ctx.arena.Fresh(types.KindType)
	ft, err := ctx.matchFuncType(2, h)
	if err != nil {
		t.Fatal(err)
	}
	if ts := types.TypeString(ft); ts != "fn (?0, ?1) -> ?2" {
		t.Fatalf("type: %s", ts)
	}
	if ts := ctx.ts(h); ts != "fn (?0, ?1) -> ?2" {
		t.Fatalf("type: %s", ts)
	}

	// A function type passes through unchanged:

	unary := &types.Func{Args: []types.Type{types.Scalar(types.Float32)}, Return: types.Scalar(types.Float32)}
	ft, err = ctx.matchFuncType(1, unary)
	if err != nil {
		t.Fatal(err)
	}
	if ft != unary {
		t.Fatalf("expected the function type to pass through")
	}

	if _, err = ctx.matchFuncType(1, types.Scalar(types.Float32)); err == nil {
		t.Fatalf("expected a call error")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != KindMismatch {
		t.Fatalf("expected a KindMismatch error, got %v", err)
	}
	if terr.Msg != "Cannot call a value of type float32" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for calling a non-function: %v", err)
}
