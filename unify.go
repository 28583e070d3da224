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
	"github.com/Mauvesr/tensile/types"
)

// Unify two types, binding incomplete types as needed.
func (ti *InferenceContext) unify(a, b types.Type) error {
	a, b = ti.arena.Find(a), ti.arena.Find(b)
	if a == b {
		return nil
	}

	if _, ok := b.(*types.Incomplete); ok {
		if _, ok := a.(*types.Incomplete); !ok {
			return ti.unify(b, a)
		}
	}
	if ah, ok := a.(*types.Incomplete); ok {
		if bh, ok := b.(*types.Incomplete); ok && ah.Ref == bh.Ref {
			return nil
		}
		switch err := ti.arena.Bind(ah.Ref, b); err {
		case nil:
			return nil
		case types.ErrRecursiveType:
			return errf(OccursCheckFailure, "Implicitly recursive types are not supported (%s occurs in %s)", ti.ts(a), ti.ts(b))
		case types.ErrKindConflict:
			return errf(KindMismatch, "Cannot unify %s with %s (kinds %s and %s)",
				ti.ts(a), ti.ts(b), ti.arena.KindOf(a), ti.arena.KindOf(b))
		default:
			return err
		}
	}

	switch a := a.(type) {
	case *types.Prim:
		switch b := b.(type) {
		case *types.Prim:
			if a.DType != b.DType {
				return errf(DTypeMismatch, "Cannot unify element type %s with %s", a.DType, b.DType)
			}
			return nil
		case *types.TypeParam:
			if b.Kind() == types.KindBaseType {
				return errf(DTypeMismatch, "Cannot unify element type %s with %s", a.DType, ti.ts(b))
			}
		}

	case *types.Size:
		switch b := b.(type) {
		case *types.Size:
			if a.N != b.N {
				return errf(ShapeMismatch, "Cannot unify dimension %d with %d", a.N, b.N)
			}
			return nil
		case *types.TypeParam:
			// A rigid dimension param stands for an arbitrary size.
			if b.Kind() == types.KindShapeVar {
				return nil
			}
		}

	case *types.TypeParam:
		switch b := b.(type) {
		case *types.TypeParam:
			if a.Id() == b.Id() {
				return nil
			}
			if a.Kind() == types.KindShapeVar && b.Kind() == types.KindShapeVar {
				return nil
			}
			if a.Kind() == types.KindBaseType && b.Kind() == types.KindBaseType {
				return errf(DTypeMismatch, "Cannot unify element type %s with %s", ti.ts(a), ti.ts(b))
			}
		case *types.Size:
			if a.Kind() == types.KindShapeVar {
				return nil
			}
		case *types.Prim:
			if a.Kind() == types.KindBaseType {
				return errf(DTypeMismatch, "Cannot unify element type %s with %s", ti.ts(a), b.DType)
			}
		}

	case *types.Tensor:
		if b, ok := b.(*types.Tensor); ok {
			if err := ti.unify(a.DType, b.DType); err != nil {
				return err
			}
			if len(a.Shape) != len(b.Shape) {
				return errf(ShapeMismatch, "Cannot unify rank %d tensor %s with rank %d tensor %s",
					len(a.Shape), ti.ts(a), len(b.Shape), ti.ts(b))
			}
			for i := range a.Shape {
				if err := ti.unify(a.Shape[i], b.Shape[i]); err != nil {
					return err
				}
			}
			return nil
		}

	case *types.Tuple:
		if b, ok := b.(*types.Tuple); ok {
			if len(a.Elems) != len(b.Elems) {
				return errf(ArityMismatch, "Cannot unify %d-tuple %s with %d-tuple %s",
					len(a.Elems), ti.ts(a), len(b.Elems), ti.ts(b))
			}
			for i := range a.Elems {
				if err := ti.unify(a.Elems[i], b.Elems[i]); err != nil {
					return err
				}
			}
			return nil
		}

	case *types.Func:
		if b, ok := b.(*types.Func); ok {
			if len(a.Args) != len(b.Args) {
				return errf(ArityMismatch, "Cannot unify function with %d argument(s) with function with %d argument(s)",
					len(a.Args), len(b.Args))
			}
			for i := range a.Args {
				if err := ti.unify(a.Args[i], b.Args[i]); err != nil {
					return err
				}
			}
			return ti.unify(a.Return, b.Return)
		}

	case *types.Adt:
		switch b := b.(type) {
		case *types.Adt:
			if a.Id() != b.Id() {
				return errf(AdtMismatch, "Cannot unify data type %s with %s", a.Name(), b.Name())
			}
			return nil
		case *types.App:
			// A bare data type is the same type as its application to zero
			// type arguments.
			if a.Id() != b.Adt.Id() {
				return errf(AdtMismatch, "Cannot unify data type %s with %s", a.Name(), b.Adt.Name())
			}
			if len(b.Args) != 0 {
				return errf(TypeArgumentArityError, "Data type %s applied to 0 and %d type argument(s)",
					a.Name(), len(b.Args))
			}
			return nil
		}

	case *types.App:
		switch b := b.(type) {
		case *types.App:
			if a.Adt.Id() != b.Adt.Id() {
				return errf(AdtMismatch, "Cannot unify data type %s with %s", a.Adt.Name(), b.Adt.Name())
			}
			if len(a.Args) != len(b.Args) {
				return errf(TypeArgumentArityError, "Data type %s applied to %d and %d type argument(s)",
					a.Adt.Name(), len(a.Args), len(b.Args))
			}
			for i := range a.Args {
				if err := ti.unify(a.Args[i], b.Args[i]); err != nil {
					return err
				}
			}
			return nil
		case *types.Adt:
			return ti.unify(b, a)
		}
	}

	return errf(KindMismatch, "Cannot unify %s with %s", ti.ts(a), ti.ts(b))
}

// matchFuncType resolves t to a function type accepting argc arguments. An
// incomplete type is bound to a function type built from fresh holes.
func (ti *InferenceContext) matchFuncType(argc int, t types.Type) (*types.Func, error) {
	t = ti.arena.Find(t)
	switch t := t.(type) {
	case *types.Func:
		return t, nil
	case *types.Incomplete:
		args := make([]types.Type, argc)
		for i := range args {
			args[i] = ti.arena.Fresh(types.KindType)
		}
		fn := &types.Func{Args: args, Return: ti.arena.Fresh(types.KindType)}
		if err := ti.arena.Bind(t.Ref, fn); err != nil {
			if err == types.ErrKindConflict {
				return nil, errf(KindMismatch, "Cannot call a value of type %s", ti.ts(t))
			}
			return nil, err
		}
		return fn, nil
	}
	return nil, errf(KindMismatch, "Cannot call a value of type %s", ti.ts(t))
}

// ts prints a type after resolving bindings, for error messages.
func (ti *InferenceContext) ts(t types.Type) string {
	return types.TypeString(ti.arena.Resolve(t))
}
