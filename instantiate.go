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

// instantiate replaces the type params of ft with fresh incomplete types of
// matching kinds, or with explicitly given type arguments. The instantiated
// type carries no type params; its relations reference the replacements.
// The replacements are returned alongside, in param order.
func (ti *InferenceContext) instantiate(ft *types.Func, targs []types.Type) (*types.Func, []types.Type, error) {
	if len(ft.TypeParams) == 0 {
		if len(targs) != 0 {
			return nil, nil, errf(TypeArgumentArityError, "Function expects no type arguments, found %d", len(targs))
		}
		return ft, nil, nil
	}
	if targs != nil {
		if len(targs) != len(ft.TypeParams) {
			return nil, nil, errf(TypeArgumentArityError, "Function expects %d type argument(s), found %d",
				len(ft.TypeParams), len(targs))
		}
		for i, tp := range ft.TypeParams {
			if k := ti.arena.KindOf(targs[i]); k != tp.Kind() {
				return nil, nil, errf(KindMismatch, "Type argument %s for param %s must be a %s, found a %s",
					ti.ts(targs[i]), tp.Name(), tp.Kind(), k)
			}
		}
	} else {
		targs = make([]types.Type, len(ft.TypeParams))
		for i, tp := range ft.TypeParams {
			targs[i] = ti.arena.Fresh(tp.Kind())
		}
	}

	if ti.subst == nil {
		ti.subst = make(map[uint32]types.Type, len(ft.TypeParams))
	}
	for i, tp := range ft.TypeParams {
		ti.subst[tp.Id()] = targs[i]
	}

	inst := &types.Func{
		Args:   make([]types.Type, len(ft.Args)),
		Return: ti.applySubst(ft.Return),
	}
	for i, arg := range ft.Args {
		inst.Args[i] = ti.applySubst(arg)
	}
	if len(ft.Relations) > 0 {
		inst.Relations = make([]types.Relation, len(ft.Relations))
		for i, rel := range ft.Relations {
			args := make([]types.Type, len(rel.Args))
			for j, arg := range rel.Args {
				args[j] = ti.applySubst(arg)
			}
			inst.Relations[i] = types.Relation{Name: rel.Name, Args: args}
		}
	}
	ti.clearSubst()
	return inst, targs, nil
}

// applySubst rebuilds t with the type params in ti.subst replaced. Param ids
// are globally unique, so params of nested function types never collide with
// the params being replaced.
func (ti *InferenceContext) applySubst(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.TypeParam:
		if sub, ok := ti.subst[t.Id()]; ok {
			return sub
		}
		return t

	case *types.Tensor:
		shape := make([]types.Type, len(t.Shape))
		for i, dim := range t.Shape {
			shape[i] = ti.applySubst(dim)
		}
		return &types.Tensor{DType: ti.applySubst(t.DType), Shape: shape}

	case *types.Tuple:
		elems := make([]types.Type, len(t.Elems))
		for i, elem := range t.Elems {
			elems[i] = ti.applySubst(elem)
		}
		return &types.Tuple{Elems: elems}

	case *types.Func:
		args := make([]types.Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = ti.applySubst(arg)
		}
		var rels []types.Relation
		if len(t.Relations) > 0 {
			rels = make([]types.Relation, len(t.Relations))
			for i, rel := range t.Relations {
				relArgs := make([]types.Type, len(rel.Args))
				for j, arg := range rel.Args {
					relArgs[j] = ti.applySubst(arg)
				}
				rels[i] = types.Relation{Name: rel.Name, Args: relArgs}
			}
		}
		return &types.Func{TypeParams: t.TypeParams, Args: args, Return: ti.applySubst(t.Return), Relations: rels}

	case *types.App:
		args := make([]types.Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = ti.applySubst(arg)
		}
		return &types.App{Adt: t.Adt, Args: args}
	}
	return t
}

func (ti *InferenceContext) clearSubst() {
	for id := range ti.subst {
		delete(ti.subst, id)
	}
}
