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
	"strconv"

	"github.com/Mauvesr/tensile/types"
)

// generalize binds the free incomplete types of a function type to fresh
// rigid type params, producing a polymorphic type. Holes shared with
// definitions whose inference is still in progress are left open; they belong
// to the outer definition. Generalization happens at the top level of a
// definition only, never for let-bound values.
func (ti *InferenceContext) generalize(fn *types.Func) (*types.Func, error) {
	resolved := ti.arena.Resolve(fn).(*types.Func)

	seen := make(map[types.Ref]bool, 8)
	var order []types.Ref
	names := make(map[string]bool, 4)
	collectTypeInfo(resolved, names, func(ref types.Ref) {
		if !seen[ref] {
			seen[ref] = true
			order = append(order, ref)
		}
	})
	if len(order) == 0 {
		return resolved, nil
	}

	escaping := ti.escaping()

	var params []*types.TypeParam
	var counts [4]int
	for _, ref := range order {
		if escaping[ref] {
			continue
		}
		kind := ti.arena.KindOf(&types.Incomplete{Ref: ref})
		var name string
		for {
			name = paramPrefix(kind) + strconv.Itoa(counts[kind])
			counts[kind]++
			if !names[name] {
				names[name] = true
				break
			}
		}
		tp := types.NewTypeParam(name, kind)
		if err := ti.arena.Bind(ref, tp); err != nil {
			return nil, err
		}
		params = append(params, tp)
	}
	if len(params) == 0 {
		return resolved, nil
	}

	gen := ti.arena.Resolve(resolved).(*types.Func)
	gen.TypeParams = append(fn.TypeParams, params...)
	return gen, nil
}

func paramPrefix(kind types.Kind) string {
	switch kind {
	case types.KindBaseType:
		return "d"
	case types.KindShape:
		return "s"
	case types.KindShapeVar:
		return "n"
	}
	return "t"
}

// adoptParams appends foreign type params appearing free in a scheme to its
// own param list. A definition in a mutually recursive group can record a
// scheme whose holes are generalized later, by the definition that entered the
// group first; once those holes resolve to params of the outer scheme, the
// inner scheme adopts them so that instantiation refreshes every param it
// mentions.
func adoptParams(fn *types.Func) *types.Func {
	bound := make(map[uint32]bool, len(fn.TypeParams))
	for _, tp := range fn.TypeParams {
		bound[tp.Id()] = true
	}
	var adopted []*types.TypeParam
	collectParams(fn, bound, func(tp *types.TypeParam) {
		bound[tp.Id()] = true
		adopted = append(adopted, tp)
	})
	if len(adopted) == 0 {
		return fn
	}
	params := make([]*types.TypeParam, 0, len(fn.TypeParams)+len(adopted))
	params = append(params, fn.TypeParams...)
	params = append(params, adopted...)
	return &types.Func{TypeParams: params, Args: fn.Args, Return: fn.Return, Relations: fn.Relations}
}

// collectParams reports each type param not bound by an enclosing function
// type. Params of nested function types are bound within them.
func collectParams(t types.Type, bound map[uint32]bool, visit func(*types.TypeParam)) {
	switch t := t.(type) {
	case *types.TypeParam:
		if !bound[t.Id()] {
			visit(t)
		}
	case *types.Tensor:
		collectParams(t.DType, bound, visit)
		for _, dim := range t.Shape {
			collectParams(dim, bound, visit)
		}
	case *types.Tuple:
		for _, elem := range t.Elems {
			collectParams(elem, bound, visit)
		}
	case *types.Func:
		restore := make([]uint32, 0, len(t.TypeParams))
		for _, tp := range t.TypeParams {
			if !bound[tp.Id()] {
				bound[tp.Id()] = true
				restore = append(restore, tp.Id())
			}
		}
		for _, arg := range t.Args {
			collectParams(arg, bound, visit)
		}
		collectParams(t.Return, bound, visit)
		for _, rel := range t.Relations {
			for _, arg := range rel.Args {
				collectParams(arg, bound, visit)
			}
		}
		for _, id := range restore {
			delete(bound, id)
		}
	case *types.App:
		for _, arg := range t.Args {
			collectParams(arg, bound, visit)
		}
	}
}

// escaping returns the set of holes reachable from definitions whose
// inference is still in progress.
func (ti *InferenceContext) escaping() map[types.Ref]bool {
	if len(ti.inProgress) == 0 {
		return nil
	}
	esc := make(map[types.Ref]bool, 16)
	for _, fn := range ti.inProgress {
		collectTypeInfo(ti.arena.Resolve(fn), nil, func(ref types.Ref) {
			esc[ref] = true
		})
	}
	return esc
}

// collectTypeInfo walks a resolved type, reporting each incomplete type to
// visit and recording declared param names. t must be resolved first so that
// every hole appears as its canonical root.
func collectTypeInfo(t types.Type, names map[string]bool, visit func(types.Ref)) {
	switch t := t.(type) {
	case *types.Incomplete:
		visit(t.Ref)
	case *types.TypeParam:
		if names != nil {
			names[t.Name()] = true
		}
	case *types.Tensor:
		collectTypeInfo(t.DType, names, visit)
		for _, dim := range t.Shape {
			collectTypeInfo(dim, names, visit)
		}
	case *types.Tuple:
		for _, elem := range t.Elems {
			collectTypeInfo(elem, names, visit)
		}
	case *types.Func:
		for _, arg := range t.Args {
			collectTypeInfo(arg, names, visit)
		}
		collectTypeInfo(t.Return, names, visit)
		for _, rel := range t.Relations {
			for _, arg := range rel.Args {
				collectTypeInfo(arg, names, visit)
			}
		}
	case *types.App:
		for _, arg := range t.Args {
			collectTypeInfo(arg, names, visit)
		}
	}
}
