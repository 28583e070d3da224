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
	"errors"

	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

func (ti *InferenceContext) infer(sc scope, e ir.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ir.Var:
		t, ok := sc.lookup(e.Id())
		if !ok {
			ti.invalid, ti.err = e, errf(UnboundVar, "Variable %%%s is not bound", e.Name())
			return nil, ti.err
		}
		e.SetType(t)
		return t, nil

	case *ir.GlobalVar:
		ft, inProg, err := ti.globalScheme(e)
		if err != nil {
			return nil, err
		}
		if inProg && len(ft.TypeParams) == 0 {
			return ft, nil
		}
		inst, _, err := ti.instantiate(ft, nil)
		if err != nil {
			ti.invalid, ti.err = e, err
			return nil, err
		}
		for _, rel := range inst.Relations {
			if err := ti.addRelation(rel, e); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
		}
		return inst, nil

	case *ir.Op:
		ft, ok := ti.env.Ops.Lookup(e.Name)
		if !ok {
			ti.invalid, ti.err = e, errf(UnboundVar, "Operator %s is not declared", e.Name)
			return nil, ti.err
		}
		inst, _, err := ti.instantiate(ft, nil)
		if err != nil {
			ti.invalid, ti.err = e, err
			return nil, err
		}
		for _, rel := range inst.Relations {
			if err := ti.addRelation(rel, e); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
		}
		e.SetType(inst)
		return inst, nil

	case *ir.Func:
		sk := ti.funcSkeleton(e)
		if err := ti.inferFuncBody(sc, e, sk); err != nil {
			return nil, err
		}
		return sk, nil

	case *ir.Call:
		ft, targs, err := ti.inferCallee(sc, e)
		if err != nil {
			return nil, err
		}
		if len(e.Args) != len(ft.Args) {
			ti.invalid, ti.err = e, errf(ArityMismatch, "Function expects %d argument(s), found %d", len(ft.Args), len(e.Args))
			return nil, ti.err
		}
		for i, arg := range e.Args {
			at, err := ti.infer(sc, arg)
			if err != nil {
				return nil, err
			}
			if err := ti.unify(ft.Args[i], at); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
		}
		e.SetFuncType(ft)
		e.SetResolvedTypeArgs(targs)
		e.SetType(ft.Return)
		return ft.Return, nil

	case *ir.Let:
		if _, isFunc := e.Value.(*ir.Func); isFunc {
			// Allow self-references within function values.
			tv := types.Type(ti.arena.Fresh(types.KindType))
			if e.Var.Ann != nil {
				if err := ti.unify(tv, e.Var.Ann); err != nil {
					ti.invalid, ti.err = e, err
					return nil, err
				}
			}
			inner := sc.with(e.Var.Id(), tv)
			vt, err := ti.infer(inner, e.Value)
			if err != nil {
				return nil, err
			}
			if err := ti.unify(tv, vt); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
			e.Var.SetType(tv)
			return ti.infer(inner, e.Body)
		}
		vt, err := ti.infer(sc, e.Value)
		if err != nil {
			return nil, err
		}
		if e.Var.Ann != nil {
			if err := ti.unify(vt, e.Var.Ann); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
		}
		e.Var.SetType(vt)
		return ti.infer(sc.with(e.Var.Id(), vt), e.Body)

	case *ir.Tuple:
		elems := make([]types.Type, len(e.Elems))
		for i, elem := range e.Elems {
			t, err := ti.infer(sc, elem)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		t := &types.Tuple{Elems: elems}
		e.SetType(t)
		return t, nil

	case *ir.TupleGet:
		tt, err := ti.infer(sc, e.Tuple)
		if err != nil {
			return nil, err
		}
		switch tt := ti.arena.Find(tt).(type) {
		case *types.Tuple:
			if e.Index < 0 || e.Index >= len(tt.Elems) {
				ti.invalid, ti.err = e, errf(IndexOutOfRange, "Index %d is out of range for %d-tuple %s",
					e.Index, len(tt.Elems), ti.ts(tt))
				return nil, ti.err
			}
			t := tt.Elems[e.Index]
			e.SetType(t)
			return t, nil
		case *types.Incomplete:
			ti.invalid, ti.err = e, errf(AmbiguousType, "Cannot project from a value whose type is not yet determined (%s)", ti.ts(tt))
			return nil, ti.err
		default:
			ti.invalid, ti.err = e, errf(KindMismatch, "Cannot project from a value of type %s", ti.ts(tt))
			return nil, ti.err
		}

	case *ir.If:
		ct, err := ti.infer(sc, e.Cond)
		if err != nil {
			return nil, err
		}
		if err := ti.unify(ct, types.Scalar(types.Bool)); err != nil {
			ti.invalid, ti.err = e, err
			return nil, err
		}
		tt, err := ti.infer(sc, e.Then)
		if err != nil {
			return nil, err
		}
		et, err := ti.infer(sc, e.Else)
		if err != nil {
			return nil, err
		}
		if err := ti.unify(tt, et); err != nil {
			ti.invalid, ti.err = e, err
			return nil, err
		}
		e.SetType(tt)
		return tt, nil

	case *ir.Match:
		vt, err := ti.infer(sc, e.Value)
		if err != nil {
			return nil, err
		}
		if _, _, err := ti.matchAdtType(vt); err != nil {
			ti.invalid, ti.err = e, err
			return nil, err
		}
		if len(e.Clauses) == 0 {
			ti.invalid, ti.err = e, errf(AmbiguousType, "Match with no clauses has no type")
			return nil, ti.err
		}
		ret := types.Type(ti.arena.Fresh(types.KindType))
		for i := range e.Clauses {
			c := &e.Clauses[i]
			csc, err := ti.checkPattern(sc, c.Pattern, vt)
			if err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
			bt, err := ti.infer(csc, c.Body)
			if err != nil {
				return nil, err
			}
			if err := ti.unify(ret, bt); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
		}
		e.SetType(ret)
		return ret, nil

	case *ir.Construct:
		ctor := e.Ctor
		if ctor == nil || ctor.Adt == nil {
			ti.invalid, ti.err = e, errf(UnboundVar, "Constructor is not attached to a data type")
			return nil, ti.err
		}
		data, ok := ti.env.Module.AdtData(ctor.Adt.Id())
		if !ok {
			ti.invalid, ti.err = e, errf(UnboundVar, "Data type %s is not declared", ctor.Adt.Name())
			return nil, ti.err
		}
		if len(e.Args) != len(ctor.Args) {
			ti.invalid, ti.err = e, errf(ArityMismatch, "Constructor %s expects %d argument(s), found %d",
				ctor.Name, len(ctor.Args), len(e.Args))
			return nil, ti.err
		}
		targs := make([]types.Type, len(data.Params))
		for i, tp := range data.Params {
			targs[i] = ti.arena.Fresh(tp.Kind())
		}
		fields := ti.substParams(data.Params, targs, ctor.Args)
		for i, arg := range e.Args {
			at, err := ti.infer(sc, arg)
			if err != nil {
				return nil, err
			}
			if err := ti.unify(fields[i], at); err != nil {
				ti.invalid, ti.err = e, err
				return nil, err
			}
		}
		t := &types.App{Adt: data.Adt, Args: targs}
		e.SetType(t)
		return t, nil

	case *ir.Constant:
		t := types.NewTensor(e.DType, e.Shape...)
		e.SetType(t)
		return t, nil
	}

	var exprName string
	if e != nil {
		exprName = "(" + e.ExprName() + ")"
	} else {
		exprName = "(nil)"
	}
	ti.invalid, ti.err = e, errors.New("Unhandled expression "+exprName)
	return nil, ti.err
}

// inferCallee determines the instantiated type of the function applied by a
// call. Named functions and operators instantiate their schemes, consuming
// the call's explicit type arguments; any other callee is inferred
// structurally and must not carry type arguments.
func (ti *InferenceContext) inferCallee(sc scope, e *ir.Call) (*types.Func, []types.Type, error) {
	switch fn := e.Fn.(type) {
	case *ir.GlobalVar:
		scheme, inProg, err := ti.globalScheme(fn)
		if err != nil {
			return nil, nil, err
		}
		if inProg && len(scheme.TypeParams) == 0 {
			// Recursive references without explicit type params are
			// monomorphic within the definition.
			if len(e.TypeArgs) != 0 {
				ti.invalid, ti.err = e, errf(TypeArgumentArityError, "Function expects no type arguments, found %d", len(e.TypeArgs))
				return nil, nil, ti.err
			}
			return scheme, nil, nil
		}
		inst, targs, err := ti.instantiate(scheme, e.TypeArgs)
		if err != nil {
			ti.invalid, ti.err = e, err
			return nil, nil, err
		}
		for _, rel := range inst.Relations {
			if err := ti.addRelation(rel, e); err != nil {
				ti.invalid, ti.err = e, err
				return nil, nil, err
			}
		}
		return inst, targs, nil

	case *ir.Op:
		ft, ok := ti.env.Ops.Lookup(fn.Name)
		if !ok {
			ti.invalid, ti.err = fn, errf(UnboundVar, "Operator %s is not declared", fn.Name)
			return nil, nil, ti.err
		}
		inst, targs, err := ti.instantiate(ft, e.TypeArgs)
		if err != nil {
			ti.invalid, ti.err = e, err
			return nil, nil, err
		}
		fn.SetType(inst)
		for _, rel := range inst.Relations {
			if err := ti.addRelation(rel, e); err != nil {
				ti.invalid, ti.err = e, err
				return nil, nil, err
			}
		}
		return inst, targs, nil
	}

	if len(e.TypeArgs) != 0 {
		ti.invalid, ti.err = e, errf(TypeArgumentArityError, "Type arguments require a named function or operator")
		return nil, nil, ti.err
	}
	t, err := ti.infer(sc, e.Fn)
	if err != nil {
		return nil, nil, err
	}
	ft, err := ti.matchFuncType(len(e.Args), t)
	if err != nil {
		ti.invalid, ti.err = e, err
		return nil, nil, err
	}
	if len(ft.TypeParams) == 0 {
		return ft, nil, nil
	}
	inst, targs, err := ti.instantiate(ft, nil)
	if err != nil {
		ti.invalid, ti.err = e, err
		return nil, nil, err
	}
	for _, rel := range inst.Relations {
		if err := ti.addRelation(rel, e); err != nil {
			ti.invalid, ti.err = e, err
			return nil, nil, err
		}
	}
	return inst, targs, nil
}

// funcSkeleton builds the initial type of a function from its annotations,
// with fresh holes for anything unannotated.
func (ti *InferenceContext) funcSkeleton(fn *ir.Func) *types.Func {
	args := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		if p.Ann != nil {
			args[i] = p.Ann
		} else {
			args[i] = ti.arena.Fresh(types.KindType)
		}
	}
	ret := fn.Ret
	if ret == nil {
		ret = ti.arena.Fresh(types.KindType)
	}
	return &types.Func{TypeParams: fn.TypeParams, Args: args, Return: ret, Relations: fn.Relations}
}

// inferFuncBody binds the params of a function in scope, queues its declared
// relations, and unifies the body against the skeleton's return type.
func (ti *InferenceContext) inferFuncBody(sc scope, fn *ir.Func, sk *types.Func) error {
	for i, p := range fn.Params {
		p.SetType(sk.Args[i])
		sc = sc.with(p.Id(), sk.Args[i])
	}
	for _, rel := range fn.Relations {
		if err := ti.addRelation(rel, fn); err != nil {
			ti.invalid, ti.err = fn, err
			return err
		}
	}
	ret, err := ti.infer(sc, fn.Body)
	if err != nil {
		return err
	}
	if err := ti.unify(sk.Return, ret); err != nil {
		ti.invalid, ti.err = fn, err
		return err
	}
	fn.SetType(sk)
	return nil
}

// globalScheme returns the scheme of a global, inferring its definition on
// demand. The boolean reports an in-progress definition, whose skeleton must
// be used without instantiation unless it declares explicit type params.
func (ti *InferenceContext) globalScheme(e *ir.GlobalVar) (*types.Func, bool, error) {
	if sk, ok := ti.inProgress[e.Id()]; ok {
		return sk, true, nil
	}
	if t := e.Type(); t != nil {
		ft, ok := t.(*types.Func)
		if !ok {
			ti.invalid, ti.err = e, errf(KindMismatch, "Global @%s has type %s, not a function type", e.Name(), types.TypeString(t))
			return nil, false, ti.err
		}
		return ft, false, nil
	}
	if err := ti.inferGlobal(e); err != nil {
		return nil, false, err
	}
	return e.Type().(*types.Func), false, nil
}

// inferGlobal infers the definition of a global on demand, registering its
// skeleton type first so that recursive references resolve against it.
func (ti *InferenceContext) inferGlobal(gv *ir.GlobalVar) error {
	fn, ok := ti.env.Module.Func(gv)
	if !ok {
		ti.invalid, ti.err = gv, errf(UnboundVar, "Global @%s has no definition", gv.Name())
		return ti.err
	}
	sk := ti.funcSkeleton(fn)
	ti.inProgress[gv.Id()] = sk
	qStart := len(ti.queue)
	err := ti.inferFuncBody(newScope(), fn, sk)
	delete(ti.inProgress, gv.Id())
	if err != nil {
		return err
	}
	if err := ti.solve(qStart); err != nil {
		return ti.fail(err)
	}
	final, err := ti.finishDef(fn, sk, qStart)
	if err != nil {
		return err
	}
	gv.SetType(final)
	fn.SetType(final)
	ti.completed = append(ti.completed, completedDef{gv, fn})
	return nil
}

// finishDef turns the solved skeleton of a definition into its final type.
// Relations still undecided are captured into the signature, free holes are
// generalized into type params, and every annotation in the body is resolved.
func (ti *InferenceContext) finishDef(fn *ir.Func, sk *types.Func, qStart int) (*types.Func, error) {
	pend := ti.pendingIn(qStart)
	candidate := &types.Func{TypeParams: sk.TypeParams, Args: sk.Args, Return: sk.Return}
	if len(pend) > 0 {
		candidate.Relations = make([]types.Relation, len(pend))
		for i, inst := range pend {
			candidate.Relations[i] = types.Relation{Name: inst.name, Args: inst.args}
		}
	}

	var gen *types.Func
	if len(sk.TypeParams) == 0 {
		g, err := ti.generalize(candidate)
		if err != nil {
			return nil, ti.fail(err)
		}
		gen = g
	} else {
		gen = ti.arena.Resolve(candidate).(*types.Func)
	}

	esc := ti.escaping()
	if err := ti.classifyPending(pend, esc); err != nil {
		return nil, err
	}
	if err := ti.resolveExpr(fn, esc); err != nil {
		return nil, err
	}
	return gen, nil
}

// classifyPending decides the fate of relation instances left undecided by a
// definition: instances over the definition's own type params are captured by
// its signature, instances over holes owned by an enclosing definition stay
// queued for it, and anything else leaves the types ambiguous.
func (ti *InferenceContext) classifyPending(pend []*relInstance, esc map[types.Ref]bool) error {
	for _, inst := range pend {
		resolved := ti.resolveArgs(inst.args)
		names := make(map[string]bool, 1)
		open, stuck := false, false
		for _, arg := range resolved {
			collectTypeInfo(arg, names, func(ref types.Ref) {
				open = true
				if !esc[ref] {
					stuck = true
				}
			})
		}
		switch {
		case stuck, !open && len(names) == 0:
			terr := errf(AmbiguousType, "Type relation %s is undecided for %s", inst.name, ti.argsString(inst.args))
			terr.Expr, terr.Relation, terr.Types = inst.origin, inst.name, resolved
			return ti.fail(terr)
		case open:
			// Owned by an enclosing definition; its solve decides.
		default:
			inst.done = true
		}
	}
	return nil
}

// resolveExpr substitutes solved bindings into every type annotation of an
// expression. A type still containing a hole not owned by an enclosing
// definition is reported as ambiguous.
func (ti *InferenceContext) resolveExpr(root ir.Expr, esc map[types.Ref]bool) error {
	var firstErr *Error
	ir.WalkExpr(root, func(e ir.Expr) {
		if firstErr != nil {
			return
		}
		switch e := e.(type) {
		case *ir.GlobalVar:
			// The handle carries the definition's own scheme.
			return
		case *ir.Var:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.Op:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.Func:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t).(*types.Func))
			}
		case *ir.Call:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
			if ft := e.FuncType(); ft != nil {
				e.SetFuncType(ti.arena.Resolve(ft).(*types.Func))
			}
			if targs := e.ResolvedTypeArgs(); targs != nil {
				resolved := make([]types.Type, len(targs))
				for i, ta := range targs {
					resolved[i] = ti.arena.Resolve(ta)
				}
				e.SetResolvedTypeArgs(resolved)
			}
		case *ir.Tuple:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.TupleGet:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.If:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.Match:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.Construct:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		case *ir.Constant:
			if t := e.Type(); t != nil {
				e.SetType(ti.arena.Resolve(t))
			}
		}
		t := e.Type()
		if t == nil {
			return
		}
		undetermined := false
		collectTypeInfo(ti.arena.Resolve(t), nil, func(ref types.Ref) {
			if !esc[ref] {
				undetermined = true
			}
		})
		if undetermined {
			terr := errf(AmbiguousType, "Type %s is not fully determined", ti.ts(t))
			terr.Expr = e
			firstErr = terr
		}
	})
	if firstErr != nil {
		return ti.fail(firstErr)
	}
	return nil
}

// matchAdtType resolves a scrutinee type to an applied data type and its
// declaration.
func (ti *InferenceContext) matchAdtType(t types.Type) (*types.App, *types.AdtData, error) {
	switch t := ti.arena.Find(t).(type) {
	case *types.App:
		data, ok := ti.env.Module.AdtData(t.Adt.Id())
		if !ok {
			return nil, nil, errf(UnboundVar, "Data type %s is not declared", t.Adt.Name())
		}
		if len(t.Args) != len(data.Params) {
			return nil, nil, errf(TypeArgumentArityError, "Data type %s expects %d type argument(s), found %d",
				t.Adt.Name(), len(data.Params), len(t.Args))
		}
		return t, data, nil
	case *types.Adt:
		data, ok := ti.env.Module.AdtData(t.Id())
		if !ok {
			return nil, nil, errf(UnboundVar, "Data type %s is not declared", t.Name())
		}
		if len(data.Params) != 0 {
			return nil, nil, errf(TypeArgumentArityError, "Data type %s expects %d type argument(s), found 0",
				t.Name(), len(data.Params))
		}
		return &types.App{Adt: data.Adt}, data, nil
	case *types.Incomplete:
		return nil, nil, errf(AmbiguousType, "Cannot match a value whose type is not yet determined (%s)", ti.ts(t))
	}
	return nil, nil, errf(KindMismatch, "Cannot match a value of type %s", ti.ts(t))
}

// checkPattern binds the variables of a pattern against the matched type,
// extending the scope.
func (ti *InferenceContext) checkPattern(sc scope, pat ir.Pattern, t types.Type) (scope, error) {
	switch pat := pat.(type) {
	case *ir.PatternWildcard:
		return sc, nil

	case *ir.PatternVar:
		if pat.Var.Ann != nil {
			if err := ti.unify(t, pat.Var.Ann); err != nil {
				return sc, err
			}
		}
		pat.Var.SetType(t)
		return sc.with(pat.Var.Id(), t), nil

	case *ir.PatternCtor:
		app, data, err := ti.matchAdtType(t)
		if err != nil {
			return sc, err
		}
		ctor := pat.Ctor
		if ctor == nil || ctor.Adt == nil || ctor.Adt.Id() != app.Adt.Id() {
			name := "<unknown>"
			if ctor != nil {
				name = ctor.Name
			}
			return sc, errf(AdtMismatch, "Constructor %s does not belong to data type %s", name, app.Adt.Name())
		}
		if len(pat.Patterns) != len(ctor.Args) {
			return sc, errf(ArityMismatch, "Constructor %s expects %d argument(s), found %d",
				ctor.Name, len(ctor.Args), len(pat.Patterns))
		}
		fields := ti.substParams(data.Params, app.Args, ctor.Args)
		for i, sub := range pat.Patterns {
			sc, err = ti.checkPattern(sc, sub, fields[i])
			if err != nil {
				return sc, err
			}
		}
		return sc, nil
	}
	panic("unknown pattern type: " + pat.PatternName())
}

// substParams rewrites each of ts with params replaced by their arguments.
func (ti *InferenceContext) substParams(params []*types.TypeParam, args []types.Type, ts []types.Type) []types.Type {
	if len(params) == 0 {
		return ts
	}
	if ti.subst == nil {
		ti.subst = make(map[uint32]types.Type, len(params))
	}
	for i, tp := range params {
		ti.subst[tp.Id()] = args[i]
	}
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = ti.applySubst(t)
	}
	ti.clearSubst()
	return out
}
