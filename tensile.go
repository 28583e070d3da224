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

// Package tensile infers types for a tensor program representation.
//
// Inference is in the style of Hindley-Milner, extended with tensor shapes as
// part of types, data-type and dimension polymorphism, algebraic data types,
// and pluggable type relations (such as multidimensional broadcasting) solved
// against a work-list until a fixpoint is reached.
//
// Useful links:
//
//	https://en.wikipedia.org/wiki/Hindley%E2%80%93Milner_type_system
//	https://numpy.org/doc/stable/user/basics.broadcasting.html
package tensile

import (
	"errors"

	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

// InferenceContext is a reusable context for type inference. The arena of
// type bindings persists across calls, so types inferred in earlier calls
// remain resolvable.
//
// An inference context cannot be used concurrently.
type InferenceContext struct {
	arena      *types.Arena
	env        *Env
	queue      []*relInstance
	inProgress map[ir.GlobalID]*types.Func
	subst      map[uint32]types.Type
	completed  []completedDef

	err     error
	invalid ir.Expr
}

type completedDef struct {
	gv *ir.GlobalVar
	fn *ir.Func
}

// Create a new type-inference context. A context may be reused for inference.
func NewContext() *InferenceContext {
	return &InferenceContext{
		arena:      types.NewArena(),
		inProgress: make(map[ir.GlobalID]*types.Func),
	}
}

func (ti *InferenceContext) reset() {
	ti.queue = ti.queue[:0]
	ti.completed = ti.completed[:0]
	for id := range ti.inProgress {
		delete(ti.inProgress, id)
	}
	ti.err, ti.invalid = nil, nil
}

// Get the error which caused inference to fail.
func (ti *InferenceContext) Error() error { return ti.err }

// Get the expression which caused inference to fail.
func (ti *InferenceContext) InvalidExpr() ir.Expr { return ti.invalid }

func (ti *InferenceContext) fail(err error) error {
	if terr, ok := err.(*Error); ok {
		ti.invalid = terr.Expr
	}
	ti.err = err
	return err
}

// Infer the type of expr within env. Types are assigned to expr and its
// sub-expressions in place, so all sub-expressions must have unique
// addresses.
func (ti *InferenceContext) Infer(expr ir.Expr, env *Env) (types.Type, error) {
	nocopy := true
	_, t, err := ti.inferRoot(expr, env, nocopy)
	return t, err
}

// Infer the type of expr within env on a copy of expr, leaving expr
// untouched. The type-annotated copy is returned.
func (ti *InferenceContext) Annotate(expr ir.Expr, env *Env) (ir.Expr, error) {
	nocopy := false
	root, _, err := ti.inferRoot(expr, env, nocopy)
	return root, err
}

// Infer the type of expr within env, discarding the inferred type. Types are
// assigned to expr and its sub-expressions in place, so all sub-expressions
// must have unique addresses.
func (ti *InferenceContext) AnnotateDirect(expr ir.Expr, env *Env) error {
	nocopy := true
	_, _, err := ti.inferRoot(expr, env, nocopy)
	return err
}

// Infer the types of every definition of the module bound in env, in
// declaration order. Definitions already carrying a type are skipped;
// definitions reached through references are inferred on demand, before
// their turn.
func (ti *InferenceContext) InferModule(env *Env) error {
	if env == nil || env.Module == nil {
		return errors.New("Empty environment")
	}
	for _, gv := range env.Module.Globals() {
		if gv.Type() != nil {
			continue
		}
		ti.reset()
		ti.env = env
		if err := ti.inferGlobal(gv); err != nil {
			return err
		}
		if err := ti.adoptCompleted(); err != nil {
			return err
		}
	}
	return nil
}

func (ti *InferenceContext) inferRoot(root ir.Expr, env *Env, nocopy bool) (ir.Expr, types.Type, error) {
	if root == nil {
		return nil, nil, errors.New("Empty expression")
	}
	if env == nil || env.Module == nil {
		return nil, nil, errors.New("Empty environment")
	}
	if !nocopy {
		root = ir.CopyExpr(root)
	}
	ti.reset()
	ti.env = env
	t, err := ti.infer(newScope(), root)
	if err != nil {
		return root, nil, err
	}
	if err := ti.solve(0); err != nil {
		return root, nil, ti.fail(err)
	}
	t, err = ti.finishRoot(root, t)
	if err != nil {
		return root, nil, err
	}
	return root, t, nil
}

// finishRoot finalizes a top-level expression: a function type is
// generalized like a definition, undecided relations are captured or
// reported, and all annotations are resolved.
func (ti *InferenceContext) finishRoot(root ir.Expr, t types.Type) (types.Type, error) {
	pend := ti.pendingIn(0)
	if ft, ok := ti.arena.Find(t).(*types.Func); ok && len(ft.TypeParams) == 0 {
		candidate := &types.Func{Args: ft.Args, Return: ft.Return}
		if len(pend) > 0 {
			candidate.Relations = make([]types.Relation, len(pend))
			for i, inst := range pend {
				candidate.Relations[i] = types.Relation{Name: inst.name, Args: inst.args}
			}
		}
		gen, err := ti.generalize(candidate)
		if err != nil {
			return nil, ti.fail(err)
		}
		t = gen
	}
	if err := ti.classifyPending(pend, nil); err != nil {
		return nil, err
	}
	if err := ti.resolveExpr(root, nil); err != nil {
		return nil, err
	}
	if err := ti.adoptCompleted(); err != nil {
		return nil, err
	}
	final := ti.arena.Resolve(t)
	if fe, ok := root.(*ir.Func); ok {
		if ft, ok := final.(*types.Func); ok {
			fe.SetType(ft)
		}
	}
	return final, nil
}

// adoptCompleted finalizes the definitions typed during the current
// top-level inference. Params minted while generalizing an enclosing
// definition may appear in the schemes of inner definitions after mutual
// recursion; adopting them keeps every scheme self-contained.
func (ti *InferenceContext) adoptCompleted() error {
	for _, def := range ti.completed {
		ft, ok := ti.arena.Resolve(def.gv.Type()).(*types.Func)
		if !ok {
			continue
		}
		ft = adoptParams(ft)
		def.gv.SetType(ft)
		def.fn.SetType(ft)
		if err := ti.resolveExpr(def.fn, nil); err != nil {
			ti.completed = ti.completed[:0]
			return err
		}
	}
	ti.completed = ti.completed[:0]
	return nil
}
