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

// Package construct offers compact constructors for building expressions and
// types by hand, primarily in tests. It is intended to be dot-imported.
package construct

import (
	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

// Types

// Element data-type: `float32`
func TPrim(dtype types.DType) *types.Prim {
	return &types.Prim{DType: dtype}
}

// Concrete dimension: `10`
func TSize(n int64) *types.Size {
	return &types.Size{N: n}
}

// Tensor type: `Tensor[(10, 10), float32]`
func TTensor(dtype types.Type, shape ...types.Type) *types.Tensor {
	return &types.Tensor{DType: dtype, Shape: shape}
}

// Tuple type: `(a, b)`
func TTuple(elems ...types.Type) *types.Tuple {
	return &types.Tuple{Elems: elems}
}

// Function type: `fn (a, b) -> c`
func TFunc(args []types.Type, ret types.Type) *types.Func {
	return &types.Func{Args: args, Return: ret}
}

// Polymorphic function type: `fn <t>(t) -> t`
func TPoly(tparams []*types.TypeParam, args []types.Type, ret types.Type, rels ...types.Relation) *types.Func {
	return &types.Func{TypeParams: tparams, Args: args, Return: ret, Relations: rels}
}

// Rigid type parameter of the given kind: `t`
func TParam(name string, kind types.Kind) *types.TypeParam {
	return types.NewTypeParam(name, kind)
}

// Applied data type: `List[float32]`
func TApp(adt *types.Adt, args ...types.Type) *types.App {
	return &types.App{Adt: adt, Args: args}
}

// Relation over type slots: `broadcast(a, b, c)`
func TRel(name string, args ...types.Type) types.Relation {
	return types.Relation{Name: name, Args: args}
}

// Expressions

// Local variable with a fresh identity: `%x`
func Var(name string) *ir.Var {
	return ir.NewVar(name)
}

// Local variable carrying a type annotation: `%x: Tensor[(10), float32]`
func TypedVar(name string, ann types.Type) *ir.Var {
	return ir.NewTypedVar(name, ann)
}

// Operator reference: `add`
func Op(name string) *ir.Op {
	return &ir.Op{Name: name}
}

// Application: `f(x)`
func Call(fn ir.Expr, args ...ir.Expr) *ir.Call {
	return &ir.Call{Fn: fn, Args: args}
}

// Application with explicit type arguments: `f<float32, 2>(x)`
func CallT(fn ir.Expr, targs []types.Type, args ...ir.Expr) *ir.Call {
	return &ir.Call{Fn: fn, Args: args, TypeArgs: targs}
}

// Abstraction: `fn (%x, %y) -> body`
func Func(params []*ir.Var, body ir.Expr) *ir.Func {
	return &ir.Func{Params: params, Body: body}
}

// Abstraction: `fn (%x) -> body`
func Func1(p *ir.Var, body ir.Expr) *ir.Func {
	return &ir.Func{Params: []*ir.Var{p}, Body: body}
}

// Abstraction: `fn (%x, %y) -> body`
func Func2(p1, p2 *ir.Var, body ir.Expr) *ir.Func {
	return &ir.Func{Params: []*ir.Var{p1, p2}, Body: body}
}

// Explicitly polymorphic abstraction: `fn <t>(%x: t) -> body`
func FuncT(tparams []*types.TypeParam, params []*ir.Var, body ir.Expr, rels ...types.Relation) *ir.Func {
	return &ir.Func{Params: params, Body: body, TypeParams: tparams, Relations: rels}
}

// Let-binding: `let %x = v in e`
func Let(v *ir.Var, value, body ir.Expr) *ir.Let {
	return &ir.Let{Var: v, Value: value, Body: body}
}

// Fixed-arity product: `(a, b)`
func Tuple(elems ...ir.Expr) *ir.Tuple {
	return &ir.Tuple{Elems: elems}
}

// Projection of a tuple field: `t.0`
func TupleGet(tuple ir.Expr, index int) *ir.TupleGet {
	return &ir.TupleGet{Tuple: tuple, Index: index}
}

// Conditional: `if c then t else f`
func If(cond, then, els ir.Expr) *ir.If {
	return &ir.If{Cond: cond, Then: then, Else: els}
}

// Pattern-matching: `match v { Cons(%h, %t) -> e1 | Nil -> e2 }`
func Match(value ir.Expr, clauses ...ir.Clause) *ir.Match {
	return &ir.Match{Value: value, Clauses: clauses}
}

// Pattern clause within Match: `Cons(%h, %t) -> body`
func Clause(p ir.Pattern, body ir.Expr) ir.Clause {
	return ir.Clause{Pattern: p, Body: body}
}

// Constructor application: `Cons(h, t)`
func Ctor(ctor *types.Ctor, args ...ir.Expr) *ir.Construct {
	return &ir.Construct{Ctor: ctor, Args: args}
}

// Tensor literal carrying only its type: `const(float32[2, 3])`
func Const(dtype types.DType, shape ...int64) *ir.Constant {
	return &ir.Constant{DType: dtype, Shape: shape}
}

// Scalar literal: `const(bool)`
func ConstScalar(dtype types.DType) *ir.Constant {
	return &ir.Constant{DType: dtype}
}

// Patterns

// Wildcard pattern: `_`
func PWild() *ir.PatternWildcard {
	return &ir.PatternWildcard{}
}

// Variable pattern: `%x`
func PVar(v *ir.Var) *ir.PatternVar {
	return &ir.PatternVar{Var: v}
}

// Constructor pattern: `Cons(%h, %t)`
func PCtor(ctor *types.Ctor, pats ...ir.Pattern) *ir.PatternCtor {
	return &ir.PatternCtor{Ctor: ctor, Patterns: pats}
}
