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

// Package ir defines the expression nodes of the tensor intermediate
// representation which inference operates on.
package ir

import (
	"sync/atomic"

	"github.com/Mauvesr/tensile/types"
)

// VarID identifies a local variable binding. Bindings are compared by
// identity, never by name; the zero value is never a valid identity.
type VarID uint32

// GlobalID identifies a module-level function. Handles are minted by the
// module owning the definition; the zero value is never a valid identity.
type GlobalID uint32

// Expr is the base for all expressions.
type Expr interface {
	// Name of the syntax-type of the expression.
	ExprName() string
	// Type returns an inferred type of an expression. Expression types are only available after type-inference.
	Type() types.Type
}

var (
	_ Expr = (*Var)(nil)
	_ Expr = (*GlobalVar)(nil)
	_ Expr = (*Op)(nil)
	_ Expr = (*Func)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*Tuple)(nil)
	_ Expr = (*TupleGet)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*Match)(nil)
	_ Expr = (*Construct)(nil)
	_ Expr = (*Constant)(nil)
)

var nextVarId uint32

// Local variable. The same *Var serves as the binding occurrence and as
// every reference to it, so all uses share one inferred type.
type Var struct {
	// Ann optionally constrains the variable's type at its binding site.
	Ann      types.Type
	name     string
	id       VarID
	inferred types.Type
}

// NewVar mints a variable with a fresh, process-unique identity.
func NewVar(name string) *Var {
	return &Var{name: name, id: VarID(atomic.AddUint32(&nextVarId, 1))}
}

// NewTypedVar mints a variable carrying a type annotation.
func NewTypedVar(name string, ann types.Type) *Var {
	v := NewVar(name)
	v.Ann = ann
	return v
}

// "Var"
func (e *Var) ExprName() string { return "Var" }

// Get the inferred (or assigned) type of e.
func (e *Var) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Var) SetType(t types.Type) { e.inferred = t }

func (e *Var) Name() string { return e.name }
func (e *Var) Id() VarID    { return e.id }

// Module-level function reference: `@f`
//
// After its definition has been inferred, the handle carries the definition's
// generalized type; references instantiate that type afresh.
type GlobalVar struct {
	name     string
	id       GlobalID
	inferred types.Type
}

// NewGlobalVar wraps an identity minted by a module into a global handle.
func NewGlobalVar(id GlobalID, name string) *GlobalVar {
	return &GlobalVar{name: name, id: id}
}

// "GlobalVar"
func (e *GlobalVar) ExprName() string { return "GlobalVar" }

// Get the inferred (or assigned) type of e.
func (e *GlobalVar) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *GlobalVar) SetType(t types.Type) { e.inferred = t }

func (e *GlobalVar) Name() string { return e.name }
func (e *GlobalVar) Id() GlobalID { return e.id }

// Operator reference: `add`
//
// Operators are declared, never defined; their types come from the operator
// table in scope during inference.
type Op struct {
	Name     string
	inferred types.Type
}

// "Op"
func (e *Op) ExprName() string { return "Op" }

// Get the inferred (or assigned) type of e.
func (e *Op) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Op) SetType(t types.Type) { e.inferred = t }

// Abstraction: `fn (%x, %y) -> body`
//
// Params are the binding occurrences of the arguments; annotations ride on
// the vars themselves. TypeParams declares explicit polymorphism: when
// non-empty, the function's type is not further generalized. Relations
// constrain the function's argument and return types and are solved at each
// call site against the instantiated type.
type Func struct {
	Params     []*Var
	Body       Expr
	Ret        types.Type
	TypeParams []*types.TypeParam
	Relations  []types.Relation
	inferred   *types.Func
}

// "Func"
func (e *Func) ExprName() string { return "Func" }

// Get the inferred (or assigned) type of e.
func (e *Func) Type() types.Type {
	if e.inferred == nil {
		return nil
	}
	return e.inferred
}

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Func) SetType(ft *types.Func) { e.inferred = ft }

// Get the inferred (or assigned) type of an argument of e.
func (e *Func) ArgType(index int) types.Type { return e.inferred.Args[index] }

// Get the inferred (or assigned) return type of e.
func (e *Func) RetType() types.Type { return e.inferred.Return }

// Application: `f(x)`
type Call struct {
	Fn   Expr
	Args []Expr
	// TypeArgs optionally instantiates a polymorphic callee explicitly.
	// When empty, instantiation is inferred.
	TypeArgs     []types.Type
	inferred     types.Type
	inferredFunc *types.Func
	typeArgs     []types.Type
}

// "Call"
func (e *Call) ExprName() string { return "Call" }

// Get the inferred (or assigned) type of e.
func (e *Call) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Call) SetType(t types.Type) { e.inferred = t }

// Get the inferred (or assigned) instantiated type of the function called in e.
func (e *Call) FuncType() *types.Func { return e.inferredFunc }

// Assign the instantiated type of the function called in e. Type assignments
// should occur indirectly, during inference.
func (e *Call) SetFuncType(t *types.Func) { e.inferredFunc = t }

// Get the resolved type arguments the callee was instantiated with.
func (e *Call) ResolvedTypeArgs() []types.Type { return e.typeArgs }

// Assign the resolved type arguments of e. Type assignments should occur
// indirectly, during inference.
func (e *Call) SetResolvedTypeArgs(targs []types.Type) { e.typeArgs = targs }

// Let-binding: `let %x = v in e`
//
// Let-bound locals are monomorphic: the value's type is never generalized.
type Let struct {
	Var   *Var
	Value Expr
	Body  Expr
}

// "Let"
func (e *Let) ExprName() string { return "Let" }

// Get the inferred (or assigned) type of e.
func (e *Let) Type() types.Type { return e.Body.Type() }

// Fixed-arity product: `(a, b)`
type Tuple struct {
	Elems    []Expr
	inferred types.Type
}

// "Tuple"
func (e *Tuple) ExprName() string { return "Tuple" }

// Get the inferred (or assigned) type of e.
func (e *Tuple) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Tuple) SetType(t types.Type) { e.inferred = t }

// Projection of a tuple field: `t.0`
type TupleGet struct {
	Tuple    Expr
	Index    int
	inferred types.Type
}

// "TupleGet"
func (e *TupleGet) ExprName() string { return "TupleGet" }

// Get the inferred (or assigned) type of e.
func (e *TupleGet) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *TupleGet) SetType(t types.Type) { e.inferred = t }

// Conditional: `if c then t else f`
//
// The condition must be a boolean scalar; both branches must have one type.
type If struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	inferred types.Type
}

// "If"
func (e *If) ExprName() string { return "If" }

// Get the inferred (or assigned) type of e.
func (e *If) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *If) SetType(t types.Type) { e.inferred = t }

// Pattern-matching over a constructed data type:
//
//  match s {
//      Cons(%h, %t) -> expr1
//    | Nil -> expr2
//  }
//
// Clauses are checked top to bottom; exhaustiveness is not checked.
type Match struct {
	Value    Expr
	Clauses  []Clause
	inferred types.Type
}

// "Match"
func (e *Match) ExprName() string { return "Match" }

// Get the inferred (or assigned) type of e.
func (e *Match) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Match) SetType(t types.Type) { e.inferred = t }

// Pattern clause within Match: `Cons(%h, %t) -> expr1`
type Clause struct {
	Pattern Pattern
	Body    Expr
}

// Get the inferred (or assigned) type of e.
func (e *Clause) Type() types.Type { return e.Body.Type() }

// Constructor application: `Cons(h, t)`
type Construct struct {
	Ctor     *types.Ctor
	Args     []Expr
	inferred types.Type
}

// "Construct"
func (e *Construct) ExprName() string { return "Construct" }

// Get the inferred (or assigned) type of e.
func (e *Construct) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Construct) SetType(t types.Type) { e.inferred = t }

// Semi-opaque tensor literal. Only the data-type and shape take part in
// inference; Data is carried through untouched and may be nil.
type Constant struct {
	DType    types.DType
	Shape    []int64
	Data     []byte
	inferred types.Type
}

// "Constant"
func (e *Constant) ExprName() string { return "Constant" }

// Get the inferred (or assigned) type of e.
func (e *Constant) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during inference.
func (e *Constant) SetType(t types.Type) { e.inferred = t }
