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

package types

import "sync/atomic"

// Type is the base interface for all types.
type Type interface {
	TypeName() string
}

func (t *Prim) TypeName() string       { return "Prim" }
func (t *Size) TypeName() string       { return "Size" }
func (t *Tensor) TypeName() string     { return "Tensor" }
func (t *Tuple) TypeName() string      { return "Tuple" }
func (t *Func) TypeName() string       { return "Func" }
func (t *TypeParam) TypeName() string  { return "TypeParam" }
func (t *Adt) TypeName() string        { return "Adt" }
func (t *App) TypeName() string        { return "App" }
func (t *Incomplete) TypeName() string { return "Incomplete" }

// Prim is an element data-type, occupying the data-type slot of a tensor:
// `float32` or `bool`
type Prim struct {
	DType DType
}

// Size is a concrete tensor dimension: `10`
type Size struct {
	N int64
}

// Tensor is a multi-dimensional array type: `Tensor[(10, 10), float32]`
//
// DType holds a *Prim, a *TypeParam of kind BaseType or an *Incomplete of
// kind BaseType. Each element of Shape holds a *Size, a *TypeParam of kind
// ShapeVar or an *Incomplete of kind ShapeVar. A scalar is a rank-0 tensor.
type Tensor struct {
	DType Type
	Shape []Type
}

// Tuple is a fixed-arity product type: `(Tensor[(10), float32], bool)`
type Tuple struct {
	Elems []Type
}

// Func is a function type: `fn <t>(t, t) -> t`
//
// TypeParams lists the declared (universally quantified) parameters.
// Relations carries the type relations constraining uses of the function;
// they are registered with the solver whenever the function type is
// instantiated at a call site.
type Func struct {
	TypeParams []*TypeParam
	Args       []Type
	Return     Type
	Relations  []Relation
}

// Relation names a registered type relation applied to a list of type slots.
// Relations attached to a function type are solved against the instantiated
// argument and return types of each call.
type Relation struct {
	Name string
	Args []Type
}

// TypeParam is a rigid (declared) type parameter. Parameters are compared by
// identity, never by name; each carries the kind of position it may occupy.
type TypeParam struct {
	name string
	id   uint32
	kind Kind
}

var nextParamId uint32

// NewTypeParam mints a fresh type parameter with a process-unique identity.
func NewTypeParam(name string, kind Kind) *TypeParam {
	return &TypeParam{name: name, id: atomic.AddUint32(&nextParamId, 1), kind: kind}
}

func (tp *TypeParam) Id() uint32   { return tp.id }
func (tp *TypeParam) Name() string { return tp.name }
func (tp *TypeParam) Kind() Kind   { return tp.kind }

// AdtID identifies a declared algebraic data type. Handles are minted by the
// module owning the declaration; the zero value is never a valid handle.
type AdtID uint32

// Adt is the handle type for a declared algebraic data type: `List`
//
// Two applied data types are only ever compatible when their handles are
// identical; names play no part in matching.
type Adt struct {
	name string
	id   AdtID
}

// NewAdt wraps an identity minted by a module into a data-type handle.
func NewAdt(id AdtID, name string) *Adt {
	return &Adt{name: name, id: id}
}

func (a *Adt) Id() AdtID    { return a.id }
func (a *Adt) Name() string { return a.name }

// App applies a data-type handle to a list of type arguments: `List[int32]`
//
// Nullary data types are represented as applications with no arguments.
type App struct {
	Adt  *Adt
	Args []Type
}

// Incomplete is a placeholder for a type not yet determined. Instances are
// created only by Arena.Fresh; the Ref indexes the arena cell holding the
// binding state.
type Incomplete struct {
	Ref Ref
}

// Ctor describes one constructor of an algebraic data type. Arg types are
// written in terms of the data type's parameters. Adt and Index are filled
// in when the declaration is registered with a module.
type Ctor struct {
	Name  string
	Args  []Type
	Adt   *Adt
	Index int
}

// AdtData is the full declaration of an algebraic data type: its handle, its
// type parameters and its constructors.
type AdtData struct {
	Adt    *Adt
	Params []*TypeParam
	Ctors  []*Ctor
}

// Reporter is the solver-side capability handed to type relation procedures.
// All refinement a relation performs must flow through Unify, so that occurs
// checks and kind checks are never bypassed.
type Reporter interface {
	// Resolve substitutes all bindings reachable from t.
	Resolve(t Type) Type
	// Unify makes a and b equal, binding incomplete types as needed.
	Unify(a, b Type) error
}

// NewTensor builds a tensor type with a concrete data-type and all-concrete
// dimensions.
func NewTensor(dtype DType, shape ...int64) *Tensor {
	dims := make([]Type, len(shape))
	for i, n := range shape {
		dims[i] = &Size{N: n}
	}
	return &Tensor{DType: &Prim{DType: dtype}, Shape: dims}
}

// Scalar builds the rank-0 tensor type of the given data-type.
func Scalar(dtype DType) *Tensor {
	return &Tensor{DType: &Prim{DType: dtype}, Shape: nil}
}
