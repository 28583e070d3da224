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
	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

// Module is a collection of named function definitions and algebraic data
// type declarations. It mints the identities of its global handles and data
// types; handles from different modules never compare equal.
//
// Modules are built up-front and treated as read-only during inference,
// except that inference stores the checked type onto each global handle.
// A module must not be modified while an inference run is using it.
type Module struct {
	globals    []*ir.GlobalVar
	funcs      map[ir.GlobalID]*ir.Func
	globalName map[string]*ir.GlobalVar
	adts       []*types.AdtData
	adtIndex   map[types.AdtID]*types.AdtData
	nextGlobal uint32
	nextAdt    uint32
}

func NewModule() *Module {
	return &Module{
		funcs:      make(map[ir.GlobalID]*ir.Func),
		globalName: make(map[string]*ir.GlobalVar),
		adtIndex:   make(map[types.AdtID]*types.AdtData),
	}
}

// NewGlobal mints a fresh global handle. The definition may be attached
// later with Define; forward declarations allow mutually recursive
// definitions to reference each other.
func (m *Module) NewGlobal(name string) *ir.GlobalVar {
	m.nextGlobal++
	gv := ir.NewGlobalVar(ir.GlobalID(m.nextGlobal), name)
	m.globals = append(m.globals, gv)
	m.globalName[name] = gv
	return gv
}

// Define attaches (or replaces) the definition of a global handle.
func (m *Module) Define(gv *ir.GlobalVar, fn *ir.Func) {
	m.funcs[gv.Id()] = fn
}

// Declare mints a global handle and attaches its definition in one step.
func (m *Module) Declare(name string, fn *ir.Func) *ir.GlobalVar {
	gv := m.NewGlobal(name)
	m.Define(gv, fn)
	return gv
}

// Global looks up a global handle by name.
func (m *Module) Global(name string) (*ir.GlobalVar, bool) {
	gv, ok := m.globalName[name]
	return gv, ok
}

// Globals returns the module's global handles in declaration order.
func (m *Module) Globals() []*ir.GlobalVar { return m.globals }

// Func returns the definition attached to a global handle, if any.
func (m *Module) Func(gv *ir.GlobalVar) (*ir.Func, bool) {
	fn, ok := m.funcs[gv.Id()]
	return fn, ok
}

// NewAdt mints a fresh data-type handle. The declaration may be attached
// later with DefineAdt, allowing recursive data types to reference their own
// handle in constructor argument types.
func (m *Module) NewAdt(name string) *types.Adt {
	m.nextAdt++
	return types.NewAdt(types.AdtID(m.nextAdt), name)
}

// DefineAdt attaches the declaration of a data-type handle: its type
// parameters and constructors. Each constructor's back-reference and tag
// index are filled in here; callers only provide names and argument types.
func (m *Module) DefineAdt(adt *types.Adt, params []*types.TypeParam, ctors []*types.Ctor) *types.AdtData {
	for i, c := range ctors {
		c.Adt = adt
		c.Index = i
	}
	data := &types.AdtData{Adt: adt, Params: params, Ctors: ctors}
	m.adts = append(m.adts, data)
	m.adtIndex[adt.Id()] = data
	return data
}

// AdtData returns the declaration behind a data-type handle, if any.
func (m *Module) AdtData(id types.AdtID) (*types.AdtData, bool) {
	data, ok := m.adtIndex[id]
	return data, ok
}

// Adts returns the module's data-type declarations in declaration order.
func (m *Module) Adts() []*types.AdtData { return m.adts }
