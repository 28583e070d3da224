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
	"github.com/benbjohnson/immutable"

	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/ops"
	"github.com/Mauvesr/tensile/relations"
	"github.com/Mauvesr/tensile/types"
)

// Env bundles what a single inference run reads: the module being checked,
// the operator table and the relation registry. An Env may be shared by
// concurrent inference contexts as long as (per Module) at most one of them
// is an InferModule run.
type Env struct {
	Module *Module
	Ops    *ops.Table
	Rels   *relations.Registry
}

// NewEnv creates an environment for a module with the built-in relations and
// an empty operator table.
func NewEnv(m *Module) *Env {
	reg := relations.Builtin()
	return &Env{Module: m, Ops: ops.NewTable(reg), Rels: reg}
}

// scope maps local variable identities to their types during the inference
// walk. It is persistent: with returns an extended scope sharing structure
// with the receiver, so sibling branches and shadowed bindings never observe
// each other.
type scope struct {
	m *immutable.Map
}

func newScope() scope {
	return scope{m: immutable.NewMap(nil)}
}

func (s scope) with(id ir.VarID, t types.Type) scope {
	return scope{m: s.m.Set(int(id), t)}
}

func (s scope) lookup(id ir.VarID) (types.Type, bool) {
	v, ok := s.m.Get(int(id))
	if !ok {
		return nil, false
	}
	return v.(types.Type), true
}
