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

// Package relations implements the registry of type relations: named,
// fixed-arity procedures which constrain and refine tensor types during
// inference. Operator shape rules such as broadcasting are expressed as
// relations rather than hard-coded into unification.
package relations

import (
	"fmt"

	"github.com/Mauvesr/tensile/types"
)

// Verdict is the outcome of evaluating a relation against its type slots.
type Verdict uint8

const (
	// Indeterminate means some slots are too incomplete to decide; the
	// solver re-runs the relation once more information is available.
	Indeterminate Verdict = iota
	// Holds means the relation is satisfied. The solver will not run the
	// relation again.
	Holds
	// Fails means the relation can never be satisfied, regardless of how
	// the remaining incomplete slots resolve.
	Fails
)

func (v Verdict) String() string {
	switch v {
	case Indeterminate:
		return "Indeterminate"
	case Holds:
		return "Holds"
	case Fails:
		return "Fails"
	}
	return "Verdict(?)"
}

// Func is a relation procedure. The solver passes the instance's type slots,
// resolved against the arena, along with a reporter through which the
// procedure may refine incomplete slots. Procedures must be monotone: they
// may only bind incomplete types via the reporter, never unbind or contradict
// earlier binds, and a Holds verdict must be final.
//
// A non-nil error reports a type error discovered while refining (for
// example a dimension conflict surfaced by Unify) and aborts solving.
type Func func(r types.Reporter, args []types.Type) (Verdict, error)

type proc struct {
	fn    Func
	arity int
}

// Registry maps relation names to their procedures. A registry is immutable
// once populated and may be shared between concurrent inference runs.
type Registry struct {
	procs map[string]proc
}

func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]proc, 8)}
}

// Register adds a relation procedure under a unique name with a fixed arity.
func (reg *Registry) Register(name string, arity int, fn Func) error {
	if name == "" {
		return fmt.Errorf("relations: relation name must not be empty")
	}
	if arity < 1 {
		return fmt.Errorf("relations: relation %s must have at least one type slot", name)
	}
	if fn == nil {
		return fmt.Errorf("relations: relation %s has no procedure", name)
	}
	if _, ok := reg.procs[name]; ok {
		return fmt.Errorf("relations: relation %s is already registered", name)
	}
	reg.procs[name] = proc{fn: fn, arity: arity}
	return nil
}

// Lookup returns the procedure and arity registered under name.
func (reg *Registry) Lookup(name string) (Func, int, bool) {
	p, ok := reg.procs[name]
	return p.fn, p.arity, ok
}

// Builtin returns a fresh registry pre-populated with the built-in relations:
//
//	broadcast(lhs, rhs, out)  out is the broadcasted shape of lhs and rhs
//	identity(a, b)            a and b are the same type
func Builtin() *Registry {
	reg := NewRegistry()
	reg.Register("broadcast", 3, Broadcast)
	reg.Register("identity", 2, Identity)
	return reg
}
