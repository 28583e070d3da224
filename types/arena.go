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

import "errors"

// ErrRecursiveType is returned by Arena.Bind when binding an incomplete type
// would make it a subterm of itself.
var ErrRecursiveType = errors.New("recursive types are not supported")

// ErrKindConflict is returned by Arena.Bind when the bound type occupies a
// different kind of position than the incomplete type was created for.
var ErrKindConflict = errors.New("kind conflict")

// Ref indexes an arena cell holding the binding state of an incomplete type.
type Ref uint32

type cell struct {
	// link is nil while the cell is unbound. A link to another *Incomplete
	// forms a union-find edge; Find compresses chains of such edges.
	link    Type
	kind    Kind
	boundAt uint64
}

// Arena owns every incomplete type created during an inference run. It is the
// only mutable state in the system; all mutation flows through Bind, which
// performs the occurs check and the kind check before committing. Binds are
// never undone.
//
// An Arena must not be shared between concurrently running inference
// contexts.
type Arena struct {
	cells   []cell
	version uint64
}

func NewArena() *Arena {
	return &Arena{cells: make([]cell, 0, 64)}
}

// Len reports the number of cells allocated so far.
func (a *Arena) Len() int { return len(a.cells) }

// Version is a counter incremented on every bind. The solver compares
// versions to decide whether a relation instance may have become solvable
// since it last ran.
func (a *Arena) Version() uint64 { return a.version }

// Fresh allocates a new unbound incomplete type of the given kind.
func (a *Arena) Fresh(kind Kind) *Incomplete {
	ref := Ref(len(a.cells))
	a.cells = append(a.cells, cell{kind: kind})
	return &Incomplete{Ref: ref}
}

// Find follows binding links until it reaches a type that is not a bound
// incomplete type: either a structural type or the unbound root of a chain.
// Chains of incomplete-to-incomplete links are compressed along the way.
func (a *Arena) Find(t Type) Type {
	tv, ok := t.(*Incomplete)
	if !ok {
		return t
	}
	root := tv.Ref
	for {
		link := a.cells[root].link
		if link == nil {
			break
		}
		next, ok := link.(*Incomplete)
		if !ok {
			a.compress(tv.Ref, root)
			return link
		}
		root = next.Ref
	}
	a.compress(tv.Ref, root)
	if root == tv.Ref {
		return tv
	}
	return &Incomplete{Ref: root}
}

// compress re-points every cell on the chain from ref to root directly at
// root. Compression does not change what any type resolves to, so the
// version counter is left alone.
func (a *Arena) compress(ref, root Ref) {
	for ref != root {
		link, ok := a.cells[ref].link.(*Incomplete)
		if !ok {
			return
		}
		a.cells[ref].link = &Incomplete{Ref: root}
		ref = link.Ref
	}
}

// Bound reports the binding of ref's cell, if any.
func (a *Arena) Bound(ref Ref) (Type, bool) {
	t := a.cells[ref].link
	return t, t != nil
}

// KindOf reports the kind of position t may occupy. For incomplete types this
// is the kind recorded at creation; for type parameters the declared kind.
func (a *Arena) KindOf(t Type) Kind {
	switch t := a.Find(t).(type) {
	case *Prim:
		return KindBaseType
	case *Size:
		return KindShapeVar
	case *TypeParam:
		return t.Kind()
	case *Incomplete:
		return a.cells[t.Ref].kind
	default:
		return KindType
	}
}

// Bind binds the incomplete type at ref to t. It fails with ErrRecursiveType
// when ref occurs within t, and with ErrKindConflict when t occupies a
// different kind of position than ref was created for. Binding an
// already-bound cell is a bug in the caller and panics.
func (a *Arena) Bind(ref Ref, t Type) error {
	root := a.rootOf(ref)
	if a.cells[root].link != nil {
		panic("types: bind on bound cell")
	}
	target := a.Find(t)
	if tv, ok := target.(*Incomplete); ok && tv.Ref == root {
		return ErrRecursiveType
	}
	if a.occurs(root, target) {
		return ErrRecursiveType
	}
	if a.KindOf(target) != a.cells[root].kind {
		return ErrKindConflict
	}
	a.version++
	a.cells[root].link = target
	a.cells[root].boundAt = a.version
	return nil
}

func (a *Arena) rootOf(ref Ref) Ref {
	for {
		link, ok := a.cells[ref].link.(*Incomplete)
		if !ok {
			return ref
		}
		ref = link.Ref
	}
}

// occurs reports whether the unbound cell at ref is reachable from t.
func (a *Arena) occurs(ref Ref, t Type) bool {
	switch t := a.Find(t).(type) {
	case *Incomplete:
		return t.Ref == ref
	case *Tensor:
		if a.occurs(ref, t.DType) {
			return true
		}
		return a.occursAll(ref, t.Shape)
	case *Tuple:
		return a.occursAll(ref, t.Elems)
	case *Func:
		if a.occursAll(ref, t.Args) || a.occurs(ref, t.Return) {
			return true
		}
		for _, rel := range t.Relations {
			if a.occursAll(ref, rel.Args) {
				return true
			}
		}
		return false
	case *App:
		return a.occursAll(ref, t.Args)
	default:
		return false
	}
}

func (a *Arena) occursAll(ref Ref, ts []Type) bool {
	for _, t := range ts {
		if a.occurs(ref, t) {
			return true
		}
	}
	return false
}

// Resolve substitutes all bindings reachable from t, rebuilding structure as
// needed. Unbound incomplete types are replaced by the canonical root of
// their chain, so aliased holes resolve to the same Ref.
func (a *Arena) Resolve(t Type) Type {
	switch t := a.Find(t).(type) {
	case *Tensor:
		shape := make([]Type, len(t.Shape))
		for i, d := range t.Shape {
			shape[i] = a.Resolve(d)
		}
		return &Tensor{DType: a.Resolve(t.DType), Shape: shape}
	case *Tuple:
		return &Tuple{Elems: a.resolveAll(t.Elems)}
	case *Func:
		rels := make([]Relation, len(t.Relations))
		for i, rel := range t.Relations {
			rels[i] = Relation{Name: rel.Name, Args: a.resolveAll(rel.Args)}
		}
		return &Func{
			TypeParams: t.TypeParams,
			Args:       a.resolveAll(t.Args),
			Return:     a.Resolve(t.Return),
			Relations:  rels,
		}
	case *App:
		return &App{Adt: t.Adt, Args: a.resolveAll(t.Args)}
	default:
		return t
	}
}

func (a *Arena) resolveAll(ts []Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = a.Resolve(t)
	}
	return out
}

// Stamp reports the latest bind version among all cells reachable from the
// given types. A relation instance whose slots stamp no later than its last
// evaluation cannot have become more solvable in the meantime.
func (a *Arena) Stamp(ts ...Type) uint64 {
	var max uint64
	for _, t := range ts {
		if v := a.stamp(t); v > max {
			max = v
		}
	}
	return max
}

func (a *Arena) stamp(t Type) uint64 {
	var max uint64
	if tv, ok := t.(*Incomplete); ok {
		ref := tv.Ref
		for {
			c := a.cells[ref]
			if c.boundAt > max {
				max = c.boundAt
			}
			if c.link == nil {
				return max
			}
			next, ok := c.link.(*Incomplete)
			if !ok {
				t = c.link
				break
			}
			ref = next.Ref
		}
	}
	switch t := t.(type) {
	case *Tensor:
		if v := a.stamp(t.DType); v > max {
			max = v
		}
		if v := a.Stamp(t.Shape...); v > max {
			max = v
		}
	case *Tuple:
		if v := a.Stamp(t.Elems...); v > max {
			max = v
		}
	case *Func:
		if v := a.Stamp(t.Args...); v > max {
			max = v
		}
		if v := a.stamp(t.Return); v > max {
			max = v
		}
		for _, rel := range t.Relations {
			if v := a.Stamp(rel.Args...); v > max {
				max = v
			}
		}
	case *App:
		if v := a.Stamp(t.Args...); v > max {
			max = v
		}
	}
	return max
}
