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
	"strings"

	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/relations"
	"github.com/Mauvesr/tensile/types"
)

// relInstance is a queued application of a type relation to concrete argument
// slots. stamp records the newest binding reachable from the arguments at the
// last evaluation; the instance is re-evaluated only after a newer binding
// appears.
type relInstance struct {
	name      string
	fn        relations.Func
	args      []types.Type
	origin    ir.Expr
	stamp     uint64
	evaluated bool
	done      bool
}

// addRelation queues a relation instance for solving.
func (ti *InferenceContext) addRelation(rel types.Relation, origin ir.Expr) error {
	fn, arity, ok := ti.env.Rels.Lookup(rel.Name)
	if !ok {
		return errf(UnknownRelation, "Unknown type relation %s", rel.Name)
	}
	if len(rel.Args) != arity {
		return errf(ArityMismatch, "Type relation %s expects %d argument(s), found %d", rel.Name, arity, len(rel.Args))
	}
	ti.queue = append(ti.queue, &relInstance{name: rel.Name, fn: fn, args: rel.Args, origin: origin})
	return nil
}

// reporter exposes binding resolution and unification to relation functions.
type reporter struct {
	ti *InferenceContext
}

func (r reporter) Resolve(t types.Type) types.Type { return r.ti.arena.Resolve(t) }
func (r reporter) Unify(a, b types.Type) error     { return r.ti.unify(a, b) }

// solve runs the relation instances queued at or after start until no
// further progress is possible. Instances that hold are marked done; a
// failing instance aborts with an error. Instances that remain undecided are
// left in the queue, to be captured by generalization or decided by an
// enclosing definition.
func (ti *InferenceContext) solve(start int) error {
	pending := ti.queue[start:]
	if len(pending) == 0 {
		return nil
	}
	r := reporter{ti}
	for {
		versionAtStart := ti.arena.Version()
		remaining := 0
		for _, inst := range pending {
			if inst.done {
				continue
			}
			if inst.evaluated && ti.arena.Stamp(inst.args...) <= inst.stamp {
				remaining++
				continue
			}
			verdict, err := inst.fn(r, inst.args)
			inst.evaluated, inst.stamp = true, ti.arena.Stamp(inst.args...)
			if err != nil {
				if terr, ok := err.(*Error); ok {
					if terr.Expr == nil {
						terr.Expr = inst.origin
					}
					if terr.Relation == "" {
						terr.Relation = inst.name
					}
					return terr
				}
				terr := errf(RelationViolation, "Type relation %s failed: %s", inst.name, err.Error())
				terr.Expr, terr.Relation, terr.Types = inst.origin, inst.name, ti.resolveArgs(inst.args)
				return terr
			}
			switch verdict {
			case relations.Holds:
				inst.done = true
			case relations.Fails:
				terr := errf(RelationViolation, "Type relation %s does not hold for %s", inst.name, ti.argsString(inst.args))
				terr.Expr, terr.Relation, terr.Types = inst.origin, inst.name, ti.resolveArgs(inst.args)
				return terr
			default:
				remaining++
			}
		}
		if remaining == 0 {
			return nil
		}
		if ti.arena.Version() == versionAtStart {
			return nil
		}
	}
}

// pendingIn returns the queued instances at or after start that are neither
// proven nor failed.
func (ti *InferenceContext) pendingIn(start int) []*relInstance {
	var pend []*relInstance
	for _, inst := range ti.queue[start:] {
		if !inst.done {
			pend = append(pend, inst)
		}
	}
	return pend
}

func (ti *InferenceContext) resolveArgs(args []types.Type) []types.Type {
	out := make([]types.Type, len(args))
	for i, arg := range args {
		out[i] = ti.arena.Resolve(arg)
	}
	return out
}

func (ti *InferenceContext) argsString(args []types.Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ti.ts(arg))
	}
	sb.WriteByte(')')
	return sb.String()
}
