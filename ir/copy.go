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

package ir

// CopyExpr returns a deep copy of e. Variables bound within e are re-minted
// with fresh identities and every reference below their binding is remapped;
// variables free in e are shared with the original.
func CopyExpr(e Expr) Expr {
	return copyExpr(make(map[VarID]*Var), e)
}

func copyVar(remap map[VarID]*Var, v *Var) *Var {
	next := NewVar(v.name)
	next.Ann = v.Ann
	next.inferred = v.inferred
	remap[v.id] = next
	return next
}

func copyExpr(remap map[VarID]*Var, e Expr) Expr {
	switch e := e.(type) {
	case *Var:
		if next, ok := remap[e.id]; ok {
			return next
		}
		return e

	case *GlobalVar:
		// Handles are owned by their module and never annotated in place.
		return e

	case *Op:
		return &Op{e.Name, e.inferred}

	case *Constant:
		return &Constant{e.DType, e.Shape, e.Data, e.inferred}

	case *Call:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = copyExpr(remap, arg)
		}
		return &Call{copyExpr(remap, e.Fn), args, e.TypeArgs, e.inferred, e.inferredFunc, e.typeArgs}

	case *Func:
		params := make([]*Var, len(e.Params))
		for i, p := range e.Params {
			params[i] = copyVar(remap, p)
		}
		return &Func{params, copyExpr(remap, e.Body), e.Ret, e.TypeParams, e.Relations, e.inferred}

	case *Let:
		v := copyVar(remap, e.Var)
		return &Let{v, copyExpr(remap, e.Value), copyExpr(remap, e.Body)}

	case *Tuple:
		elems := make([]Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = copyExpr(remap, el)
		}
		return &Tuple{elems, e.inferred}

	case *TupleGet:
		return &TupleGet{copyExpr(remap, e.Tuple), e.Index, e.inferred}

	case *If:
		return &If{copyExpr(remap, e.Cond), copyExpr(remap, e.Then), copyExpr(remap, e.Else), e.inferred}

	case *Match:
		clauses := make([]Clause, len(e.Clauses))
		for i, c := range e.Clauses {
			pat := copyPattern(remap, c.Pattern)
			clauses[i] = Clause{pat, copyExpr(remap, c.Body)}
		}
		return &Match{copyExpr(remap, e.Value), clauses, e.inferred}

	case *Construct:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = copyExpr(remap, arg)
		}
		return &Construct{e.Ctor, args, e.inferred}
	}
	panic("unknown expression type: " + e.ExprName())
}

func copyPattern(remap map[VarID]*Var, p Pattern) Pattern {
	switch p := p.(type) {
	case *PatternWildcard:
		return p

	case *PatternVar:
		return &PatternVar{copyVar(remap, p.Var)}

	case *PatternCtor:
		subs := make([]Pattern, len(p.Patterns))
		for i, sub := range p.Patterns {
			subs[i] = copyPattern(remap, sub)
		}
		return &PatternCtor{p.Ctor, subs}
	}
	panic("unknown pattern type: " + p.PatternName())
}
