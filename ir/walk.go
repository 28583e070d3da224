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

// WalkExpr visits e and every expression below it in pre-order. Binding
// occurrences of variables (function parameters, let and pattern bindings)
// are visited like any other expression.
func WalkExpr(e Expr, f func(Expr)) {
	switch e := e.(type) {
	case *Var, *GlobalVar, *Op, *Constant:
		f(e)

	case *Call:
		f(e)
		WalkExpr(e.Fn, f)
		for _, arg := range e.Args {
			WalkExpr(arg, f)
		}

	case *Func:
		f(e)
		for _, p := range e.Params {
			f(p)
		}
		WalkExpr(e.Body, f)

	case *Let:
		f(e)
		f(e.Var)
		WalkExpr(e.Value, f)
		WalkExpr(e.Body, f)

	case *Tuple:
		f(e)
		for _, el := range e.Elems {
			WalkExpr(el, f)
		}

	case *TupleGet:
		f(e)
		WalkExpr(e.Tuple, f)

	case *If:
		f(e)
		WalkExpr(e.Cond, f)
		WalkExpr(e.Then, f)
		WalkExpr(e.Else, f)

	case *Match:
		f(e)
		WalkExpr(e.Value, f)
		for _, c := range e.Clauses {
			walkPattern(c.Pattern, f)
			WalkExpr(c.Body, f)
		}

	case *Construct:
		f(e)
		for _, arg := range e.Args {
			WalkExpr(arg, f)
		}

	case nil:

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}

func walkPattern(p Pattern, f func(Expr)) {
	switch p := p.(type) {
	case *PatternWildcard:

	case *PatternVar:
		f(p.Var)

	case *PatternCtor:
		for _, sub := range p.Patterns {
			walkPattern(sub, f)
		}

	case nil:

	default:
		panic("unknown pattern type: " + p.PatternName())
	}
}
