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

import (
	"strconv"
	"strings"

	"github.com/Mauvesr/tensile/types"
)

// ExprString returns a string representation of an Expr.
func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

// PatternString returns a string representation of a Pattern.
func PatternString(p Pattern) string {
	var sb strings.Builder
	patternString(&sb, p)
	return sb.String()
}

func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch e := e.(type) {
	case *Var:
		sb.WriteByte('%')
		sb.WriteString(e.Name())

	case *GlobalVar:
		sb.WriteByte('@')
		sb.WriteString(e.Name())

	case *Op:
		sb.WriteString(e.Name)

	case *Constant:
		sb.WriteString("const(")
		sb.WriteString(e.DType.String())
		if len(e.Shape) > 0 {
			sb.WriteByte('[')
			for i, d := range e.Shape {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(strconv.FormatInt(d, 10))
			}
			sb.WriteByte(']')
		}
		sb.WriteByte(')')

	case *Call:
		exprString(sb, true, e.Fn)
		if len(e.TypeArgs) > 0 {
			sb.WriteByte('<')
			for i, targ := range e.TypeArgs {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(types.TypeString(targ))
			}
			sb.WriteByte('>')
		}
		sb.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, arg)
		}
		sb.WriteByte(')')

	case *Func:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("fn ")
		if len(e.TypeParams) > 0 {
			sb.WriteByte('<')
			for i, tp := range e.TypeParams {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(types.TypeString(tp))
			}
			sb.WriteByte('>')
		}
		sb.WriteByte('(')
		for i, p := range e.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('%')
			sb.WriteString(p.Name())
			if p.Ann != nil {
				sb.WriteString(": ")
				sb.WriteString(types.TypeString(p.Ann))
			}
		}
		sb.WriteString(") -> ")
		exprString(sb, false, e.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *Let:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("let %")
		sb.WriteString(e.Var.Name())
		if e.Var.Ann != nil {
			sb.WriteString(": ")
			sb.WriteString(types.TypeString(e.Var.Ann))
		}
		sb.WriteString(" = ")
		exprString(sb, false, e.Value)
		sb.WriteString(" in ")
		exprString(sb, false, e.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *Tuple:
		sb.WriteByte('(')
		for i, el := range e.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, el)
		}
		if len(e.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')

	case *TupleGet:
		exprString(sb, true, e.Tuple)
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(e.Index))

	case *If:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("if ")
		exprString(sb, false, e.Cond)
		sb.WriteString(" then ")
		exprString(sb, false, e.Then)
		sb.WriteString(" else ")
		exprString(sb, false, e.Else)
		if simple {
			sb.WriteByte(')')
		}

	case *Match:
		sb.WriteString("match ")
		exprString(sb, false, e.Value)
		sb.WriteString(" {")
		for i, c := range e.Clauses {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteByte(' ')
			patternString(sb, c.Pattern)
			sb.WriteString(" -> ")
			exprString(sb, false, c.Body)
		}
		sb.WriteString(" }")

	case *Construct:
		sb.WriteString(e.Ctor.Name)
		if len(e.Args) == 0 {
			return
		}
		sb.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, arg)
		}
		sb.WriteByte(')')
	}
}

func patternString(sb *strings.Builder, p Pattern) {
	switch p := p.(type) {
	case *PatternWildcard:
		sb.WriteByte('_')

	case *PatternVar:
		sb.WriteByte('%')
		sb.WriteString(p.Var.Name())

	case *PatternCtor:
		sb.WriteString(p.Ctor.Name)
		if len(p.Patterns) == 0 {
			return
		}
		sb.WriteByte('(')
		for i, sub := range p.Patterns {
			if i > 0 {
				sb.WriteString(", ")
			}
			patternString(sb, sub)
		}
		sb.WriteByte(')')
	}
}
