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

import (
	"strconv"
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} {
		return &typePrinter{
			holeNames:  make(map[Ref]string, 16),
			paramNames: make(map[uint32]string, 16),
		}
	},
}

func newTypePrinter() *typePrinter { return printerPool.Get().(*typePrinter) }

func (p *typePrinter) Release() {
	for k := range p.holeNames {
		delete(p.holeNames, k)
	}
	for k := range p.paramNames {
		delete(p.paramNames, k)
	}
	p.sb.Reset()
	printerPool.Put(p)
}

type typePrinter struct {
	holeNames  map[Ref]string
	paramNames map[uint32]string
	sb         strings.Builder
}

// TypeString returns a string representation of a Type.
//
// Incomplete types print as ?0, ?1, ... numbered by first occurrence within
// one call, so the output is stable regardless of arena cell indexes. Types
// containing live incomplete references should be resolved against their
// arena before printing, otherwise stale bindings are not followed.
//
// Function types carrying relations print them as qualifiers:
//
//	broadcast(lhs, rhs, out) => fn <lhs, rhs, out>(lhs, rhs) -> out
func TypeString(t Type) string {
	p := newTypePrinter()
	typeString(p, false, t)
	s := p.sb.String()
	p.Release()
	return s
}

func (p *typePrinter) holeName(ref Ref) string {
	if name, ok := p.holeNames[ref]; ok {
		return name
	}
	name := "?" + strconv.Itoa(len(p.holeNames))
	p.holeNames[ref] = name
	return name
}

func (p *typePrinter) paramName(tp *TypeParam) string {
	if tp.Name() != "" {
		return tp.Name()
	}
	if name, ok := p.paramNames[tp.Id()]; ok {
		return name
	}
	i := len(p.paramNames)
	name := "'" + string(rune('a'+i%26))
	if i >= 26 {
		name += strconv.Itoa(i / 26)
	}
	p.paramNames[tp.Id()] = name
	return name
}

func typeString(p *typePrinter, simple bool, t Type) {
	switch t := t.(type) {
	case *Prim:
		p.sb.WriteString(t.DType.String())

	case *Size:
		p.sb.WriteString(strconv.FormatInt(t.N, 10))

	case *TypeParam:
		p.sb.WriteString(p.paramName(t))

	case *Incomplete:
		p.sb.WriteString(p.holeName(t.Ref))

	case *Tensor:
		// Scalars print as their data-type alone.
		if len(t.Shape) == 0 {
			typeString(p, simple, t.DType)
			return
		}
		p.sb.WriteString("Tensor[(")
		for i, d := range t.Shape {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, d)
		}
		p.sb.WriteString("), ")
		typeString(p, false, t.DType)
		p.sb.WriteByte(']')

	case *Tuple:
		p.sb.WriteByte('(')
		for i, el := range t.Elems {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, el)
		}
		if len(t.Elems) == 1 {
			p.sb.WriteByte(',')
		}
		p.sb.WriteByte(')')

	case *Func:
		if simple {
			p.sb.WriteByte('(')
		}
		for i, rel := range t.Relations {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(rel.Name)
			p.sb.WriteByte('(')
			for j, arg := range rel.Args {
				if j > 0 {
					p.sb.WriteString(", ")
				}
				typeString(p, false, arg)
			}
			p.sb.WriteByte(')')
		}
		if len(t.Relations) > 0 {
			p.sb.WriteString(" => ")
		}
		p.sb.WriteString("fn ")
		if len(t.TypeParams) > 0 {
			p.sb.WriteByte('<')
			for i, tp := range t.TypeParams {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				p.sb.WriteString(p.paramName(tp))
			}
			p.sb.WriteByte('>')
		}
		p.sb.WriteByte('(')
		for i, arg := range t.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, arg)
		}
		p.sb.WriteString(") -> ")
		typeString(p, false, t.Return)
		if simple {
			p.sb.WriteByte(')')
		}

	case *Adt:
		p.sb.WriteString(t.Name())

	case *App:
		p.sb.WriteString(t.Adt.Name())
		if len(t.Args) == 0 {
			return
		}
		p.sb.WriteByte('[')
		for i, arg := range t.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, arg)
		}
		p.sb.WriteByte(']')

	case nil:
		p.sb.WriteString("<nil>")
	}
}
