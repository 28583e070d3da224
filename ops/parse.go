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

package ops

import (
	"fmt"
	"strconv"

	"github.com/Mauvesr/tensile/types"
)

// parseType parses a type expression against a set of declared params:
//
//	expr   := tensor | tuple | name
//	tensor := "Tensor" "[" "(" dims ")" "," expr "]"
//	dims   := (dim ("," dim)* ","?)?
//	dim    := INT | name
//	tuple  := "(" expr ("," expr)* ","? ")"
//
// A name resolves to a declared param first, then to an element data-type
// (which denotes the bare element type; a scalar tensor is written
// Tensor[(), float32]). A parenthesized single expression without a trailing
// comma is grouping, not a 1-tuple.
func parseType(src string, params map[string]*types.TypeParam) (types.Type, error) {
	p := &typeParser{src: src, params: params}
	t, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.space()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("trailing input at %d in %q", p.pos, src)
	}
	return t, nil
}

type typeParser struct {
	src    string
	pos    int
	params map[string]*types.TypeParam
}

func (p *typeParser) space() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.space()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(ch byte) error {
	if p.peek() != ch {
		return fmt.Errorf("expected %q at %d in %q", string(ch), p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *typeParser) ident() string {
	p.space()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expr() (types.Type, error) {
	if p.peek() == '(' {
		return p.tuple()
	}
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected a type at %d in %q", p.pos, p.src)
	}
	if name == "Tensor" && p.peek() == '[' {
		return p.tensor()
	}
	return p.name(name)
}

func (p *typeParser) name(name string) (types.Type, error) {
	if tp, ok := p.params[name]; ok {
		return tp, nil
	}
	if dtype, ok := types.DTypeFromString(name); ok {
		return &types.Prim{DType: dtype}, nil
	}
	return nil, fmt.Errorf("unknown name %s in %q", name, p.src)
}

func (p *typeParser) tensor() (types.Type, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var shape []types.Type
	for p.peek() != ')' {
		dim, err := p.dim()
		if err != nil {
			return nil, err
		}
		shape = append(shape, dim)
		if p.peek() != ',' {
			break
		}
		p.pos++
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	elem, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return &types.Tensor{DType: elem, Shape: shape}, nil
}

func (p *typeParser) dim() (types.Type, error) {
	if c := p.peek(); c >= '0' && c <= '9' {
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad dimension at %d in %q", start, p.src)
		}
		return &types.Size{N: n}, nil
	}
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected a dimension at %d in %q", p.pos, p.src)
	}
	tp, ok := p.params[name]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %s in %q", name, p.src)
	}
	if tp.Kind() != types.KindShapeVar {
		return nil, fmt.Errorf("param %s is a %s, not a dimension, in %q", name, tp.Kind(), p.src)
	}
	return tp, nil
}

func (p *typeParser) tuple() (types.Type, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var elems []types.Type
	trailing := false
	for p.peek() != ')' {
		elem, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		trailing = false
		if p.peek() != ',' {
			break
		}
		p.pos++
		trailing = true
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	if len(elems) == 1 && !trailing {
		return elems[0], nil
	}
	return &types.Tuple{Elems: elems}, nil
}
