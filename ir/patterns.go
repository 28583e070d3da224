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
	"github.com/Mauvesr/tensile/types"
)

// Pattern is the base for all match patterns.
type Pattern interface {
	// Name of the syntax-type of the pattern.
	PatternName() string
}

var (
	_ Pattern = (*PatternWildcard)(nil)
	_ Pattern = (*PatternVar)(nil)
	_ Pattern = (*PatternCtor)(nil)
)

// Wildcard pattern, matching anything without binding: `_`
type PatternWildcard struct{}

// "PatternWildcard"
func (p *PatternWildcard) PatternName() string { return "PatternWildcard" }

// Variable pattern, binding the matched value: `%x`
type PatternVar struct {
	Var *Var
}

// "PatternVar"
func (p *PatternVar) PatternName() string { return "PatternVar" }

// Constructor pattern, matching one constructor of a data type and
// destructuring its fields: `Cons(%h, %t)`
type PatternCtor struct {
	Ctor     *types.Ctor
	Patterns []Pattern
}

// "PatternCtor"
func (p *PatternCtor) PatternName() string { return "PatternCtor" }
