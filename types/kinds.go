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

// Kind classifies the positions a type parameter or an incomplete type may
// occupy within a type. Unification never crosses kinds: a dimension hole may
// only ever resolve to a dimension, and a data-type hole to a data-type.
type Kind uint8

const (
	// KindType marks ordinary types: tensors, tuples, functions and
	// applied data types.
	KindType Kind = iota
	// KindBaseType marks element data-types, usable in the data-type slot
	// of a tensor.
	KindBaseType
	// KindShape marks whole shapes. No structural type currently inhabits
	// this kind; parameters of this kind remain abstract until bound
	// against each other.
	KindShape
	// KindShapeVar marks single dimensions within a shape.
	KindShapeVar
)

var kindNames = [...]string{
	KindType:     "Type",
	KindBaseType: "BaseType",
	KindShape:    "Shape",
	KindShapeVar: "ShapeVar",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// KindFromString maps a kind name (as written in operator declaration files)
// back to its Kind. Matching is on the lower-cased spelling.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "type":
		return KindType, true
	case "basetype":
		return KindBaseType, true
	case "shape":
		return KindShape, true
	case "shapevar":
		return KindShapeVar, true
	}
	return 0, false
}
