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
	"fmt"

	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

// ErrorKind classifies every error inference can produce.
type ErrorKind uint8

const (
	// KindMismatch: two types of structurally different kinds were unified,
	// such as a tensor against a tuple, or a call of a non-function.
	KindMismatch ErrorKind = iota
	// ShapeMismatch: tensor ranks or concrete dimensions disagree.
	ShapeMismatch
	// DTypeMismatch: element data-types disagree.
	DTypeMismatch
	// ArityMismatch: argument, tuple, pattern or relation-slot counts
	// disagree.
	ArityMismatch
	// OccursCheckFailure: a binding would make an incomplete type a
	// subterm of itself.
	OccursCheckFailure
	// TypeArgumentArityError: the number of type arguments does not match
	// the number of declared type parameters.
	TypeArgumentArityError
	// IndexOutOfRange: a tuple projection index is outside the tuple.
	IndexOutOfRange
	// AdtMismatch: a constructor or applied data type belongs to a
	// different declaration than required.
	AdtMismatch
	// RelationViolation: a type relation can never hold for its slots.
	RelationViolation
	// AmbiguousType: inference reached a fixpoint with incomplete types or
	// undischarged relations remaining.
	AmbiguousType
	// UnboundVar: a variable, global, operator or constructor is not in
	// scope.
	UnboundVar
	// UnknownRelation: a function type names a relation missing from the
	// registry in scope.
	UnknownRelation
)

var errorKindNames = [...]string{
	KindMismatch:           "KindMismatch",
	ShapeMismatch:          "ShapeMismatch",
	DTypeMismatch:          "DTypeMismatch",
	ArityMismatch:          "ArityMismatch",
	OccursCheckFailure:     "OccursCheckFailure",
	TypeArgumentArityError: "TypeArgumentArityError",
	IndexOutOfRange:        "IndexOutOfRange",
	AdtMismatch:            "AdtMismatch",
	RelationViolation:      "RelationViolation",
	AmbiguousType:          "AmbiguousType",
	UnboundVar:             "UnboundVar",
	UnknownRelation:        "UnknownRelation",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "ErrorKind(?)"
}

// Error is the error type produced by inference. Every failure carries one of
// the closed set of kinds; the remaining fields add context where available.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Expr is the expression at which the error was detected, when known.
	Expr ir.Expr
	// Types holds snapshots of the types involved, resolved at the time
	// the error was constructed. Later binds do not alter them.
	Types []types.Type
	// Relation names the relation involved, for RelationViolation and
	// UnknownRelation errors.
	Relation string
}

func (e *Error) Error() string { return e.Msg }

func errf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
