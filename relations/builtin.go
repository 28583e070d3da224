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

package relations

import (
	"github.com/Mauvesr/tensile/types"
)

// Broadcast relates two input tensors to their broadcasted result:
// broadcast(lhs, rhs, out).
//
// Shapes are aligned on their trailing dimensions. Paired dimensions must be
// equal, or one of them must be 1, in which case the other is taken. The
// shorter shape is padded with leading 1s. The element data-types of both
// inputs are unified as soon as both tensors are known, even while their
// shapes are still incomplete.
func Broadcast(r types.Reporter, args []types.Type) (Verdict, error) {
	lhs, ok, verdict := tensorArg(r, args[0])
	if !ok {
		return verdict, nil
	}
	rhs, ok, verdict := tensorArg(r, args[1])
	if !ok {
		return verdict, nil
	}
	if err := r.Unify(lhs.DType, rhs.DType); err != nil {
		return Indeterminate, err
	}
	ldims, ok := concreteDims(r, lhs.Shape)
	if !ok {
		return Indeterminate, nil
	}
	rdims, ok := concreteDims(r, rhs.Shape)
	if !ok {
		return Indeterminate, nil
	}

	rank := len(ldims)
	if len(rdims) > rank {
		rank = len(rdims)
	}
	shape := make([]types.Type, rank)
	for i := 1; i <= rank; i++ {
		dl, dr := int64(1), int64(1)
		if i <= len(ldims) {
			dl = ldims[len(ldims)-i]
		}
		if i <= len(rdims) {
			dr = rdims[len(rdims)-i]
		}
		var d int64
		switch {
		case dl == dr:
			d = dl
		case dl == 1:
			d = dr
		case dr == 1:
			d = dl
		default:
			return Fails, nil
		}
		shape[rank-i] = &types.Size{N: d}
	}
	out := &types.Tensor{DType: r.Resolve(lhs.DType), Shape: shape}
	if err := r.Unify(args[2], out); err != nil {
		return Indeterminate, err
	}
	return Holds, nil
}

// Identity relates two slots which must be the same type: identity(a, b).
// Slots are unified immediately; the bindings this creates are what enforce
// the relation, so it holds as soon as unification succeeds.
func Identity(r types.Reporter, args []types.Type) (Verdict, error) {
	if err := r.Unify(args[0], args[1]); err != nil {
		return Indeterminate, err
	}
	return Holds, nil
}

// tensorArg resolves a slot down to a tensor. The second result reports
// whether a tensor was obtained; when it was not, the third carries the
// verdict: Indeterminate for a still-incomplete slot, Fails for a type no
// resolution can turn into a tensor.
func tensorArg(r types.Reporter, t types.Type) (*types.Tensor, bool, Verdict) {
	switch t := r.Resolve(t).(type) {
	case *types.Tensor:
		return t, true, Holds
	case *types.Incomplete, *types.TypeParam:
		return nil, false, Indeterminate
	default:
		return nil, false, Fails
	}
}

// concreteDims extracts the dimensions of a shape when every one of them has
// resolved to a concrete size.
func concreteDims(r types.Reporter, shape []types.Type) ([]int64, bool) {
	dims := make([]int64, len(shape))
	for i, d := range shape {
		size, ok := r.Resolve(d).(*types.Size)
		if !ok {
			return nil, false
		}
		dims[i] = size.N
	}
	return dims, true
}
