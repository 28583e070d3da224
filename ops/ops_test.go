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
	"reflect"
	"strings"
	"testing"

	"github.com/Mauvesr/tensile/relations"
	"github.com/Mauvesr/tensile/types"
)

const declSrc = `
ops:
  - name: add
    params:
      - {name: lhs, kind: type}
      - {name: rhs, kind: type}
      - {name: out, kind: type}
    args: [lhs, rhs]
    ret: out
    relations:
      - {name: broadcast, args: [lhs, rhs, out]}
  - name: matmul
    params:
      - {name: d, kind: basetype}
      - {name: n, kind: shapevar}
      - {name: k, kind: shapevar}
      - {name: m, kind: shapevar}
    args: ["Tensor[(n, k), d]", "Tensor[(k, m), d]"]
    ret: "Tensor[(n, m), d]"
`

func lookupString(t *testing.T, table *Table, name string) string {
	t.Helper()
	ft, ok := table.Lookup(name)
	if !ok {
		t.Fatalf("operator %s is not registered", name)
	}
	return types.TypeString(ft)
}

func TestParse(t *testing.T) {
	table := NewTable(relations.Builtin())
	if err := table.Parse([]byte(declSrc)); err != nil {
		t.Fatal(err)
	}

	if typeString := lookupString(t, table, "add"); typeString != "broadcast(lhs, rhs, out) => fn <lhs, rhs, out>(lhs, rhs) -> out" {
		t.Fatalf("type of add: %s", typeString)
	}
	if typeString := lookupString(t, table, "matmul"); typeString != "fn <d, n, k, m>(Tensor[(n, k), d], Tensor[(k, m), d]) -> Tensor[(n, m), d]" {
		t.Fatalf("type of matmul: %s", typeString)
	}

	if table.Len() != 2 {
		t.Fatalf("len: %d", table.Len())
	}
	if names := table.Names(); !reflect.DeepEqual(names, []string{"add", "matmul"}) {
		t.Fatalf("names: %v", names)
	}
	if _, ok := table.Lookup("missing"); ok {
		t.Fatalf("expected lookup of an unregistered operator to fail")
	}
}

func TestLoadFile(t *testing.T) {
	table := NewTable(relations.Builtin())
	if err := table.LoadFile("testdata/basic.yaml"); err != nil {
		t.Fatal(err)
	}

	if names := table.Names(); !reflect.DeepEqual(names, []string{"add", "matmul", "minmax", "relu"}) {
		t.Fatalf("names: %v", names)
	}
	if typeString := lookupString(t, table, "relu"); typeString != "fn <t>(t) -> t" {
		t.Fatalf("type of relu: %s", typeString)
	}

	// Rank-0 tensor types print as their bare element type:

	if typeString := lookupString(t, table, "minmax"); typeString != "fn <d, n>(Tensor[(n), d]) -> (d, d)" {
		t.Fatalf("type of minmax: %s", typeString)
	}
	if typeString := lookupString(t, table, "add"); typeString != "broadcast(lhs, rhs, out) => fn <lhs, rhs, out>(lhs, rhs) -> out" {
		t.Fatalf("type of add: %s", typeString)
	}

	err := table.LoadFile("testdata/missing.yaml")
	if err == nil {
		t.Fatalf("expected a read error")
	}
	if !strings.HasPrefix(err.Error(), "ops: reading testdata/missing.yaml:") {
		t.Fatalf("error: %v", err)
	}
	t.Logf("Passed check for a missing file: %v", err)
}

func TestLoad(t *testing.T) {
	table, err := Load("testdata/basic.yaml", relations.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 4 {
		t.Fatalf("len: %d", table.Len())
	}
}

func TestRegister(t *testing.T) {
	table := NewTable(relations.Builtin())

	tp := types.NewTypeParam("t", types.KindType)
	relu := &types.Func{TypeParams: []*types.TypeParam{tp}, Args: []types.Type{tp}, Return: tp}
	if err := table.Register("relu", relu); err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		name string
		ft   *types.Func
		want string
	}{
		{"", relu, "ops: operator name must not be empty"},
		{"sigmoid", nil, "ops: operator sigmoid has no type"},
		{"relu", relu, "ops: operator relu is already registered"},
		{"bad", &types.Func{
			TypeParams: []*types.TypeParam{tp},
			Args:       []types.Type{tp},
			Return:     tp,
			Relations:  []types.Relation{{Name: "nope", Args: []types.Type{tp}}},
		}, "ops: operator bad names unknown relation nope"},
		{"bad", &types.Func{
			TypeParams: []*types.TypeParam{tp},
			Args:       []types.Type{tp},
			Return:     tp,
			Relations:  []types.Relation{{Name: "broadcast", Args: []types.Type{tp, tp}}},
		}, "ops: operator bad applies relation broadcast to 2 slots, want 3"},
	}
	for _, c := range checks {
		err := table.Register(c.name, c.ft)
		if err == nil {
			t.Fatalf("expected registering %q to fail", c.name)
		}
		if err.Error() != c.want {
			t.Fatalf("error: %v", err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	checks := []struct {
		src  string
		want string
	}{
		{"ops: []", "no ops declared"},
		{`
ops:
  - args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
`, "ops[0]: name is required"},
		{`
ops:
  - name: bad
    ret: "Tensor[(2), float32]"
`, "ops[0] (bad): args are required"},
		{`
ops:
  - name: bad
    args: ["Tensor[(2), float32]"]
`, "ops[0] (bad): ret is required"},
		{`
ops:
  - name: bad
    params:
      - {kind: type}
    args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
`, "ops[0] (bad): params[0]: name is required"},
		{`
ops:
  - name: bad
    params:
      - {name: q, kind: tensor}
    args: [q]
    ret: q
`, `ops[0] (bad): params[0] (q): unknown kind "tensor"`},
		{`
ops:
  - name: bad
    params:
      - {name: q, kind: type}
      - {name: q, kind: type}
    args: [q]
    ret: q
`, "ops[0] (bad): params[1]: duplicate param q"},
		{`
ops:
  - name: bad
    args: ["foo"]
    ret: "Tensor[(2), float32]"
`, `ops[0] (bad): args[0]: unknown name foo in "foo"`},
		{`
ops:
  - name: bad
    args: ["Tensor[(z), float32]"]
    ret: "Tensor[(2), float32]"
`, `ops[0] (bad): args[0]: unknown dimension z in "Tensor[(z), float32]"`},
		{`
ops:
  - name: bad
    params:
      - {name: q, kind: type}
    args: ["Tensor[(q), float32]"]
    ret: "Tensor[(q), float32]"
`, `ops[0] (bad): args[0]: param q is a Type, not a dimension, in "Tensor[(q), float32]"`},
		{`
ops:
  - name: bad
    params:
      - {name: n, kind: shapevar}
    args: [n]
    ret: "Tensor[(n), float32]"
`, "ops[0] (bad): args[0]: n is a ShapeVar, not a value type"},
		{`
ops:
  - name: bad
    params:
      - {name: n, kind: shapevar}
    args: ["Tensor[(n), float32]"]
    ret: n
`, "ops[0] (bad): ret: n is a ShapeVar, not a value type"},
		{`
ops:
  - name: bad
    args: ["float32 x"]
    ret: "Tensor[(2), float32]"
`, `ops[0] (bad): args[0]: trailing input at 8 in "float32 x"`},
		{`
ops:
  - name: bad
    args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
    relations:
      - {args: ["Tensor[(2), float32]"]}
`, "ops[0] (bad): relations[0]: name is required"},
		{`
ops:
  - name: bad
    args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
    relations:
      - {name: nope, args: ["Tensor[(2), float32]"]}
`, "ops: operator bad names unknown relation nope"},
		{`
ops:
  - name: bad
    args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
    relations:
      - {name: broadcast, args: ["Tensor[(2), float32]", "Tensor[(2), float32]"]}
`, "ops: operator bad applies relation broadcast to 2 slots, want 3"},
		{`
ops:
  - name: dup
    args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
  - name: dup
    args: ["Tensor[(2), float32]"]
    ret: "Tensor[(2), float32]"
`, "ops: operator dup is already registered"},
	}
	for _, c := range checks {
		table := NewTable(relations.Builtin())
		err := table.Parse([]byte(c.src))
		if err == nil {
			t.Fatalf("expected parsing to fail:\n%s", c.src)
		}
		if err.Error() != c.want {
			t.Fatalf("error: %v", err)
		}
		t.Logf("Passed check: %v", err)
	}
}

func TestParseTypeGrammar(t *testing.T) {
	table := NewTable(relations.Builtin())

	// A parenthesized single expression is grouping; a trailing comma makes
	// it a 1-tuple. Dimension lists also permit a trailing comma.

	src := `
ops:
  - name: split
    args: ["(Tensor[(2,), float32])"]
    ret: "(Tensor[(2), float32],)"
`
	if err := table.Parse([]byte(src)); err != nil {
		t.Fatal(err)
	}
	if typeString := lookupString(t, table, "split"); typeString != "fn (Tensor[(2), float32]) -> (Tensor[(2), float32],)" {
		t.Fatalf("type of split: %s", typeString)
	}

	// Whitespace is insignificant inside type expressions:

	src = `
ops:
  - name: spaced
    args: ["Tensor[ ( 2 , 3 ) , float32 ]"]
    ret: "( Tensor[(2, 3), float32] , Tensor[(), bool] )"
`
	if err := table.Parse([]byte(src)); err != nil {
		t.Fatal(err)
	}
	if typeString := lookupString(t, table, "spaced"); typeString != "fn (Tensor[(2, 3), float32]) -> (Tensor[(2, 3), float32], bool)" {
		t.Fatalf("type of spaced: %s", typeString)
	}
}
