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

package tensile_test

import (
	"testing"

	. "github.com/Mauvesr/tensile"
	. "github.com/Mauvesr/tensile/construct"
	"github.com/Mauvesr/tensile/ir"
	"github.com/Mauvesr/tensile/types"
)

// declareList declares `List[t] = Nil | Cons(t, List[t])`.
func declareList(m *Module) (*types.Adt, *types.Ctor, *types.Ctor) {
	list := m.NewAdt("List")
	t := TParam("t", types.KindType)
	nilCtor := &types.Ctor{Name: "Nil"}
	consCtor := &types.Ctor{Name: "Cons", Args: []types.Type{t, TApp(list, t)}}
	m.DefineAdt(list, []*types.TypeParam{t}, []*types.Ctor{nilCtor, consCtor})
	return list, nilCtor, consCtor
}

// declareOption declares `Option[t] = None | Some(t)`.
func declareOption(m *Module) (*types.Adt, *types.Ctor, *types.Ctor) {
	option := m.NewAdt("Option")
	t := TParam("t", types.KindType)
	noneCtor := &types.Ctor{Name: "None"}
	someCtor := &types.Ctor{Name: "Some", Args: []types.Type{t}}
	m.DefineAdt(option, []*types.TypeParam{t}, []*types.Ctor{noneCtor, someCtor})
	return option, noneCtor, someCtor
}

func TestConstructList(t *testing.T) {
	m := NewModule()
	env := NewEnv(m)
	ctx := NewContext()
	_, nilCtor, consCtor := declareList(m)

	expr := Ctor(consCtor, Const(types.Float32, 2), Ctor(nilCtor))

	exprString := ir.ExprString(expr)
	if exprString != "Cons(const(float32[2]), Nil)" {
		t.Fatalf("expr: %s", exprString)
	}

	// Infer twice to ensure state is properly reset between calls:

	ty, err := ctx.Infer(expr, env)
	if err != nil {
		t.Fatal(err)
	}
	ty, err = ctx.Infer(expr, env)
	if err != nil {
		t.Fatal(err)
	}
	typeString := types.TypeString(ty)
	if typeString != "List[Tensor[(2), float32]]" {
		t.Fatalf("type: %s", typeString)
	}

	// Constructor applications are arity-checked against the declaration:

	if _, err = ctx.Infer(Ctor(consCtor, Const(types.Float32, 2)), env); err == nil {
		t.Fatalf("expected a constructor arity error")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != ArityMismatch {
		t.Fatalf("expected an ArityMismatch error, got %v", err)
	} else if terr.Msg != "Constructor Cons expects 2 argument(s), found 1" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for constructor arity: %v", err)

	// Element types must agree along the spine:

	mixed := Ctor(consCtor, Const(types.Float32, 2),
		Ctor(consCtor, ConstScalar(types.Bool), Ctor(nilCtor)))
	if _, err = ctx.Infer(mixed, env); err == nil {
		t.Fatalf("expected an element type error")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != DTypeMismatch {
		t.Fatalf("expected a DTypeMismatch error, got %v", err)
	} else if terr.Msg != "Cannot unify element type float32 with bool" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for mixed element types: %v", err)
}

func TestMatchClauses(t *testing.T) {
	m := NewModule()
	env := NewEnv(m)
	ctx := NewContext()
	_, nilCtor, consCtor := declareList(m)

	h, tl := Var("h"), Var("tl")
	expr := Match(Ctor(consCtor, Const(types.Float32, 2), Ctor(nilCtor)),
		Clause(PCtor(consCtor, PVar(h), PVar(tl)), h),
		Clause(PWild(), Const(types.Float32, 2)),
	)

	exprString := ir.ExprString(expr)
	if exprString != "match Cons(const(float32[2]), Nil) { Cons(%h, %tl) -> %h | _ -> const(float32[2]) }" {
		t.Fatalf("expr: %s", exprString)
	}

	ty, err := ctx.Infer(expr, env)
	if err != nil {
		t.Fatal(err)
	}
	typeString := types.TypeString(ty)
	if typeString != "Tensor[(2), float32]" {
		t.Fatalf("type: %s", typeString)
	}

	// Pattern-bound variables pick up the constructor's field types:

	if tlType := types.TypeString(tl.Type()); tlType != "List[Tensor[(2), float32]]" {
		t.Fatalf("tail type: %s", tlType)
	}

	// A wildcard ahead of a constructor clause does not stop the later
	// clause from being checked:

	h2, tl2 := Var("h"), Var("tl")
	expr = Match(Ctor(consCtor, Const(types.Float32, 2), Ctor(nilCtor)),
		Clause(PWild(), Const(types.Float32, 2)),
		Clause(PCtor(consCtor, PVar(h2), PVar(tl2)), h2),
	)
	ty, err = ctx.Infer(expr, env)
	if err != nil {
		t.Fatal(err)
	}
	if typeString = types.TypeString(ty); typeString != "Tensor[(2), float32]" {
		t.Fatalf("type: %s", typeString)
	}
	if tlType := types.TypeString(tl2.Type()); tlType != "List[Tensor[(2), float32]]" {
		t.Fatalf("tail type: %s", tlType)
	}
}

func TestGenericDefOverList(t *testing.T) {
	m := NewModule()
	env := NewEnv(m)
	ctx := NewContext()
	list, nilCtor, consCtor := declareList(m)

	// Matching dispatches on the scrutinee's type, so a def that matches on
	// a param must declare its type params and annotate:

	tp := TParam("t", types.KindType)
	l := TypedVar("l", TApp(list, tp))
	d := TypedVar("d", tp)
	h, tl := Var("h"), Var("tl")
	hd := m.Declare("hd", FuncT([]*types.TypeParam{tp}, []*ir.Var{l, d},
		Match(l,
			Clause(PCtor(consCtor, PVar(h), PVar(tl)), h),
			Clause(PCtor(nilCtor), d),
		)))

	if err := ctx.InferModule(env); err != nil {
		t.Fatal(err)
	}
	typeString := types.TypeString(hd.Type())
	if typeString != "fn <t>(List[t], t) -> t" {
		t.Fatalf("type: %s", typeString)
	}

	ty, err := ctx.Infer(Call(hd,
		Ctor(consCtor, Const(types.Float32, 2), Ctor(nilCtor)),
		Const(types.Float32, 2),
	), env)
	if err != nil {
		t.Fatal(err)
	}
	if typeString = types.TypeString(ty); typeString != "Tensor[(2), float32]" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestRecursiveDefOverList(t *testing.T) {
	m := NewModule()
	env := NewEnv(m)
	ctx := NewContext()
	list, nilCtor, consCtor := declareList(m)

	lhs, rhs, out := TParam("lhs", types.KindType), TParam("rhs", types.KindType), TParam("out", types.KindType)
	if err := env.Ops.Register("add", TPoly(
		[]*types.TypeParam{lhs, rhs, out},
		[]types.Type{lhs, rhs},
		out,
		TRel("broadcast", lhs, rhs, out),
	)); err != nil {
		t.Fatal(err)
	}

	elem := TTensor(TPrim(types.Float32), TSize(2))
	l := TypedVar("l", TApp(list, elem))
	h, tl := Var("h"), Var("tl")
	sum := m.NewGlobal("sum")
	m.Define(sum, Func1(l,
		Match(l,
			Clause(PCtor(consCtor, PVar(h), PVar(tl)), Call(Op("add"), h, Call(sum, tl))),
			Clause(PCtor(nilCtor), Const(types.Float32, 2)),
		)))

	if err := ctx.InferModule(env); err != nil {
		t.Fatal(err)
	}
	typeString := types.TypeString(sum.Type())
	if typeString != "fn (List[Tensor[(2), float32]]) -> Tensor[(2), float32]" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestMatchErrors(t *testing.T) {
	m := NewModule()
	env := NewEnv(m)
	ctx := NewContext()
	_, nilCtor, consCtor := declareList(m)
	_, _, someCtor := declareOption(m)

	// A pattern's constructor must belong to the scrutinee's data type:

	h := Var("h")
	_, err := ctx.Infer(Match(Ctor(nilCtor),
		Clause(PCtor(someCtor, PVar(h)), h),
	), env)
	if err == nil {
		t.Fatalf("expected a data type mismatch")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != AdtMismatch {
		t.Fatalf("expected an AdtMismatch error, got %v", err)
	} else if terr.Msg != "Constructor Some does not belong to data type List" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for a foreign constructor pattern: %v", err)

	// Constructor patterns are arity-checked:

	scrut := Ctor(consCtor, Const(types.Float32, 2), Ctor(nilCtor))
	if _, err = ctx.Infer(Match(scrut, Clause(PCtor(consCtor, PVar(h)), h)), env); err == nil {
		t.Fatalf("expected a pattern arity error")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != ArityMismatch {
		t.Fatalf("expected an ArityMismatch error, got %v", err)
	} else if terr.Msg != "Constructor Cons expects 2 argument(s), found 1" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for pattern arity: %v", err)

	// Only data types can be matched:

	if _, err = ctx.Infer(Match(ConstScalar(types.Float32), Clause(PWild(), ConstScalar(types.Float32))), env); err == nil {
		t.Fatalf("expected a match error")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != KindMismatch {
		t.Fatalf("expected a KindMismatch error, got %v", err)
	} else if terr.Msg != "Cannot match a value of type float32" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for matching a non-data value: %v", err)

	// The scrutinee's type must be known before the match is reached:

	x := Var("x")
	if _, err = ctx.Infer(Func1(x, Match(x, Clause(PWild(), ConstScalar(types.Float32)))), env); err == nil {
		t.Fatalf("expected an ambiguity error")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != AmbiguousType {
		t.Fatalf("expected an AmbiguousType error, got %v", err)
	} else if terr.Msg != "Cannot match a value whose type is not yet determined (?0)" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for matching an undetermined value: %v", err)

	// A match with no clauses has no type to infer:

	if _, err = ctx.Infer(Match(Ctor(nilCtor)), env); err == nil {
		t.Fatalf("expected an empty match error")
	}
	if terr, ok := err.(*Error); !ok || terr.Kind != AmbiguousType {
		t.Fatalf("expected an AmbiguousType error, got %v", err)
	} else if terr.Msg != "Match with no clauses has no type" {
		t.Fatalf("message: %s", terr.Msg)
	}
	t.Logf("Passed check for an empty match: %v", err)

	// All clause bodies must agree on one type:

	h2, tl2 := Var("h2"), Var("tl2")
	if _, err = ctx.Infer(Match(Ctor(consCtor, Const(types.Float32, 2), Ctor(nilCtor)),
		Clause(PCtor(consCtor, PVar(h2), PVar(tl2)), h2),
		Clause(PCtor(nilCtor), ConstScalar(types.Bool)),
	), env); err == nil {
		t.Fatalf("expected a clause type error")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected a typed error, got %v", err)
	}
	t.Logf("Passed check for disagreeing clause bodies: %v", err)
}
