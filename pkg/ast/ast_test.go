package ast

import (
	"testing"

	"src.lamb.sh/pkg/tt"
)

var (
	x   = &Var{Name: "x"}
	f   = &Var{Name: "f"}
	one = &Int{Value: 1}
	id  = &Lam{Param: "x", Body: x}
)

func TestString(t *testing.T) {
	tt.Test(t, Node.String,
		tt.Args(Node(x)).Rets("x"),
		tt.Args(Node(&Int{Value: -42})).Rets("-42"),
		tt.Args(Node(&Add{Left: x, Right: one})).Rets("x + 1"),
		tt.Args(Node(&Add{Left: &Add{Left: x, Right: one}, Right: one})).
			Rets("x + 1 + 1"),
		tt.Args(Node(&Add{Left: x, Right: &Add{Left: one, Right: one}})).
			Rets("x + (1 + 1)"),
		tt.Args(Node(&Add{Left: id, Right: one})).Rets("(#x => x) + 1"),
		tt.Args(Node(&Add{Left: one, Right: id})).Rets("1 + #x => x"),
		tt.Args(Node(id)).Rets("#x => x"),
		tt.Args(Node(&App{Fn: f, Arg: one})).Rets("f(1)"),
		tt.Args(Node(&App{Fn: &App{Fn: f, Arg: one}, Arg: x})).Rets("f(1)(x)"),
		tt.Args(Node(&App{Fn: id, Arg: one})).Rets("(#x => x)(1)"),
		tt.Args(Node(&App{Fn: &Add{Left: f, Right: one}, Arg: one})).Rets("(f + 1)(1)"),
		tt.Args(Node(&Let{Name: "x", Value: one, Body: &Add{Left: x, Right: one}})).
			Rets("let x = 1 in x + 1"),
		tt.Args(Node(&Load{Items: []TopLevel{
			&Def{Name: "id", Expr: id},
			&Def{Name: "main", Expr: &App{Fn: &Var{Name: "id"}, Arg: one}},
		}})).Rets("id = #x => x\nmain = id(1)"),
	)
}

func TestLoad_Defs(t *testing.T) {
	d1 := &Def{Name: "a", Expr: one}
	d2 := &Def{Name: "b", Expr: one}
	load := &Load{Items: []TopLevel{d1, &Load{}, d2}}
	defs := load.Defs()
	if len(defs) != 2 || defs[0] != d1 || defs[1] != d2 {
		t.Errorf("Defs() -> %v, want [%v %v]", defs, d1, d2)
	}
}
