// Package ast defines the abstract syntax tree of lamb programs.
//
// Both expressions and top-level items form closed sets: the only
// implementations of [Expr] are *Var, *Int, *Add, *Lam, *App and *Let, and the
// only implementations of [TopLevel] are *Load and *Def. Nodes are immutable
// once built; sub-expressions are held by pointer, so a body shared by many
// closures is never copied.
package ast

import (
	"strconv"
	"strings"

	"src.lamb.sh/pkg/diag"
)

// Node is implemented by all AST nodes. The range of a node is only used for
// diagnostics; nodes built directly in Go code may leave it zero.
type Node interface {
	diag.Ranger
	// String returns the node in surface syntax that parses back to an
	// equivalent node.
	String() string
}

// Expr is an expression.
type Expr interface {
	Node
	isExpr()
}

// Var is a reference to a bound name.
type Var struct {
	diag.Ranging
	Name string
}

// Int is an integer literal.
type Int struct {
	diag.Ranging
	Value int32
}

// Add is the sum of two expressions.
type Add struct {
	diag.Ranging
	Left, Right Expr
}

// Lam is a single-parameter function.
type Lam struct {
	diag.Ranging
	Param string
	Body  Expr
}

// App applies Fn to Arg.
type App struct {
	diag.Ranging
	Fn, Arg Expr
}

// Let binds Name to the value of Value while evaluating Body. The binding is
// not recursive: Value cannot refer to Name.
type Let struct {
	diag.Ranging
	Name        string
	Value, Body Expr
}

func (*Var) isExpr() {}
func (*Int) isExpr() {}
func (*Add) isExpr() {}
func (*Lam) isExpr() {}
func (*App) isExpr() {}
func (*Let) isExpr() {}

func (e *Var) String() string { return e.Name }
func (e *Int) String() string { return strconv.FormatInt(int64(e.Value), 10) }

func (e *Add) String() string {
	left := e.Left.String()
	if extendsRight(e.Left) {
		left = "(" + left + ")"
	}
	right := e.Right.String()
	if _, ok := e.Right.(*Add); ok {
		right = "(" + right + ")"
	}
	return left + " + " + right
}

func (e *Lam) String() string { return "#" + e.Param + " => " + e.Body.String() }

func (e *App) String() string {
	fn := e.Fn.String()
	if _, ok := e.Fn.(*Add); ok || extendsRight(e.Fn) {
		fn = "(" + fn + ")"
	}
	return fn + "(" + e.Arg.String() + ")"
}

func (e *Let) String() string {
	return "let " + e.Name + " = " + e.Value.String() + " in " + e.Body.String()
}

// Reports whether the expression swallows everything to its right when
// printed without parentheses.
func extendsRight(e Expr) bool {
	switch e.(type) {
	case *Lam, *Let:
		return true
	}
	return false
}

// TopLevel is an item of a program.
type TopLevel interface {
	Node
	isTopLevel()
}

// Load is a whole program. Only *Def items can be evaluated; the evaluator
// rejects anything else.
type Load struct {
	diag.Ranging
	Items []TopLevel
}

// Def is a top-level definition.
type Def struct {
	diag.Ranging
	Name string
	// Range of the name alone.
	NameRanging diag.Ranging
	Expr        Expr
}

func (*Load) isTopLevel() {}
func (*Def) isTopLevel()  {}

func (t *Load) String() string {
	var sb strings.Builder
	for i, item := range t.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(item.String())
	}
	return sb.String()
}

func (t *Def) String() string { return t.Name + " = " + t.Expr.String() }

// Defs returns the *Def items of a program in order, skipping other items.
func (t *Load) Defs() []*Def {
	var defs []*Def
	for _, item := range t.Items {
		if def, ok := item.(*Def); ok {
			defs = append(defs, def)
		}
	}
	return defs
}
