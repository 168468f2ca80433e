// Package parse implements the lamb parser.
//
// The grammar is:
//
//	Program = { Def [ ';' ] }
//	Def     = Ident '=' Expr
//	Expr    = Lambda | Let | Sum
//	Lambda  = '#' Ident '=>' Expr
//	Let     = 'let' Ident '=' Expr 'in' Expr
//	Sum     = Call { '+' ( Call | Lambda | Let ) }
//	Call    = Atom { '(' Expr ')' }
//	Atom    = Int | Ident | '(' Expr ')'
//
// Lambda and let expressions extend as far to the right as possible.
// Whitespace, including newlines, is insignificant, and "//" starts a comment
// that extends to the end of the line.
package parse

import (
	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/diag"
)

// Source describes a piece of source code.
type Source struct {
	Name   string
	Code   string
	IsFile bool
}

// Tree represents a parsed program.
type Tree struct {
	Root   *ast.Load
	Source Source
}

// Error is a parse error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "parse error" }

// Parse parses a whole program. The returned error always has type *Error if
// it is not nil.
func Parse(src Source) (Tree, error) {
	ps := newParser(src)
	var root *ast.Load
	err := ps.run(func() { root = ps.program() })
	return Tree{root, src}, err
}

// ParseExpr parses a single expression. The returned error always has type
// *Error if it is not nil.
func ParseExpr(src Source) (ast.Expr, error) {
	ps := newParser(src)
	var e ast.Expr
	err := ps.run(func() {
		e = ps.expr()
		ps.done()
	})
	return e, err
}

// ParseInput parses input that is either a single definition or a single
// expression, as accepted by the interactive mode. The returned node is
// either an *ast.Def or an ast.Expr. The returned error always has type
// *Error if it is not nil.
func ParseInput(src Source) (ast.Node, error) {
	ps := newParser(src)
	var n ast.Node
	err := ps.run(func() {
		if ps.startsDef() {
			n = ps.def()
			ps.skipSpace()
			if ps.peek() == ';' {
				ps.next()
			}
		} else {
			n = ps.expr()
		}
		ps.done()
	})
	return n, err
}

// UnpackErrors returns the constituent parse errors if the given error
// contains one or more parse errors. Otherwise it returns nil.
func UnpackErrors(e error) []*Error {
	return diag.UnpackErrors[ErrorTag](e)
}
