package eval

import (
	"strconv"

	"src.lamb.sh/pkg/ast"
)

// Value is a runtime value. The only implementations are [Int] and *[Closure].
type Value interface {
	// Kind returns the name of the kind of the value, as used in error
	// messages.
	Kind() string
	isValue()
}

// Int is an integer value. Arithmetic on Int wraps around on overflow.
type Int int32

// Closure is a function value. It captures the environment in force when the
// lambda expression was evaluated.
type Closure struct {
	Env   Env
	Param string
	Body  ast.Expr
}

var (
	_ Value = Int(0)
	_ Value = &Closure{}
)

func (Int) isValue()      {}
func (*Closure) isValue() {}

// Kind returns "integer".
func (Int) Kind() string { return "integer" }

// Kind returns "closure".
func (*Closure) Kind() string { return "closure" }

// Describe returns a short description of a value, as used in error
// messages: the kind, followed by the literal for integers.
func Describe(v Value) string {
	if i, ok := v.(Int); ok {
		return "integer " + strconv.Itoa(int(i))
	}
	return v.Kind()
}

// Display returns the form of a value shown to users: integers as decimal
// literals, and closures as "(function)".
func Display(v Value) string {
	if i, ok := v.(Int); ok {
		return strconv.Itoa(int(i))
	}
	return "(function)"
}

// Equal reports whether two values are structurally equal. Closures are equal
// when they share the same body expression and parameter, and their captured
// environments are equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)
		return ok && a == b
	case *Closure:
		b, ok := b.(*Closure)
		return ok && (a == b ||
			a.Param == b.Param && a.Body == b.Body && a.Env.Equal(b.Env))
	}
	return false
}
