// Package errs declares the kinds of errors raised by the evaluator.
//
// Each kind is a comparable struct type, so tests can match errors with ==
// or errors.As.
package errs

import "strconv"

// UnboundVariable is raised when a name is not bound in the environment.
type UnboundVariable struct {
	Name string
}

func (e UnboundVariable) Error() string {
	return "unbound variable: " + e.Name
}

// NotAFunction is raised when applying a value that is not a closure.
type NotAFunction struct {
	// Description of the value being applied, such as "integer 5".
	Actual string
}

func (e NotAFunction) Error() string {
	return "not a function: " + e.Actual
}

// TypeMismatch is raised when a value has the wrong kind, such as an operand
// of addition that is not an integer.
type TypeMismatch struct {
	Expected string
	Actual   string
}

func (e TypeMismatch) Error() string {
	return "type mismatch: expected " + e.Expected + ", got " + e.Actual
}

// UnsupportedTopLevelItem is raised when a program is not a list of
// definitions.
type UnsupportedTopLevelItem struct {
	// Kind of the offending item, such as "load".
	What string
}

func (e UnsupportedTopLevelItem) Error() string {
	return "unsupported top-level item: " + e.What
}

// MainNotFound is raised when a program does not define main.
type MainNotFound struct{}

func (MainNotFound) Error() string {
	return "main not found"
}

// RecursionLimitExceeded is raised when evaluation nests deeper than the
// configured limit.
type RecursionLimitExceeded struct {
	Limit int
}

func (e RecursionLimitExceeded) Error() string {
	return "recursion limit exceeded: " + strconv.Itoa(e.Limit)
}
