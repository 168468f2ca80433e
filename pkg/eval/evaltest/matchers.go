package evaltest

import (
	"reflect"

	"src.lamb.sh/pkg/eval"
)

// ValueMatcher is a value that can be passed to [Case.Evaluates] and has its
// own matching semantics.
type ValueMatcher interface{ matchValue(eval.Value) bool }

// AnyClosure matches any closure.
var AnyClosure ValueMatcher = anyClosure{}

type anyClosure struct{}

func (anyClosure) matchValue(v eval.Value) bool {
	_, ok := v.(*eval.Closure)
	return ok
}

func (anyClosure) String() string { return "<any closure>" }

// ClosureOf matches a closure with the given parameter whose body prints as
// the given source.
func ClosureOf(param, body string) ValueMatcher { return closureOf{param, body} }

type closureOf struct{ param, body string }

func (m closureOf) matchValue(v eval.Value) bool {
	c, ok := v.(*eval.Closure)
	return ok && c.Param == m.param && c.Body.String() == m.body
}

// errorMatcher is an error that can be passed to [Case.Throws] and has its own
// matching semantics.
type errorMatcher interface{ matchError(error) bool }

// ErrorWithType returns an error that matches any error of the same type as
// v.
func ErrorWithType(v error) error { return errWithType{v} }

type errWithType struct{ v error }

func (e errWithType) Error() string { return "<error with type " + reflect.TypeOf(e.v).String() + ">" }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}
