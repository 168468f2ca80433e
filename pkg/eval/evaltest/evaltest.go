// Package evaltest provides a framework for testing lamb programs.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//		That("main = 1 + 2").Evaluates(eval.Int(3)),
//		That("main = y").Throws(errs.UnboundVariable{Name: "y"}, "y"))
package evaltest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"src.lamb.sh/pkg/eval"
	"src.lamb.sh/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	code     string
	maxDepth int
	want     result
}

type result struct {
	value     any
	exception *exc
}

type exc struct {
	reason  error
	culprit []string
}

func (e exc) String() string {
	if len(e.culprit) == 0 {
		return fmt.Sprint(e.reason)
	}
	return fmt.Sprintf("%v at %q", e.reason, e.culprit[0])
}

// That returns a new Case with the specified program. Multiple arguments are
// joined with newlines.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "main = 1 + 2" evaluates to 3 reads:
//
//	That("main = 1 + 2").Evaluates(eval.Int(3))
func That(lines ...string) Case {
	return Case{code: strings.Join(lines, "\n")}
}

// WithMaxDepth returns an altered Case that evaluates with the given
// recursion limit.
func (c Case) WithMaxDepth(n int) Case {
	c.maxDepth = n
	return c
}

// Evaluates returns an altered Case that requires the program to evaluate to
// the given value. The argument may be an eval.Value, compared with
// eval.Equal, or a ValueMatcher.
func (c Case) Evaluates(v any) Case {
	c.want.value = v
	return c
}

// Throws returns an altered Case that requires evaluation to fail with an
// exception with the given reason. If a culprit is given, the source text of
// the node where evaluation failed must also equal it.
func (c Case) Throws(reason error, culprit ...string) Case {
	c.want.exception = &exc{reason, culprit}
	return c
}

// Test runs test cases. For each test case, a new Evaler is created.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			t.Helper()
			tree, err := parse.Parse(parse.Source{Name: "[test]", Code: tc.code})
			if err != nil {
				t.Fatalf("Parse(%q) error: %s", tc.code, err)
			}
			ev := &eval.Evaler{MaxDepth: tc.maxDepth}
			v, err := ev.EvalTree(tree)

			if tc.want.exception == nil {
				if err != nil {
					t.Fatalf("got exception %v, want none", err)
				}
				if !match(v, tc.want.value) {
					t.Errorf("got value %v, want %v", v, tc.want.value)
				}
				return
			}
			if !matchException(err, tc.code, *tc.want.exception) {
				var e *eval.Exception
				if errors.As(err, &e) {
					t.Errorf("got exception %T: %v at %q, want %v",
						e.Reason, e.Reason, tc.code[e.From:e.To], tc.want.exception)
				} else {
					t.Errorf("got error %v, want exception %v", err, tc.want.exception)
				}
			}
		})
	}
}

func match(got eval.Value, want any) bool {
	switch want := want.(type) {
	case ValueMatcher:
		return want.matchValue(got)
	case eval.Value:
		return got != nil && eval.Equal(got, want)
	}
	return false
}

func matchException(err error, code string, want exc) bool {
	var e *eval.Exception
	if !errors.As(err, &e) {
		return false
	}
	if matcher, ok := want.reason.(errorMatcher); ok {
		if !matcher.matchError(e.Reason) {
			return false
		}
	} else if !reflect.DeepEqual(e.Reason, want.reason) {
		return false
	}
	if len(want.culprit) > 0 {
		if e.From < 0 || e.To > len(code) || code[e.From:e.To] != want.culprit[0] {
			return false
		}
	}
	return true
}
