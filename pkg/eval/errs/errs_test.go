package errs

import "testing"

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{UnboundVariable{Name: "y"}, "unbound variable: y"},
	{NotAFunction{Actual: "integer 5"}, "not a function: integer 5"},
	{TypeMismatch{Expected: "integer", Actual: "closure"},
		"type mismatch: expected integer, got closure"},
	{UnsupportedTopLevelItem{What: "load"}, "unsupported top-level item: load"},
	{MainNotFound{}, "main not found"},
	{RecursionLimitExceeded{Limit: 100}, "recursion limit exceeded: 100"},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}
