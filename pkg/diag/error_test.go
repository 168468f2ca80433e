package diag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testErrorTag struct{}

func (testErrorTag) ErrorTag() string { return "some error" }

type testError = Error[testErrorTag]

func TestError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	err := &testError{
		Message: "bad list",
		Context: *contextInParen("[test]", "echo (x)"),
	}

	wantErrorString := "some error: [test]:1:6: bad list"
	if got := err.Error(); got != wantErrorString {
		t.Errorf("Error() -> %q, want %q", got, wantErrorString)
	}

	wantRanging := Ranging{From: 5, To: 8}
	if got := err.Range(); got != wantRanging {
		t.Errorf("Range() -> %v, want %v", got, wantRanging)
	}

	wantShow := lines(
		"Some error: {bad list}",
		"  [test]:1:6: echo <(x)>")
	if got := err.Show(""); got != wantShow {
		t.Errorf("Show() -> %q, want %q", got, wantShow)
	}
}

func TestPackAndUnpackErrors(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	if err := PackErrors[testErrorTag](nil); err != nil {
		t.Errorf("PackErrors(nil) -> %v, want nil", err)
	}

	e1 := &testError{Message: "bad 1", Context: *contextInParen("a", "(x)")}
	e2 := &testError{Message: "bad 2", Context: *contextInParen("b", " (y)")}

	if err := PackErrors([]*testError{e1}); err != e1 {
		t.Errorf("PackErrors with one error should return it unchanged")
	}

	packed := PackErrors([]*testError{e1, e2})
	wantError := "multiple some errors: a:1:1: bad 1; b:1:2: bad 2"
	if got := packed.Error(); got != wantError {
		t.Errorf("Error() -> %q, want %q", got, wantError)
	}
	wantShow := lines(
		"Multiple some errors:",
		"  {bad 1}",
		"    a:1:1: <(x)>",
		"  {bad 2}",
		"    b:1:2:  <(y)>")
	if got := packed.(Shower).Show(""); got != wantShow {
		t.Errorf("Show() -> %q, want %q", got, wantShow)
	}

	if diff := cmp.Diff([]*testError{e1, e2}, UnpackErrors[testErrorTag](packed),
		cmp.AllowUnexported(Context{})); diff != "" {
		t.Errorf("UnpackErrors (-want +got):\n%s", diff)
	}
	if got := UnpackErrors[testErrorTag](e1); len(got) != 1 || got[0] != e1 {
		t.Errorf("UnpackErrors(e1) -> %v", got)
	}
	if got := UnpackErrors[testErrorTag](errors.New("plain")); got != nil {
		t.Errorf("UnpackErrors(plain) -> %v, want nil", got)
	}
}

func TestShowError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	var sb bytes.Buffer
	ShowError(&sb, &testError{Message: "bad", Context: *contextInParen("[t]", "(x)")})
	ShowError(&sb, errors.New("plain error"))

	want := "Some error: {bad}\n  [t]:1:1: <(x)>\n{plain error}\n"
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
