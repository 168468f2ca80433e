package eval

import (
	"errors"

	"src.lamb.sh/pkg/diag"
	"src.lamb.sh/pkg/parse"
)

// Exception is the error returned by evaluation. It records the reason, one
// of the types in the errs package, and where evaluation failed.
type Exception struct {
	Reason error
	// Range of the node whose evaluation failed.
	diag.Ranging
	// Source context of the failure. Only available when the source of the
	// program is known, for example when using (*Evaler).EvalTree.
	Context *diag.Context
}

var _ diag.Shower = &Exception{}

// Error returns the message of the reason.
func (exc *Exception) Error() string { return exc.Reason.Error() }

// Unwrap returns the reason, so that errors.As and errors.Is can be used to
// inspect it.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Show shows the exception, including the source context if it is known.
func (exc *Exception) Show(indent string) string {
	msg := "Exception: " + diagMessage(exc.Reason.Error())
	if exc.Context == nil {
		return msg
	}
	return msg + "\n" + indent + "  " + exc.Context.Show(indent+"  ")
}

// Reason returns the Reason field if err is an *Exception. Otherwise it
// returns err itself.
func Reason(err error) error {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Reason
	}
	return err
}

// WithSource returns err with the source context attached if it is an
// *Exception. Otherwise it returns err unchanged.
func WithSource(err error, src parse.Source) error {
	var exc *Exception
	if !errors.As(err, &exc) {
		return err
	}
	withCtx := *exc
	withCtx.Context = diag.NewContext(src.Name, src.Code, exc.Ranging)
	return &withCtx
}

func newException(reason error, r diag.Ranger) *Exception {
	return &Exception{Reason: reason, Ranging: r.Range()}
}

// Highlights the message the same way as diagnostic errors.
func diagMessage(s string) string {
	return messageStart + s + messageEnd
}

// Styling of exception messages. Overridden in tests.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)
