// Package erruser provides errors whose Error() is a single user-facing
// sentence. The technical cause stays reachable through Unwrap() and an
// optional Hint carries recovery steps printed after the message.
package erruser

import "errors"

// Err holds a user-facing message, an optional cause and an optional
// multi-line hint. Error() returns only Msg so the primary line never shows
// command names or exit codes.
type Err struct {
	Msg  string
	Hint string
	Err  error
}

// Error returns the user-facing message only.
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// Unwrap returns the underlying error for Details output.
func (e *Err) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an error with the given user-facing message. If err is non-nil
// it is wrapped and printed by the CLI as "Details: ...". If err is nil a
// plain error is returned.
func New(msg string, err error) error {
	if err == nil {
		return errors.New(msg)
	}
	return &Err{Msg: msg, Err: err}
}

// WithHint returns an *Err carrying recovery instructions. err may be nil.
func WithHint(msg, hint string, err error) error {
	return &Err{Msg: msg, Hint: hint, Err: err}
}

// HintOf returns the first hint found in err's chain, or "".
func HintOf(err error) string {
	for err != nil {
		var e *Err
		if !errors.As(err, &e) {
			return ""
		}
		if e.Hint != "" {
			return e.Hint
		}
		err = e.Err
	}
	return ""
}
