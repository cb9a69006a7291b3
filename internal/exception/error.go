package exception

import "fmt"

// Error boxes a Code into a Go error, for use at API boundaries that must
// return `error` rather than a bare numeric code. It follows the same
// shape as the teacher's sys.ExitError: Is compares by Code, not by
// Message, so callers can do errors.Is(err, exception.DivByZero.AsError()).
type Error struct {
	Code    Code
	Message string
}

// AsError boxes a bare Code into an *Error with no extra message.
func (c Code) AsError() error {
	if c == OK {
		return nil
	}
	return &Error{Code: c}
}

// WithMessage boxes c into an *Error carrying a formatted message, and
// returns it as an error. Useful at call sites that want to attach
// context (offending index, class name) to an otherwise generic code.
func (c Code) WithMessage(format string, args ...interface{}) error {
	return &Error{Code: c, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", Name(e.Code), e.Message)
	}
	return fmt.Sprintf("%s: %s", Name(e.Code), Description(e.Code))
}

// Is reports whether target is an *Error with the same Code, so
// errors.Is(err, exception.DivByZero.AsError()) works regardless of
// Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf unwraps err back to its Code, returning (Internal, false) if err
// was not produced by this package.
func CodeOf(err error) (Code, bool) {
	if err == nil {
		return OK, true
	}
	if e, ok := err.(*Error); ok {
		return e.Code, true
	}
	return Internal, false
}
