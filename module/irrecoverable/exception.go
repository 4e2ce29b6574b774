package irrecoverable

import "fmt"

// exception represents an unexpected error. An unexpected error is any error
// returned by a function, other than the errors specifically documented as
// expected in its signature.
//
// It wraps an error, which could be a sentinel error. IMPORTANT: it does NOT
// implement the `Unwrap` method, so `errors.Is` and `errors.As` will NOT
// match the wrapped sentinel or code.
type exception struct {
	err error
}

// Error returns the error string of the exception. It is always prefixed by
// `[exception!]` to easily differentiate unexpected errors in logs.
func (e exception) Error() string {
	return "[exception!] " + e.err.Error()
}

// NewException wraps the input error as an exception, stripping any sentinel
// error information. This ensures that all upper levels in the stack will
// consider this an unexpected error.
func NewException(err error) error {
	return exception{err: err}
}

// NewExceptionf is NewException with the ability to add formatting and
// context to the error text.
func NewExceptionf(msg string, args ...interface{}) error {
	return exception{err: fmt.Errorf(msg, args...)}
}
