package errors

import (
	stdErrors "errors"
	"fmt"
)

// CodedError is a non-retriable validation failure carrying a stable
// ErrorCode. Every failure of an engine operation is (or wraps) a CodedError;
// anything else escaping an engine is an exception and indicates a bug or an
// unusable storage layer.
type CodedError struct {
	code ErrorCode

	err error
}

// NewCodedError constructs a new CodedError with the given code and message.
func NewCodedError(
	code ErrorCode,
	format string,
	formatArguments ...interface{},
) *CodedError {
	return WrapCodedError(code, nil, format, formatArguments...)
}

// WrapCodedError wraps an error into a CodedError, prefixing its message.
func WrapCodedError(
	code ErrorCode,
	err error,
	prefixMsgFormat string,
	formatArguments ...interface{},
) *CodedError {
	if prefixMsgFormat != "" {
		msg := fmt.Sprintf(prefixMsgFormat, formatArguments...)
		if err == nil {
			err = stdErrors.New(msg)
		} else {
			err = fmt.Errorf("%s: %w", msg, err)
		}
	}
	return &CodedError{
		code: code,
		err:  err,
	}
}

func (err CodedError) Unwrap() error {
	return err.err
}

func (err CodedError) Error() string {
	return fmt.Sprintf("%v %v", err.code, err.err)
}

// Code returns the error code for this error
func (err CodedError) Code() ErrorCode {
	return err.code
}

// HasErrorCode returns true if the error chain contains a CodedError with
// the given code.
func HasErrorCode(err error, code ErrorCode) bool {
	coded := AsCodedError(err)
	return coded != nil && coded.Code() == code
}

// AsCodedError unwraps the error chain down to the first CodedError, or nil
// if the chain contains none.
func AsCodedError(err error) *CodedError {
	var coded *CodedError
	if stdErrors.As(err, &coded) {
		return coded
	}
	return nil
}

// IsCodedFailure returns true if the error is (or wraps) any taxonomy
// failure, as opposed to an infrastructure exception.
func IsCodedFailure(err error) bool {
	return AsCodedError(err) != nil
}
