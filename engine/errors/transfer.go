package errors

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// NewTransferFailedError constructs a new CodedError. It is returned when the
// outbound value transfer of a withdrawal or an excess-payment return fails;
// the surrounding call rolls back, so the funds stay withdrawable.
func NewTransferFailedError(recipient covenant.Address, amount uint64, err error) *CodedError {
	return WrapCodedError(
		ErrCodeTransferFailedError,
		err,
		"transfer of %d to %s failed",
		amount,
		recipient)
}

// IsTransferFailedError returns true if error has this code
func IsTransferFailedError(err error) bool {
	return HasErrorCode(err, ErrCodeTransferFailedError)
}
