package errors

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// NewUnauthorizedError constructs a new CodedError which indicates that the
// caller does not hold the role required for an operation.
func NewUnauthorizedError(caller covenant.Address, requiredRole string) *CodedError {
	return NewCodedError(
		ErrCodeUnauthorizedError,
		"caller %s is not authorized: requires %s",
		caller,
		requiredRole)
}

// IsUnauthorizedError returns true if error has this code
func IsUnauthorizedError(err error) bool {
	return HasErrorCode(err, ErrCodeUnauthorizedError)
}

// NewNotChairpersonError constructs a new CodedError. It is returned when a
// voting operation reserved for the chairperson is called by anyone else.
func NewNotChairpersonError(caller covenant.Address) *CodedError {
	return NewCodedError(
		ErrCodeNotChairpersonError,
		"caller %s is not the chairperson",
		caller)
}

func IsNotChairpersonError(err error) bool {
	return HasErrorCode(err, ErrCodeNotChairpersonError)
}

// NewNotTokenOwnerError constructs a new CodedError. It is returned when a
// marketplace operation requires asset ownership the caller does not have.
func NewNotTokenOwnerError(caller covenant.Address, tokenID uint64) *CodedError {
	return NewCodedError(
		ErrCodeNotTokenOwnerError,
		"caller %s does not own token %d",
		caller,
		tokenID)
}

func IsNotTokenOwnerError(err error) bool {
	return HasErrorCode(err, ErrCodeNotTokenOwnerError)
}
