package errors

import (
	"time"
)

// NewInvalidAmountError constructs a new CodedError which indicates a
// value-bearing operation was given a zero or otherwise unusable amount.
func NewInvalidAmountError(msg string, args ...interface{}) *CodedError {
	return NewCodedError(
		ErrCodeInvalidAmountError,
		"invalid amount: "+msg,
		args...)
}

// IsInvalidAmountError returns true if error has this code
func IsInvalidAmountError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidAmountError)
}

// NewInvalidDeadlineError constructs a new CodedError. Escrow agreements must
// run for at least the minimum duration.
func NewInvalidDeadlineError(duration time.Duration, minimum time.Duration) *CodedError {
	return NewCodedError(
		ErrCodeInvalidDeadlineError,
		"escrow duration %s is below the minimum %s",
		duration,
		minimum)
}

func IsInvalidDeadlineError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidDeadlineError)
}

// NewZeroAddressError constructs a new CodedError which indicates a required
// participant address was left empty.
func NewZeroAddressError(field string) *CodedError {
	return NewCodedError(
		ErrCodeZeroAddressError,
		"%s must not be the zero address",
		field)
}

func IsZeroAddressError(err error) bool {
	return HasErrorCode(err, ErrCodeZeroAddressError)
}

// NewInsufficientPaymentError constructs a new CodedError. Purchases must
// cover the listed price in full.
func NewInsufficientPaymentError(payment uint64, price uint64) *CodedError {
	return NewCodedError(
		ErrCodeInsufficientPaymentError,
		"payment %d does not cover price %d",
		payment,
		price)
}

func IsInsufficientPaymentError(err error) bool {
	return HasErrorCode(err, ErrCodeInsufficientPaymentError)
}

// NewInvalidFeeError constructs a new CodedError. The platform fee is capped.
func NewInvalidFeeError(bps uint64, maxBps uint64) *CodedError {
	return NewCodedError(
		ErrCodeInvalidFeeError,
		"platform fee %d bps exceeds the maximum %d bps",
		bps,
		maxBps)
}

func IsInvalidFeeError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidFeeError)
}

// NewPriceMustBeAboveZeroError constructs a new CodedError. Free listings are
// not representable.
func NewPriceMustBeAboveZeroError(tokenID uint64) *CodedError {
	return NewCodedError(
		ErrCodePriceMustBeAboveZeroError,
		"listing price for token %d must be above zero",
		tokenID)
}

func IsPriceMustBeAboveZeroError(err error) bool {
	return HasErrorCode(err, ErrCodePriceMustBeAboveZeroError)
}
