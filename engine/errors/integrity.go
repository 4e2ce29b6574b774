package errors

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// NewDelegationLoopDetectedError constructs a new CodedError. It is returned
// when following a delegation chain returns to the delegating voter, or when
// the chain fails to terminate within the hop limit.
func NewDelegationLoopDetectedError(from covenant.Address, hops int) *CodedError {
	return NewCodedError(
		ErrCodeDelegationLoopDetectedError,
		"delegation from %s loops or exceeds %d hops",
		from,
		hops)
}

// IsDelegationLoopDetectedError returns true if error has this code
func IsDelegationLoopDetectedError(err error) bool {
	return HasErrorCode(err, ErrCodeDelegationLoopDetectedError)
}

// NewSelfDelegationNotAllowedError constructs a new CodedError. Delegating to
// oneself is rejected outright rather than treated as a one-hop loop.
func NewSelfDelegationNotAllowedError(voter covenant.Address) *CodedError {
	return NewCodedError(
		ErrCodeSelfDelegationNotAllowedError,
		"voter %s cannot delegate to themselves",
		voter)
}

func IsSelfDelegationNotAllowedError(err error) bool {
	return HasErrorCode(err, ErrCodeSelfDelegationNotAllowedError)
}

// NewDeadlineNotReachedError constructs a new CodedError. A buyer may only
// reclaim an escrow once its deadline has passed; the deadline instant itself
// is inside the refundable range.
func NewDeadlineNotReachedError(id uint64) *CodedError {
	return NewCodedError(
		ErrCodeDeadlineNotReachedError,
		"escrow %d deadline has not been reached",
		id)
}

func IsDeadlineNotReachedError(err error) bool {
	return HasErrorCode(err, ErrCodeDeadlineNotReachedError)
}

// NewReentrancyDetectedError constructs a new CodedError. It is returned when
// a call enters an engine while another call on the same engine instance is
// still in flight, e.g. a transfer callback calling back into the engine.
func NewReentrancyDetectedError(engine string) *CodedError {
	return NewCodedError(
		ErrCodeReentrancyDetectedError,
		"reentrant call into %s engine",
		engine)
}

func IsReentrancyDetectedError(err error) bool {
	return HasErrorCode(err, ErrCodeReentrancyDetectedError)
}

// NewNoPendingWithdrawalsError constructs a new CodedError. Withdrawals on an
// empty balance fail instead of transferring zero.
func NewNoPendingWithdrawalsError(account covenant.Address) *CodedError {
	return NewCodedError(
		ErrCodeNoPendingWithdrawalsError,
		"account %s has no funds pending withdrawal",
		account)
}

func IsNoPendingWithdrawalsError(err error) bool {
	return HasErrorCode(err, ErrCodeNoPendingWithdrawalsError)
}
