package errors

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// NewInvalidStateError constructs a new CodedError. It is returned when an
// escrow mutation finds the agreement in a state the transition does not
// start from, including every mutation attempted on a terminal state.
func NewInvalidStateError(current covenant.EscrowState, expected covenant.EscrowState) *CodedError {
	return NewCodedError(
		ErrCodeInvalidStateError,
		"escrow is %s, operation requires %s",
		current,
		expected)
}

// IsInvalidStateError returns true if error has this code
func IsInvalidStateError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidStateError)
}

// NewAlreadyVotedError constructs a new CodedError. Casting a ballot and
// delegating are both terminal for a voter.
func NewAlreadyVotedError(voter covenant.Address) *CodedError {
	return NewCodedError(
		ErrCodeAlreadyVotedError,
		"voter %s has already voted or delegated",
		voter)
}

func IsAlreadyVotedError(err error) bool {
	return HasErrorCode(err, ErrCodeAlreadyVotedError)
}

// NewAlreadyFinalizedError constructs a new CodedError. Finalization happens
// at most once per voting session.
func NewAlreadyFinalizedError() *CodedError {
	return NewCodedError(
		ErrCodeAlreadyFinalizedError,
		"voting session is already finalized")
}

func IsAlreadyFinalizedError(err error) bool {
	return HasErrorCode(err, ErrCodeAlreadyFinalizedError)
}

// NewNotListedError constructs a new CodedError. It is returned when an
// operation requires an active listing for the token and none exists.
func NewNotListedError(tokenID uint64) *CodedError {
	return NewCodedError(
		ErrCodeNotListedError,
		"token %d is not actively listed",
		tokenID)
}

func IsNotListedError(err error) bool {
	return HasErrorCode(err, ErrCodeNotListedError)
}

// NewAlreadyListedError constructs a new CodedError. A token carries at most
// one active listing.
func NewAlreadyListedError(tokenID uint64) *CodedError {
	return NewCodedError(
		ErrCodeAlreadyListedError,
		"token %d is already listed",
		tokenID)
}

func IsAlreadyListedError(err error) bool {
	return HasErrorCode(err, ErrCodeAlreadyListedError)
}

// NewVotingNotActiveError constructs a new CodedError. It is returned when a
// ballot, delegation or extension arrives outside the voting window.
func NewVotingNotActiveError() *CodedError {
	return NewCodedError(
		ErrCodeVotingNotActiveError,
		"voting window is closed")
}

func IsVotingNotActiveError(err error) bool {
	return HasErrorCode(err, ErrCodeVotingNotActiveError)
}

// NewVotingStillActiveError constructs a new CodedError. Finalization must
// wait for the voting window to close.
func NewVotingStillActiveError() *CodedError {
	return NewCodedError(
		ErrCodeVotingStillActiveError,
		"voting window is still open")
}

func IsVotingStillActiveError(err error) bool {
	return HasErrorCode(err, ErrCodeVotingStillActiveError)
}

// NewVoterNotRegisteredError constructs a new CodedError. Only registered
// voters may vote or participate in delegation.
func NewVoterNotRegisteredError(voter covenant.Address) *CodedError {
	return NewCodedError(
		ErrCodeVoterNotRegisteredError,
		"voter %s is not registered",
		voter)
}

func IsVoterNotRegisteredError(err error) bool {
	return HasErrorCode(err, ErrCodeVoterNotRegisteredError)
}
