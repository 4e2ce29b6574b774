package errors

import "fmt"

// ErrorCode identifies one failure kind of the taxonomy. Codes are stable
// across releases: hosts and clients key retry/display policy on them.
type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Error Code: %d]", ec)
}

const (
	// authorization errors 1100 - 1149
	ErrCodeUnauthorizedError   ErrorCode = 1100
	ErrCodeNotChairpersonError ErrorCode = 1101
	ErrCodeNotTokenOwnerError  ErrorCode = 1102

	// state errors 1150 - 1199
	ErrCodeInvalidStateError       ErrorCode = 1150
	ErrCodeAlreadyVotedError       ErrorCode = 1151
	ErrCodeAlreadyFinalizedError   ErrorCode = 1152
	ErrCodeNotListedError          ErrorCode = 1153
	ErrCodeAlreadyListedError      ErrorCode = 1154
	ErrCodeVotingNotActiveError    ErrorCode = 1155
	ErrCodeVotingStillActiveError  ErrorCode = 1156
	ErrCodeVoterNotRegisteredError ErrorCode = 1157

	// input errors 1200 - 1249
	ErrCodeInvalidAmountError        ErrorCode = 1200
	ErrCodeInvalidDeadlineError      ErrorCode = 1201
	ErrCodeZeroAddressError          ErrorCode = 1202
	ErrCodeInsufficientPaymentError  ErrorCode = 1203
	ErrCodeInvalidFeeError           ErrorCode = 1204
	ErrCodePriceMustBeAboveZeroError ErrorCode = 1205

	// integrity errors 1250 - 1299
	ErrCodeDelegationLoopDetectedError   ErrorCode = 1250
	ErrCodeSelfDelegationNotAllowedError ErrorCode = 1251
	ErrCodeDeadlineNotReachedError       ErrorCode = 1252
	ErrCodeReentrancyDetectedError       ErrorCode = 1253
	ErrCodeNoPendingWithdrawalsError     ErrorCode = 1254

	// transfer errors 1300 - 1320
	ErrCodeTransferFailedError ErrorCode = 1300
)
