package covenant

import (
	"time"

	"github.com/vmihailenco/msgpack/v4"
)

// MinEscrowDuration is the shortest allowed time between the creation and
// the deadline of an agreement.
const MinEscrowDuration = 24 * time.Hour

// EscrowState represents the lifecycle state of an escrow agreement.
type EscrowState int

const (
	// EscrowStateCreated indicates an agreement that exists but holds no
	// funds. Because funding is atomic with creation, this state is never
	// observable through the public interface; it exists so the zero value
	// of EscrowState is not a meaningful state.
	EscrowStateCreated EscrowState = iota
	// EscrowStateFunded is the status of a funded, active agreement.
	EscrowStateFunded
	// EscrowStateReleased indicates funds were released to the seller.
	EscrowStateReleased
	// EscrowStateRefunded indicates funds were returned to the buyer.
	EscrowStateRefunded
	// EscrowStateDisputed indicates a party raised a dispute; only the
	// arbiter can exit this state.
	EscrowStateDisputed
	// EscrowStateResolved indicates the arbiter settled a dispute.
	EscrowStateResolved
)

// String returns the string representation of an escrow state.
func (s EscrowState) String() string {
	return [...]string{"CREATED", "FUNDED", "RELEASED", "REFUNDED", "DISPUTED", "RESOLVED"}[s]
}

// Terminal returns true if no further transition is permitted from s.
func (s EscrowState) Terminal() bool {
	switch s {
	case EscrowStateReleased, EscrowStateRefunded, EscrowStateResolved:
		return true
	default:
		return false
	}
}

// EscrowAgreement is a two-party agreement with funds held by the engine
// until released, refunded or arbitrated.
//
// Agreements are created funded (creation and deposit collapse into one
// atomic operation) and are immutable once they reach a terminal state.
type EscrowAgreement struct {
	ID          uint64
	Buyer       Address
	Seller      Address
	Arbiter     Address
	Amount      uint64
	CreatedAt   time.Time
	Deadline    time.Time
	State       EscrowState
	Description string
}

// Expired returns true if the agreement deadline has been reached at the
// given instant. The deadline instant itself counts as expired.
func (e *EscrowAgreement) Expired(now time.Time) bool {
	return !now.Before(e.Deadline)
}

// MarshalMsgpack makes sure the timestamps are encoded in UTC.
func (e EscrowAgreement) MarshalMsgpack() ([]byte, error) {
	type Encodable EscrowAgreement
	e.CreatedAt = e.CreatedAt.UTC()
	e.Deadline = e.Deadline.UTC()
	return msgpack.Marshal(struct{ Encodable }{Encodable(e)})
}

// UnmarshalMsgpack makes sure the timestamps are decoded in UTC.
func (e *EscrowAgreement) UnmarshalMsgpack(data []byte) error {
	type Decodable *EscrowAgreement
	decodable := Decodable(e)
	err := msgpack.Unmarshal(data, decodable)
	e.CreatedAt = e.CreatedAt.UTC()
	e.Deadline = e.Deadline.UTC()
	return err
}
