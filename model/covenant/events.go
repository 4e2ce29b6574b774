package covenant

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Typed payloads for each event type. The payloads are the authoritative
// record of what happened; consumers decode them with the matching
// DecodeXxxPayload helper.

type EscrowCreatedPayload struct {
	EscrowID uint64
	Buyer    Address
	Seller   Address
	Arbiter  Address
	Amount   uint64
	Deadline time.Time
}

type EscrowReleasedPayload struct {
	EscrowID     uint64
	Seller       Address
	SellerAmount uint64
	Fee          uint64
}

type EscrowRefundedPayload struct {
	EscrowID uint64
	Buyer    Address
	Amount   uint64
}

type EscrowDisputedPayload struct {
	EscrowID uint64
	RaisedBy Address
}

type EscrowResolvedPayload struct {
	EscrowID         uint64
	Arbiter          Address
	Winner           Address
	WinnerAmount     uint64
	Fee              uint64
	ReleasedToSeller bool
}

type VoterRegisteredPayload struct {
	Voter  Address
	Weight uint64
}

type ProposalAddedPayload struct {
	Index uint64
	Name  string
}

type VoteCastPayload struct {
	Voter    Address
	Proposal uint64
	Weight   uint64
}

type VoteDelegatedPayload struct {
	From Address
	// To is the final delegate after following the delegation chain.
	To     Address
	Weight uint64
	// Applied is true if the delegated weight was counted immediately
	// because the final delegate had already voted.
	Applied bool
}

type VotingExtendedPayload struct {
	EndsAt time.Time
}

type VotingFinalizedPayload struct {
	Winner    uint64
	VoteCount uint64
}

type AssetMintedPayload struct {
	TokenID uint64
	Creator Address
}

type AssetTransferredPayload struct {
	TokenID uint64
	From    Address
	To      Address
}

type ItemListedPayload struct {
	TokenID uint64
	Seller  Address
	Price   uint64
}

type ItemSoldPayload struct {
	TokenID      uint64
	Seller       Address
	Buyer        Address
	Price        uint64
	SellerAmount uint64
	Fee          uint64
	Royalty      uint64
	// Excess is the overpayment pushed back to the buyer.
	Excess uint64
}

type ListingCanceledPayload struct {
	TokenID uint64
	Seller  Address
}

type PlatformFeeUpdatedPayload struct {
	OldBps uint64
	NewBps uint64
}

type FundsCreditedPayload struct {
	Payee  Address
	Amount uint64
	// Balance is the pending balance after the credit.
	Balance uint64
}

type FundsWithdrawnPayload struct {
	Payee  Address
	Amount uint64
}

// EncodeEventPayload encodes a typed payload for inclusion in an Event.
func EncodeEventPayload(payload interface{}) ([]byte, error) {
	data, err := cbor.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not encode event payload: %w", err)
	}
	return data, nil
}

// DecodeEventPayload decodes an event payload into the given typed struct.
func DecodeEventPayload(data []byte, payload interface{}) error {
	err := cbor.Unmarshal(data, payload)
	if err != nil {
		return fmt.Errorf("could not decode event payload: %w", err)
	}
	return nil
}
