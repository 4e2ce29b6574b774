package covenant

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v4"
)

// EventType is the qualified name of an emitted event, e.g. "escrow.Released".
type EventType string

const (
	EventEscrowCreated      EventType = "escrow.Created"
	EventEscrowReleased     EventType = "escrow.Released"
	EventEscrowRefunded     EventType = "escrow.Refunded"
	EventEscrowDisputed     EventType = "escrow.Disputed"
	EventEscrowResolved     EventType = "escrow.Resolved"
	EventVoterRegistered    EventType = "voting.VoterRegistered"
	EventProposalAdded      EventType = "voting.ProposalAdded"
	EventVoteCast           EventType = "voting.VoteCast"
	EventVoteDelegated      EventType = "voting.VoteDelegated"
	EventVotingExtended     EventType = "voting.Extended"
	EventVotingFinalized    EventType = "voting.Finalized"
	EventAssetMinted        EventType = "market.AssetMinted"
	EventAssetTransferred   EventType = "market.AssetTransferred"
	EventItemListed         EventType = "market.ItemListed"
	EventItemSold           EventType = "market.ItemSold"
	EventListingCanceled    EventType = "market.ListingCanceled"
	EventPlatformFeeUpdated EventType = "market.PlatformFeeUpdated"
	EventFundsCredited      EventType = "ledger.FundsCredited"
	EventFundsWithdrawn     EventType = "ledger.FundsWithdrawn"
)

// Event is one entry of the append-only event log. Sequence numbers are
// assigned in commit order, start at 1, and never repeat or leave gaps.
type Event struct {
	Sequence uint64
	Type     EventType
	// Payload is the CBOR encoding of the typed payload struct for Type.
	Payload   []byte
	EmittedAt time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s #%d", e.Type, e.Sequence)
}

// MarshalMsgpack makes sure the timestamp is encoded in UTC.
func (e Event) MarshalMsgpack() ([]byte, error) {
	type Encodable Event
	e.EmittedAt = e.EmittedAt.UTC()
	return msgpack.Marshal(struct{ Encodable }{Encodable(e)})
}

// UnmarshalMsgpack makes sure the timestamp is decoded in UTC.
func (e *Event) UnmarshalMsgpack(data []byte) error {
	type Decodable *Event
	decodable := Decodable(e)
	err := msgpack.Unmarshal(data, decodable)
	e.EmittedAt = e.EmittedAt.UTC()
	return err
}
