package unittest

import (
	crand "crypto/rand"
	"fmt"
	"math/rand"
	"time"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func RandomAddressFixture() covenant.Address {
	var addr covenant.Address
	_, _ = crand.Read(addr[:])
	return addr
}

func AddressFixture() covenant.Address {
	return covenant.BytesToAddress([]byte{0x01})
}

// Uint64InRange returns a uint64 value drawn from the uniform random distribution [min,max].
func Uint64InRange(min, max uint64) uint64 {
	return min + uint64(rand.Intn(int(max)+1-int(min)))
}

func EscrowFixture(opts ...func(*covenant.EscrowAgreement)) *covenant.EscrowAgreement {
	createdAt := time.Now().UTC()
	escrow := &covenant.EscrowAgreement{
		ID:          1,
		Buyer:       RandomAddressFixture(),
		Seller:      RandomAddressFixture(),
		Arbiter:     RandomAddressFixture(),
		Amount:      10_000,
		CreatedAt:   createdAt,
		Deadline:    createdAt.Add(72 * time.Hour),
		State:       covenant.EscrowStateFunded,
		Description: "escrowed sale",
	}
	for _, opt := range opts {
		opt(escrow)
	}
	return escrow
}

func WithEscrowID(escrowID uint64) func(*covenant.EscrowAgreement) {
	return func(escrow *covenant.EscrowAgreement) {
		escrow.ID = escrowID
	}
}

func WithEscrowState(state covenant.EscrowState) func(*covenant.EscrowAgreement) {
	return func(escrow *covenant.EscrowAgreement) {
		escrow.State = state
	}
}

func WithEscrowAmount(amount uint64) func(*covenant.EscrowAgreement) {
	return func(escrow *covenant.EscrowAgreement) {
		escrow.Amount = amount
	}
}

func VoterFixture(opts ...func(*covenant.Voter)) *covenant.Voter {
	voter := &covenant.Voter{
		Address: RandomAddressFixture(),
		Weight:  1,
	}
	for _, opt := range opts {
		opt(voter)
	}
	return voter
}

func WithVoterAddress(address covenant.Address) func(*covenant.Voter) {
	return func(voter *covenant.Voter) {
		voter.Address = address
	}
}

func SessionFixture(opts ...func(*covenant.VotingSession)) *covenant.VotingSession {
	startsAt := time.Now().UTC()
	session := &covenant.VotingSession{
		Chairperson: RandomAddressFixture(),
		StartsAt:    startsAt,
		EndsAt:      startsAt.Add(24 * time.Hour),
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

func ProposalFixture(opts ...func(*covenant.Proposal)) *covenant.Proposal {
	proposal := &covenant.Proposal{
		Index:       0,
		Name:        fmt.Sprintf("proposal-%d", rand.Uint32()),
		Description: "a matter put to the vote",
		Proposer:    RandomAddressFixture(),
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(proposal)
	}
	return proposal
}

func WithProposalIndex(index uint64) func(*covenant.Proposal) {
	return func(proposal *covenant.Proposal) {
		proposal.Index = index
	}
}

func ListingFixture(opts ...func(*covenant.Listing)) *covenant.Listing {
	listing := &covenant.Listing{
		TokenID: rand.Uint64(),
		Seller:  RandomAddressFixture(),
		Price:   5_000,
		Active:  true,
	}
	for _, opt := range opts {
		opt(listing)
	}
	return listing
}

func AssetFixture(opts ...func(*covenant.Asset)) *covenant.Asset {
	creator := RandomAddressFixture()
	asset := &covenant.Asset{
		TokenID: rand.Uint64(),
		Creator: creator,
		Owner:   creator,
	}
	for _, opt := range opts {
		opt(asset)
	}
	return asset
}

func AccountFixture(opts ...func(*covenant.Account)) *covenant.Account {
	account := &covenant.Account{
		Address:           RandomAddressFixture(),
		PendingWithdrawal: 100,
	}
	for _, opt := range opts {
		opt(account)
	}
	return account
}

func EventFixture(eventType covenant.EventType, sequence uint64) *covenant.Event {
	payload := make([]byte, 32)
	_, _ = crand.Read(payload)
	return &covenant.Event{
		Sequence:  sequence,
		Type:      eventType,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}
