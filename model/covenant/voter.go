package covenant

import (
	"time"

	"github.com/vmihailenco/msgpack/v4"
)

// Voter is the per-principal record of a voting session.
//
// A voter acts at most once for the lifetime of the session: casting a ballot
// and delegating are mutually exclusive and each is terminal. Weight only
// grows, and only through incoming delegation.
type Voter struct {
	Address Address
	// Weight is the voting power the voter currently carries. Registration
	// grants weight 1; delegation chains accumulate weight here until the
	// voter acts.
	Weight uint64
	// Voted is set once the voter has cast a ballot or delegated.
	Voted bool
	// Delegate is the address this voter delegated to, or ZeroAddress if the
	// voter voted directly (or has not acted yet).
	Delegate Address
	// Choice is the index of the chosen proposal. Only meaningful when Voted
	// is true and Delegate is zero.
	Choice uint64
}

// VotingSession is the singleton record describing one voting round.
type VotingSession struct {
	Chairperson Address
	StartsAt    time.Time
	EndsAt      time.Time
	Finalized   bool
	// Winner is the index of the winning proposal. Only meaningful once
	// Finalized is true.
	Winner uint64
}

// Open returns true if ballots are accepted at the given instant.
func (s *VotingSession) Open(now time.Time) bool {
	return !s.Finalized && now.Before(s.EndsAt)
}

// MarshalMsgpack makes sure the timestamps are encoded in UTC.
func (s VotingSession) MarshalMsgpack() ([]byte, error) {
	type Encodable VotingSession
	s.StartsAt = s.StartsAt.UTC()
	s.EndsAt = s.EndsAt.UTC()
	return msgpack.Marshal(struct{ Encodable }{Encodable(s)})
}

// UnmarshalMsgpack makes sure the timestamps are decoded in UTC.
func (s *VotingSession) UnmarshalMsgpack(data []byte) error {
	type Decodable *VotingSession
	decodable := Decodable(s)
	err := msgpack.Unmarshal(data, decodable)
	s.StartsAt = s.StartsAt.UTC()
	s.EndsAt = s.EndsAt.UTC()
	return err
}
