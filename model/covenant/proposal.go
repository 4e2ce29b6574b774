package covenant

import "time"

// Proposal is a single option on the ballot. Proposals are identified by
// their insertion index; vote weight accumulates directly on the record and
// only ever grows.
type Proposal struct {
	Index       uint64
	Name        string
	Description string
	Proposer    Address
	CreatedAt   time.Time
	// VoteWeight is the total weight cast for this proposal so far.
	VoteWeight uint64
}
