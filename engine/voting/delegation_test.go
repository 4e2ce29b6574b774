package voting_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	cerrors "github.com/covenantnet/covenant-go/engine/errors"
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

// TestDelegatedWeightConservation checks that no voting power is created or
// destroyed by any interleaving of votes and delegations: every registered
// voter contributes exactly one unit, and each unit ends up either tallied
// on a proposal or parked on a voter who has not acted yet.
func TestDelegatedWeightConservation(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		rapid.Check(t, func(rt *rapid.T) {
			// fresh members and proposals per iteration; earlier iterations
			// leave their spent voters behind, unreferenced
			count := rapid.IntRange(2, 10).Draw(rt, "member_count")
			members := make([]covenant.Address, 0, count)
			for i := 0; i < count; i++ {
				members = append(members, unittest.RandomAddressFixture())
			}
			registered, err := h.engine.RegisterVotersBatch(h.chairperson, members)
			require.NoError(rt, err)
			require.Equal(rt, uint64(count), registered)

			alpha, err := h.engine.AddProposal(h.chairperson, "alpha", "")
			require.NoError(rt, err)
			beta, err := h.engine.AddProposal(h.chairperson, "beta", "")
			require.NoError(rt, err)
			ballot := []uint64{alpha.Index, beta.Index}

			for _, member := range members {
				action := rapid.SampledFrom([]string{"vote", "delegate", "abstain"}).Draw(rt, "action")
				switch action {
				case "vote":
					choice := rapid.SampledFrom(ballot).Draw(rt, "choice")
					require.NoError(rt, h.engine.Vote(member, choice))
				case "delegate":
					target := members[rapid.IntRange(0, count-1).Draw(rt, "target")]
					err := h.engine.Delegate(member, target)
					// a rejected delegation must leave the caller untouched
					if err != nil {
						require.True(rt,
							cerrors.IsSelfDelegationNotAllowedError(err) ||
								cerrors.IsDelegationLoopDetectedError(err),
							"unexpected delegation failure: %v", err)
					}
				case "abstain":
				}
			}

			var tallied uint64
			for _, index := range ballot {
				proposal, err := h.proposals.ByIndex(index)
				require.NoError(rt, err)
				tallied += proposal.VoteWeight
			}

			var parked uint64
			for _, member := range members {
				voter, err := h.voters.ByAddress(member)
				require.NoError(rt, err)
				if !voter.Voted {
					parked += voter.Weight
				}
			}

			require.Equal(rt, uint64(count), tallied+parked)
		})
	})
}
