package voting_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/covenantnet/covenant-go/engine/errors"
	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/engine/voting"
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module/metrics"
	"github.com/covenantnet/covenant-go/storage"
	bstorage "github.com/covenantnet/covenant-go/storage/badger"
	"github.com/covenantnet/covenant-go/utils/unittest"
)

const window = 72 * time.Hour

type harness struct {
	engine      *voting.Engine
	events      *bstorage.Events
	voters      *bstorage.Voters
	proposals   *bstorage.Proposals
	clock       *clock.Mock
	chairperson covenant.Address
}

func runWithEngine(t *testing.T, f func(h *harness)) {
	runWithHopLimit(t, voting.DefaultMaxDelegationHops, f)
}

func runWithHopLimit(t *testing.T, maxHops uint, f func(h *harness)) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		clk := clock.NewMock()
		events := bstorage.NewEvents(db)
		sequences := bstorage.NewSequences(db)
		sessions := bstorage.NewSessions(db)
		voters := bstorage.NewVoters(collector, db)
		proposals := bstorage.NewProposals(collector, db)
		recorder := notifications.NewRecorder(events, sequences, clk, collector, notifications.NewNoopConsumer())
		chairperson := unittest.RandomAddressFixture()
		engine, err := voting.New(unittest.Logger(), db, clk, collector, sessions, voters, proposals, recorder, chairperson, window, maxHops)
		require.NoError(t, err)
		f(&harness{
			engine:      engine,
			events:      events,
			voters:      voters,
			proposals:   proposals,
			clock:       clk,
			chairperson: chairperson,
		})
	})
}

func (h *harness) register(t *testing.T, voter covenant.Address) {
	require.NoError(t, h.engine.RegisterVoter(h.chairperson, voter))
}

func (h *harness) propose(t *testing.T, name string) *covenant.Proposal {
	proposal, err := h.engine.AddProposal(h.chairperson, name, "a matter put to the vote")
	require.NoError(t, err)
	return proposal
}

func (h *harness) summary(t *testing.T) *voting.Summary {
	summary, err := h.engine.GetVotingSummary()
	require.NoError(t, err)
	return summary
}

func (h *harness) closeWindow(t *testing.T) {
	h.clock.Set(h.summary(t).EndsAt)
}

func TestSessionInitialization(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		summary := h.summary(t)

		assert.Equal(t, h.chairperson, summary.Chairperson)
		assert.Equal(t, h.clock.Now().UTC(), summary.StartsAt)
		assert.Equal(t, h.clock.Now().UTC().Add(window), summary.EndsAt)
		assert.True(t, summary.Open)
		assert.False(t, summary.Finalized)
		assert.Zero(t, summary.Proposals)

		// the chairperson is registered automatically
		assert.Equal(t, uint64(1), summary.Voters)
	})
}

func TestSessionPersistsAcrossRestarts(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		clk := clock.NewMock()
		sessions := bstorage.NewSessions(db)
		voters := bstorage.NewVoters(collector, db)
		proposals := bstorage.NewProposals(collector, db)
		recorder := notifications.NewRecorder(bstorage.NewEvents(db), bstorage.NewSequences(db), clk, collector, notifications.NewNoopConsumer())

		chairperson := unittest.RandomAddressFixture()
		_, err := voting.New(unittest.Logger(), db, clk, collector, sessions, voters, proposals, recorder, chairperson, window, voting.DefaultMaxDelegationHops)
		require.NoError(t, err)

		// a different chairperson and window on restart do not replace the
		// persisted session
		restarted, err := voting.New(unittest.Logger(), db, clk, collector, sessions, voters, proposals, recorder, unittest.RandomAddressFixture(), time.Hour, voting.DefaultMaxDelegationHops)
		require.NoError(t, err)

		summary, err := restarted.GetVotingSummary()
		require.NoError(t, err)
		assert.Equal(t, chairperson, summary.Chairperson)
		assert.Equal(t, clk.Now().UTC().Add(window), summary.EndsAt)
		assert.Equal(t, uint64(1), summary.Voters)
	})
}

func TestSessionValidation(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		clk := clock.NewMock()
		sessions := bstorage.NewSessions(db)
		voters := bstorage.NewVoters(collector, db)
		proposals := bstorage.NewProposals(collector, db)
		recorder := notifications.NewRecorder(bstorage.NewEvents(db), bstorage.NewSequences(db), clk, collector, notifications.NewNoopConsumer())

		t.Run("zero chairperson", func(t *testing.T) {
			_, err := voting.New(unittest.Logger(), db, clk, collector, sessions, voters, proposals, recorder, covenant.ZeroAddress, window, voting.DefaultMaxDelegationHops)
			require.Error(t, err)
		})

		t.Run("non-positive window", func(t *testing.T) {
			_, err := voting.New(unittest.Logger(), db, clk, collector, sessions, voters, proposals, recorder, unittest.RandomAddressFixture(), 0, voting.DefaultMaxDelegationHops)
			require.Error(t, err)
		})
	})
}

func TestRegisterVoter(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()

		t.Run("only the chairperson registers", func(t *testing.T) {
			err := h.engine.RegisterVoter(alice, alice)
			require.True(t, cerrors.IsNotChairpersonError(err))
		})

		t.Run("zero address rejected", func(t *testing.T) {
			err := h.engine.RegisterVoter(h.chairperson, covenant.ZeroAddress)
			require.True(t, cerrors.IsZeroAddressError(err))
		})

		t.Run("registers with weight one", func(t *testing.T) {
			h.register(t, alice)
			assert.Equal(t, uint64(2), h.summary(t).Voters)

			log, err := h.events.ByType(covenant.EventVoterRegistered)
			require.NoError(t, err)
			require.Len(t, log, 1)

			var payload covenant.VoterRegisteredPayload
			require.NoError(t, covenant.DecodeEventPayload(log[0].Payload, &payload))
			assert.Equal(t, alice, payload.Voter)
			assert.Equal(t, uint64(1), payload.Weight)
		})

		t.Run("duplicate registration fails", func(t *testing.T) {
			err := h.engine.RegisterVoter(h.chairperson, alice)
			require.ErrorIs(t, err, storage.ErrAlreadyExists)
		})

		t.Run("registration stays open after the window closes", func(t *testing.T) {
			h.closeWindow(t)
			require.NoError(t, h.engine.RegisterVoter(h.chairperson, unittest.RandomAddressFixture()))
		})
	})
}

func TestRegisterVotersBatch(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		bob := unittest.RandomAddressFixture()

		t.Run("only the chairperson registers", func(t *testing.T) {
			_, err := h.engine.RegisterVotersBatch(alice, []covenant.Address{bob})
			require.True(t, cerrors.IsNotChairpersonError(err))
		})

		t.Run("skips zeros, repeats and known voters", func(t *testing.T) {
			batch := []covenant.Address{alice, covenant.ZeroAddress, bob, alice, h.chairperson}
			registered, err := h.engine.RegisterVotersBatch(h.chairperson, batch)
			require.NoError(t, err)
			assert.Equal(t, uint64(2), registered)
			assert.Equal(t, uint64(3), h.summary(t).Voters)

			log, err := h.events.ByType(covenant.EventVoterRegistered)
			require.NoError(t, err)
			assert.Len(t, log, 2)
		})

		t.Run("empty batch registers nobody", func(t *testing.T) {
			registered, err := h.engine.RegisterVotersBatch(h.chairperson, nil)
			require.NoError(t, err)
			assert.Zero(t, registered)
		})
	})
}

func TestAddProposal(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		t.Run("only the chairperson proposes", func(t *testing.T) {
			_, err := h.engine.AddProposal(unittest.RandomAddressFixture(), "alpha", "")
			require.True(t, cerrors.IsNotChairpersonError(err))
		})

		t.Run("proposals are position indexed", func(t *testing.T) {
			first := h.propose(t, "alpha")
			assert.Equal(t, uint64(0), first.Index)
			assert.Equal(t, h.chairperson, first.Proposer)
			assert.Equal(t, h.clock.Now().UTC(), first.CreatedAt)
			assert.Zero(t, first.VoteWeight)

			second := h.propose(t, "beta")
			assert.Equal(t, uint64(1), second.Index)
			assert.Equal(t, uint64(2), h.summary(t).Proposals)

			log, err := h.events.ByType(covenant.EventProposalAdded)
			require.NoError(t, err)
			require.Len(t, log, 2)

			var payload covenant.ProposalAddedPayload
			require.NoError(t, covenant.DecodeEventPayload(log[1].Payload, &payload))
			assert.Equal(t, uint64(1), payload.Index)
			assert.Equal(t, "beta", payload.Name)
		})

		t.Run("closed window rejects proposals", func(t *testing.T) {
			h.closeWindow(t)
			_, err := h.engine.AddProposal(h.chairperson, "late", "")
			require.True(t, cerrors.IsVotingNotActiveError(err))
		})
	})
}

func TestVote(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.propose(t, "alpha")
		h.propose(t, "beta")

		t.Run("unregistered voter rejected", func(t *testing.T) {
			err := h.engine.Vote(unittest.RandomAddressFixture(), 0)
			require.True(t, cerrors.IsVoterNotRegisteredError(err))
		})

		t.Run("unknown proposal rejected", func(t *testing.T) {
			err := h.engine.Vote(alice, 7)
			require.ErrorIs(t, err, storage.ErrNotFound)
		})

		t.Run("vote lands the full weight", func(t *testing.T) {
			require.NoError(t, h.engine.Vote(alice, 1))

			winning, err := h.engine.WinningProposal()
			require.NoError(t, err)
			assert.Equal(t, uint64(1), winning.Index)
			assert.Equal(t, uint64(1), winning.VoteWeight)

			log, err := h.events.ByType(covenant.EventVoteCast)
			require.NoError(t, err)
			require.Len(t, log, 1)

			var payload covenant.VoteCastPayload
			require.NoError(t, covenant.DecodeEventPayload(log[0].Payload, &payload))
			assert.Equal(t, alice, payload.Voter)
			assert.Equal(t, uint64(1), payload.Proposal)
			assert.Equal(t, uint64(1), payload.Weight)
		})

		t.Run("voting twice rejected", func(t *testing.T) {
			err := h.engine.Vote(alice, 0)
			require.True(t, cerrors.IsAlreadyVotedError(err))
		})

		t.Run("weights accumulate on the proposal", func(t *testing.T) {
			require.NoError(t, h.engine.Vote(h.chairperson, 1))

			winning, err := h.engine.WinningProposal()
			require.NoError(t, err)
			assert.Equal(t, uint64(2), winning.VoteWeight)
		})

		t.Run("closed window rejects votes", func(t *testing.T) {
			bob := unittest.RandomAddressFixture()
			h.register(t, bob)
			h.closeWindow(t)
			err := h.engine.Vote(bob, 0)
			require.True(t, cerrors.IsVotingNotActiveError(err))
		})
	})
}

func TestDelegateToUnvotedDelegate(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		bob := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.register(t, bob)
		h.propose(t, "alpha")

		require.NoError(t, h.engine.Delegate(alice, bob))

		log, err := h.events.ByType(covenant.EventVoteDelegated)
		require.NoError(t, err)
		require.Len(t, log, 1)

		var payload covenant.VoteDelegatedPayload
		require.NoError(t, covenant.DecodeEventPayload(log[0].Payload, &payload))
		assert.Equal(t, alice, payload.From)
		assert.Equal(t, bob, payload.To)
		assert.Equal(t, uint64(1), payload.Weight)
		assert.False(t, payload.Applied)

		// delegating spends alice's vote
		err = h.engine.Vote(alice, 0)
		require.True(t, cerrors.IsAlreadyVotedError(err))

		// bob now votes with both weights
		require.NoError(t, h.engine.Vote(bob, 0))
		winning, err := h.engine.WinningProposal()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), winning.VoteWeight)
	})
}

func TestDelegateToVotedDelegateCountsImmediately(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		bob := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.register(t, bob)
		h.propose(t, "alpha")

		require.NoError(t, h.engine.Vote(bob, 0))
		require.NoError(t, h.engine.Delegate(alice, bob))

		winning, err := h.engine.WinningProposal()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), winning.VoteWeight)

		log, err := h.events.ByType(covenant.EventVoteDelegated)
		require.NoError(t, err)
		require.Len(t, log, 1)

		var payload covenant.VoteDelegatedPayload
		require.NoError(t, covenant.DecodeEventPayload(log[0].Payload, &payload))
		assert.True(t, payload.Applied)
	})
}

func TestDelegationChainResolvesToFinalHolder(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		bob := unittest.RandomAddressFixture()
		carol := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.register(t, bob)
		h.register(t, carol)
		h.propose(t, "alpha")

		require.NoError(t, h.engine.Delegate(alice, bob))
		// carol delegates to alice, but alice already passed her weight on:
		// the chain resolves to bob
		require.NoError(t, h.engine.Delegate(carol, alice))

		log, err := h.events.ByType(covenant.EventVoteDelegated)
		require.NoError(t, err)
		require.Len(t, log, 2)

		var payload covenant.VoteDelegatedPayload
		require.NoError(t, covenant.DecodeEventPayload(log[1].Payload, &payload))
		assert.Equal(t, carol, payload.From)
		assert.Equal(t, bob, payload.To)

		require.NoError(t, h.engine.Vote(bob, 0))
		winning, err := h.engine.WinningProposal()
		require.NoError(t, err)
		assert.Equal(t, uint64(3), winning.VoteWeight)
	})
}

func TestDelegateValidation(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		bob := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.register(t, bob)
		h.propose(t, "alpha")

		t.Run("self delegation rejected", func(t *testing.T) {
			err := h.engine.Delegate(alice, alice)
			require.True(t, cerrors.IsSelfDelegationNotAllowedError(err))
		})

		t.Run("unregistered delegate rejected", func(t *testing.T) {
			err := h.engine.Delegate(alice, unittest.RandomAddressFixture())
			require.True(t, cerrors.IsVoterNotRegisteredError(err))
		})

		t.Run("unregistered caller rejected", func(t *testing.T) {
			err := h.engine.Delegate(unittest.RandomAddressFixture(), alice)
			require.True(t, cerrors.IsVoterNotRegisteredError(err))
		})

		t.Run("spent voter cannot delegate", func(t *testing.T) {
			require.NoError(t, h.engine.Vote(alice, 0))
			err := h.engine.Delegate(alice, bob)
			require.True(t, cerrors.IsAlreadyVotedError(err))
		})

		t.Run("closed window rejects delegation", func(t *testing.T) {
			h.closeWindow(t)
			err := h.engine.Delegate(bob, alice)
			require.True(t, cerrors.IsVotingNotActiveError(err))
		})
	})
}

func TestDelegationCycleFailsAndLeavesCallerFree(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		bob := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.register(t, bob)
		h.propose(t, "alpha")

		require.NoError(t, h.engine.Delegate(alice, bob))

		// bob delegating back to alice would close the loop
		err := h.engine.Delegate(bob, alice)
		require.True(t, cerrors.IsDelegationLoopDetectedError(err))

		// the rejected delegation did not spend bob's vote
		require.NoError(t, h.engine.Vote(bob, 0))
		winning, err := h.engine.WinningProposal()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), winning.VoteWeight)
	})
}

func TestDelegationHopLimit(t *testing.T) {
	runWithHopLimit(t, 2, func(h *harness) {
		v0 := unittest.RandomAddressFixture()
		v1 := unittest.RandomAddressFixture()
		v2 := unittest.RandomAddressFixture()
		u := unittest.RandomAddressFixture()
		walker1 := unittest.RandomAddressFixture()
		walker2 := unittest.RandomAddressFixture()
		for _, voter := range []covenant.Address{v0, v1, v2, u, walker1, walker2} {
			h.register(t, voter)
		}

		// deepest link first, so the stored records form a raw chain
		// v2 -> v1 -> v0 instead of compressing on write
		require.NoError(t, h.engine.Delegate(v2, v1))
		require.NoError(t, h.engine.Delegate(v1, v0))

		// two hops is exactly at the limit
		require.NoError(t, h.engine.Delegate(walker1, v2))

		// lengthen the chain beyond the limit
		require.NoError(t, h.engine.Delegate(v0, u))
		err := h.engine.Delegate(walker2, v2)
		require.True(t, cerrors.IsDelegationLoopDetectedError(err))

		// the failed walk did not spend walker2's vote
		require.NoError(t, h.engine.Delegate(walker2, u))
	})
}

func TestExtendVoting(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		originalEnd := h.summary(t).EndsAt

		t.Run("only the chairperson extends", func(t *testing.T) {
			err := h.engine.ExtendVoting(unittest.RandomAddressFixture(), time.Hour)
			require.True(t, cerrors.IsNotChairpersonError(err))
		})

		t.Run("extension must be positive", func(t *testing.T) {
			require.True(t, cerrors.IsInvalidAmountError(h.engine.ExtendVoting(h.chairperson, 0)))
			require.True(t, cerrors.IsInvalidAmountError(h.engine.ExtendVoting(h.chairperson, -time.Hour)))
		})

		t.Run("extension moves the deadline", func(t *testing.T) {
			require.NoError(t, h.engine.ExtendVoting(h.chairperson, 24*time.Hour))
			assert.Equal(t, originalEnd.Add(24*time.Hour), h.summary(t).EndsAt)

			log, err := h.events.ByType(covenant.EventVotingExtended)
			require.NoError(t, err)
			require.Len(t, log, 1)

			var payload covenant.VotingExtendedPayload
			require.NoError(t, covenant.DecodeEventPayload(log[0].Payload, &payload))
			assert.Equal(t, originalEnd.Add(24*time.Hour), payload.EndsAt)

			// the original deadline no longer closes the window
			h.clock.Set(originalEnd)
			assert.True(t, h.summary(t).Open)
		})

		t.Run("closed window rejects extension", func(t *testing.T) {
			h.closeWindow(t)
			err := h.engine.ExtendVoting(h.chairperson, time.Hour)
			require.True(t, cerrors.IsVotingNotActiveError(err))
		})

		t.Run("finalized session rejects extension", func(t *testing.T) {
			_, err := h.engine.Finalize(h.chairperson)
			require.NoError(t, err)
			err = h.engine.ExtendVoting(h.chairperson, time.Hour)
			require.True(t, cerrors.IsAlreadyFinalizedError(err))
		})
	})
}

func TestFinalize(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		alice := unittest.RandomAddressFixture()
		h.register(t, alice)
		h.propose(t, "alpha")
		h.propose(t, "beta")
		require.NoError(t, h.engine.Vote(h.chairperson, 1))
		require.NoError(t, h.engine.Vote(alice, 0))

		t.Run("open window rejects finalization", func(t *testing.T) {
			_, err := h.engine.Finalize(h.chairperson)
			require.True(t, cerrors.IsVotingStillActiveError(err))
		})

		t.Run("only the chairperson finalizes", func(t *testing.T) {
			h.closeWindow(t)
			_, err := h.engine.Finalize(alice)
			require.True(t, cerrors.IsNotChairpersonError(err))
		})

		t.Run("ties break to the lowest index", func(t *testing.T) {
			winner, err := h.engine.Finalize(h.chairperson)
			require.NoError(t, err)
			assert.Zero(t, winner)

			summary := h.summary(t)
			assert.True(t, summary.Finalized)
			assert.Zero(t, summary.Winner)

			log, err := h.events.ByType(covenant.EventVotingFinalized)
			require.NoError(t, err)
			require.Len(t, log, 1)

			var payload covenant.VotingFinalizedPayload
			require.NoError(t, covenant.DecodeEventPayload(log[0].Payload, &payload))
			assert.Zero(t, payload.Winner)
			assert.Equal(t, uint64(1), payload.VoteCount)
		})

		t.Run("finalizing twice rejected", func(t *testing.T) {
			_, err := h.engine.Finalize(h.chairperson)
			require.True(t, cerrors.IsAlreadyFinalizedError(err))
		})

		t.Run("winner is frozen", func(t *testing.T) {
			winning, err := h.engine.WinningProposal()
			require.NoError(t, err)
			assert.Equal(t, uint64(0), winning.Index)
			assert.Equal(t, "alpha", winning.Name)
		})
	})
}

func TestFinalizeEmptyBallot(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		h.closeWindow(t)

		winner, err := h.engine.Finalize(h.chairperson)
		require.NoError(t, err)
		assert.Zero(t, winner)

		_, err = h.engine.WinningProposal()
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestWinningProposal(t *testing.T) {
	runWithEngine(t, func(h *harness) {
		t.Run("empty ballot", func(t *testing.T) {
			_, err := h.engine.WinningProposal()
			require.ErrorIs(t, err, storage.ErrNotFound)
		})

		t.Run("live tally", func(t *testing.T) {
			h.propose(t, "alpha")
			h.propose(t, "beta")
			require.NoError(t, h.engine.Vote(h.chairperson, 1))

			winning, err := h.engine.WinningProposal()
			require.NoError(t, err)
			assert.Equal(t, uint64(1), winning.Index)
			assert.Equal(t, "beta", winning.Name)
		})
	})
}
