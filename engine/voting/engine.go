// Package voting implements the delegated voting engine: a single weighted
// ballot with chairperson-managed registration, transitive delegation and a
// tally frozen by finalization.
package voting

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	cerrors "github.com/covenantnet/covenant-go/engine/errors"
	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/guard"
	"github.com/covenantnet/covenant-go/module/metrics"
	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
	"github.com/covenantnet/covenant-go/utils/logging"
)

// DefaultMaxDelegationHops bounds the delegation chain walk. Unbounded
// chain-following is a resource-exhaustion vector; exceeding the cap fails
// the call explicitly instead of silently truncating influence.
const DefaultMaxDelegationHops = 50

// Summary is a read-only snapshot of the session for host dashboards.
type Summary struct {
	Chairperson covenant.Address
	StartsAt    time.Time
	EndsAt      time.Time
	Open        bool
	Finalized   bool
	// Winner is only meaningful once Finalized is true.
	Winner    uint64
	Proposals uint64
	Voters    uint64
}

// Engine is the voting engine. One instance serves one voting session.
type Engine struct {
	log       zerolog.Logger
	db        *badger.DB
	clock     clock.Clock
	metrics   module.EngineMetrics
	sessions  storage.Sessions
	voters    storage.Voters
	proposals storage.Proposals
	recorder  *notifications.Recorder
	lock      *guard.CallLock
	maxHops   uint
}

// New creates the voting engine. On first run it initializes the session
// record: the voting window opens immediately and runs for the given
// duration, and the chairperson is registered as a voter with weight 1. On
// later runs the persisted session wins and the arguments are ignored.
func New(
	log zerolog.Logger,
	db *badger.DB,
	clk clock.Clock,
	collector module.EngineMetrics,
	sessions storage.Sessions,
	voters storage.Voters,
	proposals storage.Proposals,
	recorder *notifications.Recorder,
	chairperson covenant.Address,
	window time.Duration,
	maxHops uint,
) (*Engine, error) {
	e := &Engine{
		log:       log.With().Str("engine", metrics.EngineVoting).Logger(),
		db:        db,
		clock:     clk,
		metrics:   collector,
		sessions:  sessions,
		voters:    voters,
		proposals: proposals,
		recorder:  recorder,
		lock:      guard.NewCallLock(metrics.EngineVoting),
		maxHops:   maxHops,
	}

	_, err := sessions.Retrieve()
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("could not retrieve voting session: %w", err)
	}

	if chairperson.IsZero() {
		return nil, fmt.Errorf("chairperson must not be the zero address")
	}
	if window <= 0 {
		return nil, fmt.Errorf("voting window must be positive (%s)", window)
	}

	now := clk.Now().UTC()
	session := &covenant.VotingSession{
		Chairperson: chairperson,
		StartsAt:    now,
		EndsAt:      now.Add(window),
	}
	chair := &covenant.Voter{
		Address: chairperson,
		Weight:  1,
	}
	err = operation.RetryOnConflictTx(db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.sessions.StoreTx(session)(tx)
		if err != nil {
			return fmt.Errorf("could not store session: %w", err)
		}
		return e.voters.StoreTx(chair)(tx)
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize voting session: %w", err)
	}

	e.log.Info().
		Hex("chairperson", logging.Address(chairperson)).
		Time("ends_at", session.EndsAt).
		Msg("voting session initialized")
	return e, nil
}

// report translates the outcome of one operation into engine metrics.
// OperationFailed tracks coded rejections only; exceptions are not counted.
func (e *Engine) report(op string, err error) {
	if err == nil {
		e.metrics.OperationExecuted(metrics.EngineVoting, op)
		return
	}
	if cerrors.IsCodedFailure(err) {
		e.metrics.OperationFailed(metrics.EngineVoting, op)
	}
}

// RegisterVoter registers one voter with weight 1. Only the chairperson may
// register. Fails with storage.ErrAlreadyExists if the voter is already
// registered.
//
// Expected failures:
//   - NotChairperson when the caller is not the session chairperson
//   - ZeroAddress when the voter address is empty
func (e *Engine) RegisterVoter(caller covenant.Address, voter covenant.Address) (err error) {
	defer func() { e.report(metrics.OperationRegisterVoter, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return fmt.Errorf("could not retrieve session: %w", err)
	}
	if caller != session.Chairperson {
		return cerrors.NewNotChairpersonError(caller)
	}
	if voter.IsZero() {
		return cerrors.NewZeroAddressError("voter")
	}

	record := &covenant.Voter{
		Address: voter,
		Weight:  1,
	}
	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.voters.StoreTx(record)(tx)
		if err != nil {
			return fmt.Errorf("could not register voter %s: %w", voter, err)
		}
		return e.recorder.Append(covenant.EventVoterRegistered, &covenant.VoterRegisteredPayload{
			Voter:  voter,
			Weight: record.Weight,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().Hex("voter", logging.Address(voter)).Msg("voter registered")
	return nil
}

// RegisterVotersBatch registers many voters in one call and returns how many
// were actually added. The batch is best-effort by design: already-registered
// and zero addresses are skipped silently instead of failing the whole batch.
//
// Expected failures:
//   - NotChairperson when the caller is not the session chairperson
func (e *Engine) RegisterVotersBatch(caller covenant.Address, voterList []covenant.Address) (registered uint64, err error) {
	defer func() { e.report(metrics.OperationRegisterVotersBatch, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return 0, err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve session: %w", err)
	}
	if caller != session.Chairperson {
		return 0, cerrors.NewNotChairpersonError(caller)
	}

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		registered = 0
		for _, address := range voterList {
			if address.IsZero() {
				continue
			}
			record := &covenant.Voter{
				Address: address,
				Weight:  1,
			}
			err := e.voters.StoreTx(record)(tx)
			if errors.Is(err, storage.ErrAlreadyExists) {
				continue
			}
			if err != nil {
				return fmt.Errorf("could not register voter %s: %w", address, err)
			}
			err = e.recorder.Append(covenant.EventVoterRegistered, &covenant.VoterRegisteredPayload{
				Voter:  address,
				Weight: record.Weight,
			})(tx)
			if err != nil {
				return err
			}
			registered++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.log.Info().
		Int("batch_size", len(voterList)).
		Uint64("registered", registered).
		Strs("voters", logging.Addresses(voterList)).
		Msg("voter batch registered")
	return registered, nil
}

// AddProposal puts a new option on the ballot at the next index. Only the
// chairperson may add proposals, and only while the window is open.
//
// Expected failures:
//   - NotChairperson when the caller is not the session chairperson
//   - VotingNotActive when the voting window has closed
func (e *Engine) AddProposal(caller covenant.Address, name string, description string) (proposal *covenant.Proposal, err error) {
	defer func() { e.report(metrics.OperationAddProposal, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve session: %w", err)
	}
	if caller != session.Chairperson {
		return nil, cerrors.NewNotChairpersonError(caller)
	}
	if !session.Open(e.clock.Now()) {
		return nil, cerrors.NewVotingNotActiveError()
	}

	existing, err := e.proposals.All()
	if err != nil {
		return nil, fmt.Errorf("could not count proposals: %w", err)
	}

	proposal = &covenant.Proposal{
		Index:       uint64(len(existing)),
		Name:        name,
		Description: description,
		Proposer:    caller,
		CreatedAt:   e.clock.Now().UTC(),
	}
	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.proposals.StoreTx(proposal)(tx)
		if err != nil {
			return fmt.Errorf("could not store proposal: %w", err)
		}
		return e.recorder.Append(covenant.EventProposalAdded, &covenant.ProposalAddedPayload{
			Index: proposal.Index,
			Name:  proposal.Name,
		})(tx)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("index", proposal.Index).
		Str("name", proposal.Name).
		Msg("proposal added")
	return proposal, nil
}

// Vote casts the caller's full weight for the proposal at the given index.
// Voting is terminal: a voter acts at most once per session. Fails with
// storage.ErrNotFound if no proposal exists at the index.
//
// Expected failures:
//   - VotingNotActive when the voting window has closed
//   - VoterNotRegistered when the caller was never registered
//   - AlreadyVoted when the caller has voted or delegated before
func (e *Engine) Vote(caller covenant.Address, proposalIndex uint64) (err error) {
	defer func() { e.report(metrics.OperationVote, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return fmt.Errorf("could not retrieve session: %w", err)
	}
	if !session.Open(e.clock.Now()) {
		return cerrors.NewVotingNotActiveError()
	}

	storedVoter, err := e.voters.ByAddress(caller)
	if errors.Is(err, storage.ErrNotFound) {
		return cerrors.NewVoterNotRegisteredError(caller)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve voter %s: %w", caller, err)
	}
	if storedVoter.Voted {
		return cerrors.NewAlreadyVotedError(caller)
	}

	storedProposal, err := e.proposals.ByIndex(proposalIndex)
	if err != nil {
		return fmt.Errorf("could not retrieve proposal %d: %w", proposalIndex, err)
	}

	// the stores share cached pointers, mutate copies
	voter := *storedVoter
	voter.Voted = true
	voter.Choice = proposalIndex
	proposal := *storedProposal
	proposal.VoteWeight += voter.Weight

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.voters.UpdateTx(&voter)(tx)
		if err != nil {
			return fmt.Errorf("could not update voter: %w", err)
		}
		err = e.proposals.UpdateTx(&proposal)(tx)
		if err != nil {
			return fmt.Errorf("could not update proposal: %w", err)
		}
		return e.recorder.Append(covenant.EventVoteCast, &covenant.VoteCastPayload{
			Voter:    caller,
			Proposal: proposalIndex,
			Weight:   voter.Weight,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Hex("voter", logging.Address(caller)).
		Uint64("proposal", proposalIndex).
		Uint64("weight", voter.Weight).
		Msg("vote cast")
	return nil
}

// Delegate assigns the caller's full weight to another voter, following any
// chain of prior delegations to its final holder. If that final delegate has
// already voted, the weight lands on their chosen proposal immediately;
// otherwise it accumulates on the final delegate. Delegating is terminal for
// the caller, exactly like voting.
//
// The chain walk is capped: a cycle back to the caller or a chain longer
// than the hop limit fails the whole call, leaving the caller free to act
// again.
//
// Expected failures:
//   - VotingNotActive when the voting window has closed
//   - VoterNotRegistered when caller or target was never registered
//   - AlreadyVoted when the caller has voted or delegated before
//   - SelfDelegationNotAllowed when the caller delegates to themselves
//   - DelegationLoopDetected when the chain cycles or exceeds the hop limit
func (e *Engine) Delegate(caller covenant.Address, to covenant.Address) (err error) {
	defer func() { e.report(metrics.OperationDelegate, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return fmt.Errorf("could not retrieve session: %w", err)
	}
	if !session.Open(e.clock.Now()) {
		return cerrors.NewVotingNotActiveError()
	}

	storedCaller, err := e.voters.ByAddress(caller)
	if errors.Is(err, storage.ErrNotFound) {
		return cerrors.NewVoterNotRegisteredError(caller)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve voter %s: %w", caller, err)
	}
	if storedCaller.Voted {
		return cerrors.NewAlreadyVotedError(caller)
	}
	if to == caller {
		return cerrors.NewSelfDelegationNotAllowedError(caller)
	}

	final, err := e.voters.ByAddress(to)
	if errors.Is(err, storage.ErrNotFound) {
		return cerrors.NewVoterNotRegisteredError(to)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve voter %s: %w", to, err)
	}

	// follow the chain to the final delegate; every existing chain is
	// acyclic, so any cycle must pass through the caller
	hops := uint(0)
	for !final.Delegate.IsZero() {
		hops++
		if hops > e.maxHops {
			return cerrors.NewDelegationLoopDetectedError(caller, int(e.maxHops))
		}
		next := final.Delegate
		if next == caller {
			return cerrors.NewDelegationLoopDetectedError(caller, int(e.maxHops))
		}
		final, err = e.voters.ByAddress(next)
		if err != nil {
			return fmt.Errorf("could not follow delegation to %s: %w", next, err)
		}
	}

	delegator := *storedCaller
	delegator.Voted = true
	delegator.Delegate = final.Address
	applied := final.Voted

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.voters.UpdateTx(&delegator)(tx)
		if err != nil {
			return fmt.Errorf("could not update delegator: %w", err)
		}

		if applied {
			// the final delegate has voted: the weight counts immediately
			// instead of sitting idle on a spent voter
			storedProposal, err := e.proposals.ByIndex(final.Choice)
			if err != nil {
				return fmt.Errorf("could not retrieve proposal %d: %w", final.Choice, err)
			}
			proposal := *storedProposal
			proposal.VoteWeight += delegator.Weight
			err = e.proposals.UpdateTx(&proposal)(tx)
			if err != nil {
				return fmt.Errorf("could not update proposal: %w", err)
			}
		} else {
			target := *final
			target.Weight += delegator.Weight
			err = e.voters.UpdateTx(&target)(tx)
			if err != nil {
				return fmt.Errorf("could not update delegate: %w", err)
			}
		}

		return e.recorder.Append(covenant.EventVoteDelegated, &covenant.VoteDelegatedPayload{
			From:    caller,
			To:      final.Address,
			Weight:  delegator.Weight,
			Applied: applied,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Hex("from", logging.Address(caller)).
		Hex("to", logging.Address(final.Address)).
		Uint64("weight", delegator.Weight).
		Bool("applied", applied).
		Msg("vote delegated")
	return nil
}

// ExtendVoting pushes the end of the voting window out by extra. Only the
// chairperson may extend, and only while the window is still open.
//
// Expected failures:
//   - NotChairperson when the caller is not the session chairperson
//   - AlreadyFinalized when the session is finalized
//   - VotingNotActive when the voting window has already closed
//   - InvalidAmount when the extension is not positive
func (e *Engine) ExtendVoting(caller covenant.Address, extra time.Duration) (err error) {
	defer func() { e.report(metrics.OperationExtendVoting, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return fmt.Errorf("could not retrieve session: %w", err)
	}
	if caller != session.Chairperson {
		return cerrors.NewNotChairpersonError(caller)
	}
	if session.Finalized {
		return cerrors.NewAlreadyFinalizedError()
	}
	if !session.Open(e.clock.Now()) {
		return cerrors.NewVotingNotActiveError()
	}
	if extra <= 0 {
		return cerrors.NewInvalidAmountError("voting extension %s must be positive", extra)
	}

	updated := *session
	updated.EndsAt = session.EndsAt.Add(extra)

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.sessions.UpdateTx(&updated)(tx)
		if err != nil {
			return fmt.Errorf("could not update session: %w", err)
		}
		return e.recorder.Append(covenant.EventVotingExtended, &covenant.VotingExtendedPayload{
			EndsAt: updated.EndsAt,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().Time("ends_at", updated.EndsAt).Msg("voting extended")
	return nil
}

// Finalize freezes the winning proposal permanently. Only the chairperson
// may finalize, only after the window has closed, and only once.
//
// Expected failures:
//   - NotChairperson when the caller is not the session chairperson
//   - AlreadyFinalized when the session is already finalized
//   - VotingStillActive when the voting window has not closed yet
func (e *Engine) Finalize(caller covenant.Address) (winner uint64, err error) {
	defer func() { e.report(metrics.OperationFinalize, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return 0, err
	}
	defer unlock()

	session, err := e.sessions.Retrieve()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve session: %w", err)
	}
	if caller != session.Chairperson {
		return 0, cerrors.NewNotChairpersonError(caller)
	}
	if session.Finalized {
		return 0, cerrors.NewAlreadyFinalizedError()
	}
	if e.clock.Now().Before(session.EndsAt) {
		return 0, cerrors.NewVotingStillActiveError()
	}

	list, err := e.proposals.All()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve proposals: %w", err)
	}
	winner, voteCount := winningIndex(list)

	updated := *session
	updated.Finalized = true
	updated.Winner = winner

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.sessions.UpdateTx(&updated)(tx)
		if err != nil {
			return fmt.Errorf("could not update session: %w", err)
		}
		return e.recorder.Append(covenant.EventVotingFinalized, &covenant.VotingFinalizedPayload{
			Winner:    winner,
			VoteCount: voteCount,
		})(tx)
	})
	if err != nil {
		return 0, err
	}

	e.log.Info().
		Uint64("winner", winner).
		Uint64("vote_count", voteCount).
		Msg("voting finalized")
	return winner, nil
}

// WinningProposal returns the proposal leading the tally, or the frozen
// winner once the session is finalized. Ties break to the lowest index.
// Fails with storage.ErrNotFound when the ballot is empty.
func (e *Engine) WinningProposal() (*covenant.Proposal, error) {
	session, err := e.sessions.Retrieve()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve session: %w", err)
	}
	if session.Finalized {
		return e.proposals.ByIndex(session.Winner)
	}

	list, err := e.proposals.All()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve proposals: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("ballot is empty: %w", storage.ErrNotFound)
	}
	winner, _ := winningIndex(list)
	return e.proposals.ByIndex(winner)
}

// GetVotingSummary returns a snapshot of the session state.
func (e *Engine) GetVotingSummary() (*Summary, error) {
	session, err := e.sessions.Retrieve()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve session: %w", err)
	}
	voterCount, err := e.voters.Count()
	if err != nil {
		return nil, fmt.Errorf("could not count voters: %w", err)
	}
	list, err := e.proposals.All()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve proposals: %w", err)
	}

	summary := &Summary{
		Chairperson: session.Chairperson,
		StartsAt:    session.StartsAt,
		EndsAt:      session.EndsAt,
		Open:        session.Open(e.clock.Now()),
		Finalized:   session.Finalized,
		Winner:      session.Winner,
		Proposals:   uint64(len(list)),
		Voters:      voterCount,
	}
	return summary, nil
}

// winningIndex scans for the proposal with the highest accumulated weight
// and returns its index and weight. The first maximum wins, so ties break to
// the lowest index. An empty ballot yields index 0.
func winningIndex(proposals []*covenant.Proposal) (uint64, uint64) {
	var winner uint64
	var best uint64
	for _, proposal := range proposals {
		if proposal.VoteWeight > best {
			best = proposal.VoteWeight
			winner = proposal.Index
		}
	}
	return winner, best
}
