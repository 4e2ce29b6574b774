// Package escrow implements the two-party escrow engine: agreements between
// a buyer and a seller, with funds held by the engine until they are
// released, refunded, or arbitrated by a neutral third party.
package escrow

import (
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

// Engine is the escrow engine. One instance serves a deployment; the host
// serializes calls, and the call lock turns any re-entrant call into a
// ReentrancyDetected failure.
type Engine struct {
	log       zerolog.Logger
	db        *badger.DB
	clock     clock.Clock
	metrics   module.EngineMetrics
	escrows   storage.Escrows
	sequences storage.Sequences
	ledger    module.Ledger
	recorder  *notifications.Recorder
	lock      *guard.CallLock
	platform  covenant.Address
}

func New(
	log zerolog.Logger,
	db *badger.DB,
	clk clock.Clock,
	collector module.EngineMetrics,
	escrows storage.Escrows,
	sequences storage.Sequences,
	ledger module.Ledger,
	recorder *notifications.Recorder,
	platform covenant.Address,
) *Engine {
	e := &Engine{
		log:       log.With().Str("engine", metrics.EngineEscrow).Logger(),
		db:        db,
		clock:     clk,
		metrics:   collector,
		escrows:   escrows,
		sequences: sequences,
		ledger:    ledger,
		recorder:  recorder,
		lock:      guard.NewCallLock(metrics.EngineEscrow),
		platform:  platform,
	}
	return e
}

// report translates the outcome of one operation into engine metrics.
// OperationFailed tracks coded rejections only; exceptions are not counted.
func (e *Engine) report(op string, err error) {
	if err == nil {
		e.metrics.OperationExecuted(metrics.EngineEscrow, op)
		return
	}
	if cerrors.IsCodedFailure(err) {
		e.metrics.OperationFailed(metrics.EngineEscrow, op)
	}
}

// CreateEscrow opens a new agreement between the caller (the buyer) and the
// seller, arbitrated by the arbiter. Creation and funding are one atomic
// step: the returned agreement is already Funded, holding amount.
//
// Expected failures:
//   - ZeroAddress when seller or arbiter is empty
//   - InvalidDeadline when the duration is below MinEscrowDuration
//   - InvalidAmount when amount is zero
func (e *Engine) CreateEscrow(
	caller covenant.Address,
	seller covenant.Address,
	arbiter covenant.Address,
	duration time.Duration,
	description string,
	amount uint64,
) (agreement *covenant.EscrowAgreement, err error) {
	defer func() { e.report(metrics.OperationCreateEscrow, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if seller.IsZero() {
		return nil, cerrors.NewZeroAddressError("seller")
	}
	if arbiter.IsZero() {
		return nil, cerrors.NewZeroAddressError("arbiter")
	}
	if duration < covenant.MinEscrowDuration {
		return nil, cerrors.NewInvalidDeadlineError(duration, covenant.MinEscrowDuration)
	}
	if amount == 0 {
		return nil, cerrors.NewInvalidAmountError("escrow must hold a positive amount")
	}

	now := e.clock.Now().UTC()
	escrow := &covenant.EscrowAgreement{
		Buyer:       caller,
		Seller:      seller,
		Arbiter:     arbiter,
		Amount:      amount,
		CreatedAt:   now,
		Deadline:    now.Add(duration),
		State:       covenant.EscrowStateFunded,
		Description: description,
	}

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.sequences.NextTx(storage.SequenceEscrowID, &escrow.ID)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not allocate escrow ID: %w", err)
		}
		err = e.escrows.StoreTx(escrow)(tx)
		if err != nil {
			return fmt.Errorf("could not store escrow: %w", err)
		}
		return e.recorder.Append(covenant.EventEscrowCreated, &covenant.EscrowCreatedPayload{
			EscrowID: escrow.ID,
			Buyer:    caller,
			Seller:   seller,
			Arbiter:  arbiter,
			Amount:   amount,
			Deadline: escrow.Deadline,
		})(tx)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("escrow_id", escrow.ID).
		Hex("buyer", logging.Address(caller)).
		Hex("seller", logging.Address(seller)).
		Uint64("amount", amount).
		Msg("escrow created")
	return escrow, nil
}

// Release settles the agreement in the seller's favor. Only the buyer may
// release, and only while the agreement is Funded. The platform fee is
// deducted from the amount; seller and platform are credited through the
// ledger and collect via withdrawal.
//
// Expected failures:
//   - Unauthorized when the caller is not the agreement's buyer
//   - InvalidState when the agreement is not Funded
func (e *Engine) Release(caller covenant.Address, escrowID uint64) (err error) {
	defer func() { e.report(metrics.OperationRelease, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	stored, err := e.escrows.ByID(escrowID)
	if err != nil {
		return fmt.Errorf("could not retrieve escrow %d: %w", escrowID, err)
	}
	if caller != stored.Buyer {
		return cerrors.NewUnauthorizedError(caller, "buyer")
	}
	if stored.State != covenant.EscrowStateFunded {
		return cerrors.NewInvalidStateError(stored.State, covenant.EscrowStateFunded)
	}

	// the store shares cached pointers, mutate a copy
	escrow := *stored
	escrow.State = covenant.EscrowStateReleased
	fee := covenant.Fee(escrow.Amount, covenant.EscrowFeeBps)
	sellerAmount := escrow.Amount - fee

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		// the state transition is staged before the credits
		err := e.escrows.UpdateTx(&escrow)(tx)
		if err != nil {
			return fmt.Errorf("could not update escrow: %w", err)
		}
		err = e.ledger.CreditTx(escrow.Seller, sellerAmount)(tx)
		if err != nil {
			return fmt.Errorf("could not credit seller: %w", err)
		}
		err = e.ledger.CreditTx(e.platform, fee)(tx)
		if err != nil {
			return fmt.Errorf("could not credit platform: %w", err)
		}
		return e.recorder.Append(covenant.EventEscrowReleased, &covenant.EscrowReleasedPayload{
			EscrowID:     escrow.ID,
			Seller:       escrow.Seller,
			SellerAmount: sellerAmount,
			Fee:          fee,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.metrics.ValueSettled(metrics.EngineEscrow, escrow.Amount)
	e.log.Info().
		Uint64("escrow_id", escrow.ID).
		Uint64("seller_amount", sellerAmount).
		Uint64("fee", fee).
		Msg("escrow released")
	return nil
}

// Refund returns the full amount to the buyer. The seller may refund at any
// time while the agreement is Funded; the buyer only once the deadline has
// been reached (the deadline instant itself counts as reached).
//
// Expected failures:
//   - Unauthorized when the caller is neither buyer nor seller
//   - InvalidState when the agreement is not Funded
//   - DeadlineNotReached when the buyer refunds before the deadline
func (e *Engine) Refund(caller covenant.Address, escrowID uint64) (err error) {
	defer func() { e.report(metrics.OperationRefund, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	stored, err := e.escrows.ByID(escrowID)
	if err != nil {
		return fmt.Errorf("could not retrieve escrow %d: %w", escrowID, err)
	}
	if caller != stored.Seller && caller != stored.Buyer {
		return cerrors.NewUnauthorizedError(caller, "buyer or seller")
	}
	if stored.State != covenant.EscrowStateFunded {
		return cerrors.NewInvalidStateError(stored.State, covenant.EscrowStateFunded)
	}
	// the seller may always walk away from the deal; the buyer must wait out
	// the deadline
	if caller != stored.Seller && !stored.Expired(e.clock.Now()) {
		return cerrors.NewDeadlineNotReachedError(escrowID)
	}

	escrow := *stored
	escrow.State = covenant.EscrowStateRefunded

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.escrows.UpdateTx(&escrow)(tx)
		if err != nil {
			return fmt.Errorf("could not update escrow: %w", err)
		}
		err = e.ledger.CreditTx(escrow.Buyer, escrow.Amount)(tx)
		if err != nil {
			return fmt.Errorf("could not credit buyer: %w", err)
		}
		return e.recorder.Append(covenant.EventEscrowRefunded, &covenant.EscrowRefundedPayload{
			EscrowID: escrow.ID,
			Buyer:    escrow.Buyer,
			Amount:   escrow.Amount,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.metrics.ValueSettled(metrics.EngineEscrow, escrow.Amount)
	e.log.Info().
		Uint64("escrow_id", escrow.ID).
		Uint64("amount", escrow.Amount).
		Msg("escrow refunded")
	return nil
}

// RaiseDispute freezes a Funded agreement for arbitration. Either trading
// party may raise it; the funds stay locked until the arbiter resolves.
//
// Expected failures:
//   - Unauthorized when the caller is neither buyer nor seller
//   - InvalidState when the agreement is not Funded
func (e *Engine) RaiseDispute(caller covenant.Address, escrowID uint64) (err error) {
	defer func() { e.report(metrics.OperationRaiseDispute, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	stored, err := e.escrows.ByID(escrowID)
	if err != nil {
		return fmt.Errorf("could not retrieve escrow %d: %w", escrowID, err)
	}
	if caller != stored.Buyer && caller != stored.Seller {
		return cerrors.NewUnauthorizedError(caller, "buyer or seller")
	}
	if stored.State != covenant.EscrowStateFunded {
		return cerrors.NewInvalidStateError(stored.State, covenant.EscrowStateFunded)
	}

	escrow := *stored
	escrow.State = covenant.EscrowStateDisputed

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.escrows.UpdateTx(&escrow)(tx)
		if err != nil {
			return fmt.Errorf("could not update escrow: %w", err)
		}
		return e.recorder.Append(covenant.EventEscrowDisputed, &covenant.EscrowDisputedPayload{
			EscrowID: escrow.ID,
			RaisedBy: caller,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Uint64("escrow_id", escrow.ID).
		Hex("raised_by", logging.Address(caller)).
		Msg("escrow disputed")
	return nil
}

// ResolveDispute settles a Disputed agreement in favor of the recipient, who
// must be the agreement's buyer or seller. Only the arbiter may resolve. The
// platform fee is deducted exactly as on release.
//
// Expected failures:
//   - Unauthorized when the caller is not the arbiter, or the recipient is
//     neither buyer nor seller
//   - InvalidState when the agreement is not Disputed
func (e *Engine) ResolveDispute(caller covenant.Address, escrowID uint64, recipient covenant.Address) (err error) {
	defer func() { e.report(metrics.OperationResolveDispute, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	stored, err := e.escrows.ByID(escrowID)
	if err != nil {
		return fmt.Errorf("could not retrieve escrow %d: %w", escrowID, err)
	}
	if caller != stored.Arbiter {
		return cerrors.NewUnauthorizedError(caller, "arbiter")
	}
	if stored.State != covenant.EscrowStateDisputed {
		return cerrors.NewInvalidStateError(stored.State, covenant.EscrowStateDisputed)
	}
	if recipient != stored.Buyer && recipient != stored.Seller {
		return cerrors.NewUnauthorizedError(recipient, "buyer or seller")
	}

	escrow := *stored
	escrow.State = covenant.EscrowStateResolved
	fee := covenant.Fee(escrow.Amount, covenant.EscrowFeeBps)
	winnerAmount := escrow.Amount - fee

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.escrows.UpdateTx(&escrow)(tx)
		if err != nil {
			return fmt.Errorf("could not update escrow: %w", err)
		}
		err = e.ledger.CreditTx(recipient, winnerAmount)(tx)
		if err != nil {
			return fmt.Errorf("could not credit recipient: %w", err)
		}
		err = e.ledger.CreditTx(e.platform, fee)(tx)
		if err != nil {
			return fmt.Errorf("could not credit platform: %w", err)
		}
		return e.recorder.Append(covenant.EventEscrowResolved, &covenant.EscrowResolvedPayload{
			EscrowID:         escrow.ID,
			Arbiter:          caller,
			Winner:           recipient,
			WinnerAmount:     winnerAmount,
			Fee:              fee,
			ReleasedToSeller: recipient == escrow.Seller,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.metrics.ValueSettled(metrics.EngineEscrow, escrow.Amount)
	e.log.Info().
		Uint64("escrow_id", escrow.ID).
		Hex("winner", logging.Address(recipient)).
		Uint64("fee", fee).
		Msg("dispute resolved")
	return nil
}

// GetEscrow returns the agreement with the given ID. Fails with
// storage.ErrNotFound if no such agreement exists.
func (e *Engine) GetEscrow(escrowID uint64) (*covenant.EscrowAgreement, error) {
	return e.escrows.ByID(escrowID)
}

// IsExpired returns true once the agreement's deadline has been reached.
func (e *Engine) IsExpired(escrowID uint64) (bool, error) {
	escrow, err := e.escrows.ByID(escrowID)
	if err != nil {
		return false, fmt.Errorf("could not retrieve escrow %d: %w", escrowID, err)
	}
	return escrow.Expired(e.clock.Now()), nil
}

// WithdrawPlatformFees pays out the accumulated platform fees. Only the
// platform admin may collect them.
//
// Expected failures:
//   - Unauthorized when the caller is not the platform admin
//   - NoPendingWithdrawals when no fees have accumulated
//   - TransferFailed when the host transfer reports an error
func (e *Engine) WithdrawPlatformFees(caller covenant.Address) (amount uint64, err error) {
	defer func() { e.report(metrics.OperationWithdrawPlatformFees, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return 0, err
	}
	defer unlock()

	if caller != e.platform {
		return 0, cerrors.NewUnauthorizedError(caller, "platform admin")
	}
	return e.ledger.Withdraw(e.platform)
}
