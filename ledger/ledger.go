package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	cerrors "github.com/covenantnet/covenant-go/engine/errors"
	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/guard"
	"github.com/covenantnet/covenant-go/module/irrecoverable"
	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
	"github.com/covenantnet/covenant-go/utils/logging"
)

// Ledger tracks funds owed to principals and pays them out strictly on
// request (pull payments). Engines credit accounts as part of their
// settlement transactions; holders withdraw the accumulated balance in a
// separate call.
type Ledger struct {
	log        zerolog.Logger
	db         *badger.DB
	accounts   storage.Accounts
	recorder   *notifications.Recorder
	lock       *guard.CallLock
	transferor module.Transferor
	metrics    module.LedgerMetrics
}

func New(
	log zerolog.Logger,
	db *badger.DB,
	accounts storage.Accounts,
	recorder *notifications.Recorder,
	transferor module.Transferor,
	collector module.LedgerMetrics,
) *Ledger {
	l := &Ledger{
		log:        log.With().Str("component", "ledger").Logger(),
		db:         db,
		accounts:   accounts,
		recorder:   recorder,
		lock:       guard.NewCallLock("ledger"),
		transferor: transferor,
		metrics:    collector,
	}
	return l
}

// CreditTx returns an operation crediting amount to the payee within the
// caller's settlement transaction. Crediting zero is a no-op, so fee splits
// that round down to nothing do not create empty accounts.
func (l *Ledger) CreditTx(payee covenant.Address, amount uint64) func(*transaction.Tx) error {
	return func(tx *transaction.Tx) error {
		if amount == 0 {
			return nil
		}

		var account covenant.Account
		err := l.accounts.RetrieveTx(payee, &account)(tx.DBTxn)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not retrieve account: %w", err)
		}

		if account.PendingWithdrawal > math.MaxUint64-amount {
			return irrecoverable.NewExceptionf(
				"crediting %d to %s overflows pending balance %d",
				amount, payee, account.PendingWithdrawal)
		}

		account.Address = payee
		account.PendingWithdrawal += amount
		err = l.accounts.UpsertTx(&account)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not upsert account: %w", err)
		}

		err = l.recorder.Append(covenant.EventFundsCredited, &covenant.FundsCreditedPayload{
			Payee:   payee,
			Amount:  amount,
			Balance: account.PendingWithdrawal,
		})(tx)
		if err != nil {
			return err
		}

		tx.OnSucceed(func() {
			l.metrics.FundsCredited(amount)
		})
		return nil
	}
}

// Credit credits amount to the payee in its own transaction. Settlements use
// CreditTx instead, so the credit commits or aborts with the rest of the
// call.
func (l *Ledger) Credit(payee covenant.Address, amount uint64) error {
	return operation.RetryOnConflictTx(l.db, transaction.Update, l.CreditTx(payee, amount))
}

// Withdraw pays out the caller's full pending balance in one atomic step:
// the balance is zeroed, the withdrawal is logged and the outbound transfer
// runs as the last step of the same transaction. A failed transfer discards
// every mutation, so the balance stays withdrawable.
//
// The transaction is deliberately not retried on conflict: the transfer must
// run at most once per call.
//
// Expected failures:
//   - ReentrancyDetected when called re-entrantly, e.g. from within the
//     host transfer it triggered
//   - NoPendingWithdrawals when nothing is owed to the caller
//   - TransferFailed when the host transfer reports an error
func (l *Ledger) Withdraw(caller covenant.Address) (uint64, error) {
	release, err := l.lock.Acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	var amount uint64
	err = transaction.Update(l.db, func(tx *transaction.Tx) error {
		var account covenant.Account
		err := l.accounts.RetrieveTx(caller, &account)(tx.DBTxn)
		if errors.Is(err, storage.ErrNotFound) {
			return cerrors.NewNoPendingWithdrawalsError(caller)
		}
		if err != nil {
			return fmt.Errorf("could not retrieve account: %w", err)
		}
		if account.PendingWithdrawal == 0 {
			return cerrors.NewNoPendingWithdrawalsError(caller)
		}

		amount = account.PendingWithdrawal
		account.PendingWithdrawal = 0
		err = l.accounts.UpsertTx(&account)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not zero account: %w", err)
		}

		err = l.recorder.Append(covenant.EventFundsWithdrawn, &covenant.FundsWithdrawnPayload{
			Payee:  caller,
			Amount: amount,
		})(tx)
		if err != nil {
			return err
		}

		// every state mutation is staged before the transfer runs; the call
		// lock stays held, so the transfer cannot re-enter
		err = l.transferor.Transfer(caller, amount)
		if err != nil {
			return cerrors.NewTransferFailedError(caller, amount, err)
		}

		tx.OnSucceed(func() {
			l.metrics.FundsWithdrawn(amount)
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	l.log.Info().
		Hex("payee", logging.Address(caller)).
		Uint64("amount", amount).
		Msg("funds withdrawn")
	return amount, nil
}

// PendingBalance returns the amount currently owed to the address. Unknown
// addresses are owed nothing.
func (l *Ledger) PendingBalance(address covenant.Address) (uint64, error) {
	account, err := l.accounts.ByAddress(address)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve account: %w", err)
	}
	return account.PendingWithdrawal, nil
}
