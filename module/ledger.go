package module

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Transferor executes outbound value transfers to account holders. The host
// provides the implementation; withdrawals and excess-payment refunds are the
// only operations that push value out of the system.
type Transferor interface {
	Transfer(recipient covenant.Address, amount uint64) error
}

// Ledger is the narrow settlement interface shared by the engines. Credits
// are staged within the engine's own transaction so they commit or abort with
// the rest of the call; withdrawals pay out under their own call lock.
type Ledger interface {

	// CreditTx adds amount to the payee's pending-withdrawal balance within
	// the caller's transaction. Crediting zero is a no-op.
	CreditTx(payee covenant.Address, amount uint64) func(*transaction.Tx) error

	// Withdraw pays out the caller's full pending balance and returns the
	// amount transferred.
	Withdraw(caller covenant.Address) (uint64, error)
}
