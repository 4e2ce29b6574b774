package storage

import (
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Sessions represents persistent storage for the single voting session
// record of a deployment.
type Sessions interface {

	// StoreTx stores the session record. Fails with storage.ErrAlreadyExists
	// if a session was already initialized.
	StoreTx(session *covenant.VotingSession) func(*transaction.Tx) error

	// UpdateTx overwrites the session record. Fails with storage.ErrNotFound
	// if no session was initialized.
	UpdateTx(session *covenant.VotingSession) func(*transaction.Tx) error

	// Retrieve returns the session record.
	Retrieve() (*covenant.VotingSession, error)
}
