package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
)

// Sessions implements persistent storage for the single voting session
// record of a deployment. The record is a handful of bytes, so reads go
// straight to the database.
type Sessions struct {
	db *badger.DB
}

func NewSessions(db *badger.DB) *Sessions {
	s := Sessions{
		db: db,
	}
	return &s
}

func (s *Sessions) StoreTx(session *covenant.VotingSession) func(*transaction.Tx) error {
	return transaction.WithTx(operation.InsertSession(session))
}

func (s *Sessions) UpdateTx(session *covenant.VotingSession) func(*transaction.Tx) error {
	return transaction.WithTx(operation.UpdateSession(session))
}

func (s *Sessions) Retrieve() (*covenant.VotingSession, error) {
	var session covenant.VotingSession
	err := s.db.View(operation.RetrieveSession(&session))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve session: %w", err)
	}
	return &session, nil
}
