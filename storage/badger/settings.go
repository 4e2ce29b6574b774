package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/storage/badger/operation"
)

// Settings implements persistent storage for named uint64 settings that
// update transactionally with the operations reading them.
type Settings struct {
	db *badger.DB
}

func NewSettings(db *badger.DB) *Settings {
	s := Settings{
		db: db,
	}
	return &s
}

func (s *Settings) SetTx(name string, value uint64) func(*badger.Txn) error {
	return operation.UpsertSetting(name, value)
}

func (s *Settings) RetrieveTx(name string, value *uint64) func(*badger.Txn) error {
	return operation.RetrieveSetting(name, value)
}

func (s *Settings) Retrieve(name string) (uint64, error) {
	var value uint64
	err := s.db.View(operation.RetrieveSetting(name, &value))
	if err != nil {
		return 0, fmt.Errorf("could not retrieve setting %s: %w", name, err)
	}
	return value, nil
}
