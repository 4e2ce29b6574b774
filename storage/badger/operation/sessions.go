package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func InsertSession(session *covenant.VotingSession) func(*badger.Txn) error {
	return insert(makePrefix(codeSession), session)
}

func UpdateSession(session *covenant.VotingSession) func(*badger.Txn) error {
	return update(makePrefix(codeSession), session)
}

func RetrieveSession(session *covenant.VotingSession) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSession), session)
}
