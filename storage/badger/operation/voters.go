package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func InsertVoter(voter *covenant.Voter) func(*badger.Txn) error {
	return insert(makePrefix(codeVoter, voter.Address), voter)
}

func UpdateVoter(voter *covenant.Voter) func(*badger.Txn) error {
	return update(makePrefix(codeVoter, voter.Address), voter)
}

func RetrieveVoter(address covenant.Address, voter *covenant.Voter) func(*badger.Txn) error {
	return retrieve(makePrefix(codeVoter, address), voter)
}

func ExistsVoter(address covenant.Address, registered *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeVoter, address), registered)
}

// CountVoters counts registered voters by traversing the voter table.
func CountVoters(count *uint64) func(*badger.Txn) error {
	*count = 0
	return traverse(makePrefix(codeVoter), func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			*count++
			// counting keys only, skip loading the value
			return false
		}
		create := func() interface{} {
			return nil
		}
		handle := func() error {
			return nil
		}
		return check, create, handle
	})
}
