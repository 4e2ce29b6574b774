package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func InsertEscrow(escrow *covenant.EscrowAgreement) func(*badger.Txn) error {
	return insert(makePrefix(codeEscrow, escrow.ID), escrow)
}

func UpdateEscrow(escrow *covenant.EscrowAgreement) func(*badger.Txn) error {
	return update(makePrefix(codeEscrow, escrow.ID), escrow)
}

func RetrieveEscrow(escrowID uint64, escrow *covenant.EscrowAgreement) func(*badger.Txn) error {
	return retrieve(makePrefix(codeEscrow, escrowID), escrow)
}
