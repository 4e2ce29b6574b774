package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func InsertProposal(proposal *covenant.Proposal) func(*badger.Txn) error {
	return insert(makePrefix(codeProposal, proposal.Index), proposal)
}

func UpdateProposal(proposal *covenant.Proposal) func(*badger.Txn) error {
	return update(makePrefix(codeProposal, proposal.Index), proposal)
}

func RetrieveProposal(index uint64, proposal *covenant.Proposal) func(*badger.Txn) error {
	return retrieve(makePrefix(codeProposal, index), proposal)
}

// LookupProposals returns all proposals in index order. Index keys are
// big-endian, so badger's lexicographic iteration yields insertion order.
func LookupProposals(proposals *[]*covenant.Proposal) func(*badger.Txn) error {
	*proposals = make([]*covenant.Proposal, 0, len(*proposals))
	return traverse(makePrefix(codeProposal), func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			return true
		}
		var val covenant.Proposal
		create := func() interface{} {
			return &val
		}
		handle := func() error {
			proposal := val
			*proposals = append(*proposals, &proposal)
			return nil
		}
		return check, create, handle
	})
}
