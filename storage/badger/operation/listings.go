package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func UpsertListing(listing *covenant.Listing) func(*badger.Txn) error {
	return upsert(makePrefix(codeListing, listing.TokenID), listing)
}

func RetrieveListing(tokenID uint64, listing *covenant.Listing) func(*badger.Txn) error {
	return retrieve(makePrefix(codeListing, tokenID), listing)
}
