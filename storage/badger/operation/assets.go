package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/model/covenant"
)

func InsertAsset(asset *covenant.Asset) func(*badger.Txn) error {
	return insert(makePrefix(codeAsset, asset.TokenID), asset)
}

func UpdateAsset(asset *covenant.Asset) func(*badger.Txn) error {
	return update(makePrefix(codeAsset, asset.TokenID), asset)
}

func RetrieveAsset(tokenID uint64, asset *covenant.Asset) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAsset, tokenID), asset)
}
