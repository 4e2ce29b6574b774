package badger

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/storage"
)

func InitAll(metrics module.CacheMetrics, db *badger.DB) *storage.All {
	escrows := NewEscrows(metrics, db)
	voters := NewVoters(metrics, db)
	proposals := NewProposals(metrics, db)
	sessions := NewSessions(db)
	listings := NewListings(metrics, db)
	assets := NewAssets(metrics, db)
	accounts := NewAccounts(db)
	events := NewEvents(db)
	sequences := NewSequences(db)
	settings := NewSettings(db)

	return &storage.All{
		Escrows:   escrows,
		Voters:    voters,
		Proposals: proposals,
		Sessions:  sessions,
		Listings:  listings,
		Assets:    assets,
		Accounts:  accounts,
		Events:    events,
		Sequences: sequences,
		Settings:  settings,
	}
}
