// Package core assembles the covenant engine for a host process: storage,
// the shared ledger, the three engines and event delivery, all built from a
// single Badger handle and one configuration.
package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/covenantnet/covenant-go/config"
	"github.com/covenantnet/covenant-go/engine/escrow"
	"github.com/covenantnet/covenant-go/engine/marketplace"
	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/engine/notifications/pubsub"
	"github.com/covenantnet/covenant-go/engine/voting"
	"github.com/covenantnet/covenant-go/ledger"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/metrics"
	"github.com/covenantnet/covenant-go/module/util"
	"github.com/covenantnet/covenant-go/storage"
	bstorage "github.com/covenantnet/covenant-go/storage/badger"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/utils/merr"
)

// defaultShutdownTimeout bounds how long Close waits for each component.
const defaultShutdownTimeout = 10 * time.Second

type namedComponent struct {
	module.ReadyDoneAware
	name string
}

// Core is the host-facing handle on the covenant engine. The exported fields
// are the interaction points; the host owns the Badger handle and the
// Transferor, Core owns everything in between.
type Core struct {
	log         zerolog.Logger
	conf        *config.CovenantConfig
	all         *storage.All
	distributor *pubsub.Distributor
	components  []namedComponent

	Ledger      *ledger.Ledger
	Escrow      *escrow.Engine
	Voting      *voting.Engine
	Marketplace *marketplace.Engine
}

var _ module.ReadyDoneAware = (*Core)(nil)

// New wires the covenant engine. The configuration is validated first; the
// voting session and the platform fee setting are initialized on the very
// first startup against the given database and reloaded afterwards.
func New(
	log zerolog.Logger,
	db *badger.DB,
	clk clock.Clock,
	transferor module.Transferor,
	conf *config.CovenantConfig,
) (*Core, error) {

	err := conf.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// prometheus collectors register on the process-global registry, so they
	// are only built when the endpoint actually serves them
	var (
		engineMetrics module.EngineMetrics = metrics.NewNoopCollector()
		ledgerMetrics module.LedgerMetrics = metrics.NewNoopCollector()
		cacheMetrics  module.CacheMetrics  = metrics.NewNoopCollector()
	)
	if conf.Metrics.Enabled {
		engineMetrics = metrics.NewEngineCollector()
		ledgerMetrics = metrics.NewLedgerCollector()
		cacheMetrics = metrics.NewStorageCollector()
	}

	all := bstorage.InitAll(cacheMetrics, db)

	distributor := pubsub.NewDistributor()
	distributor.AddConsumer(notifications.NewLogConsumer(log))
	buffered := notifications.NewBufferedConsumer(log, conf.Notifications.EventBufferCapacity, distributor)
	recorder := notifications.NewRecorder(all.Events, all.Sequences, clk, engineMetrics, buffered)

	accounts := ledger.New(log, db, all.Accounts, recorder, transferor, ledgerMetrics)

	escrowEngine := escrow.New(log, db, clk, engineMetrics,
		all.Escrows, all.Sequences, accounts, recorder, conf.PlatformAddress)

	votingEngine, err := voting.New(log, db, clk, engineMetrics,
		all.Sessions, all.Voters, all.Proposals, recorder,
		conf.Voting.Chairperson, conf.Voting.Window, conf.Voting.MaxDelegationHops)
	if err != nil {
		return nil, fmt.Errorf("could not initialize voting engine: %w", err)
	}

	marketplaceEngine := marketplace.New(log, db, engineMetrics,
		all.Assets, all.Listings, all.Settings, all.Sequences,
		accounts, transferor, recorder, conf.PlatformAddress)

	err = seedPlatformFee(db, all.Settings, conf.Marketplace.PlatformFeeBps)
	if err != nil {
		return nil, fmt.Errorf("could not seed platform fee setting: %w", err)
	}

	c := &Core{
		log:         log.With().Str("component", "core").Logger(),
		conf:        conf,
		all:         all,
		distributor: distributor,
		Ledger:      accounts,
		Escrow:      escrowEngine,
		Voting:      votingEngine,
		Marketplace: marketplaceEngine,
	}
	c.components = append(c.components, namedComponent{name: "event delivery", ReadyDoneAware: buffered})

	if conf.Metrics.Enabled {
		server := metrics.NewServer(log, conf.Metrics.Port)
		c.components = append(c.components, namedComponent{name: "metrics server", ReadyDoneAware: server})
	}

	c.log.Info().
		Bool("metrics_enabled", conf.Metrics.Enabled).
		Int("event_buffer_capacity", conf.Notifications.EventBufferCapacity).
		Msg("covenant core initialized")

	return c, nil
}

// seedPlatformFee writes the configured platform fee on the very first
// startup. Once the setting exists, UpdatePlatformFee is its only writer.
func seedPlatformFee(db *badger.DB, settings storage.Settings, bps uint64) error {
	return operation.RetryOnConflict(db.Update, func(tx *badger.Txn) error {
		var current uint64
		err := settings.RetrieveTx(storage.SettingPlatformFeeBps, &current)(tx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not check platform fee setting: %w", err)
		}
		return settings.SetTx(storage.SettingPlatformFeeBps, bps)(tx)
	})
}

// Ready starts event delivery and, when enabled, the metrics endpoint. The
// returned channel closes once all components are running. Operations called
// before Ready commit normally; their events are queued for delivery up to
// the buffer capacity.
func (c *Core) Ready() <-chan struct{} {
	components := make([]module.ReadyDoneAware, 0, len(c.components))
	for _, component := range c.components {
		components = append(components, component)
	}
	return util.AllReady(components...)
}

// Done stops all components and returns a channel that closes once shutdown
// has completed. Close is the error-reporting variant.
func (c *Core) Done() <-chan struct{} {
	components := make([]module.ReadyDoneAware, 0, len(c.components))
	for _, component := range c.components {
		components = append(components, component)
	}
	return util.AllDone(components...)
}

// Close stops all components and waits for them to finish. Components that
// do not stop within the shutdown timeout contribute an error each; the
// merged result is returned. The Badger handle stays open, its owner closes
// it.
func (c *Core) Close() error {
	dones := make([]<-chan struct{}, len(c.components))
	for i, component := range c.components {
		dones[i] = component.Done()
	}

	timeout := time.After(defaultShutdownTimeout)

	var err error
	for i, done := range dones {
		select {
		case <-done:
		case <-timeout:
			err = merr.MergeError(err, fmt.Errorf("%s did not shut down within %s",
				c.components[i].name, defaultShutdownTimeout))
		}
	}
	if err == nil {
		c.log.Info().Msg("covenant core shut down")
	}
	return err
}

// Subscribe registers the consumer for all events committed from now on and
// returns a handle for unsubscribing it. Consumers receive events in log
// order on the delivery worker's goroutine.
func (c *Core) Subscribe(consumer notifications.EventConsumer) uuid.UUID {
	return c.distributor.AddConsumer(consumer)
}

// Unsubscribe removes the consumer with the given handle.
func (c *Core) Unsubscribe(id uuid.UUID) {
	c.distributor.RemoveConsumer(id)
}

// Events exposes the persistent event log for audit reads.
func (c *Core) Events() storage.Events {
	return c.all.Events
}
