// Package marketplace implements the asset marketplace engine: minting and
// transferring assets, listing them for sale, and settling purchases with the
// proceeds split between seller, platform fee and creator royalty.
package marketplace

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	cerrors "github.com/covenantnet/covenant-go/engine/errors"
	"github.com/covenantnet/covenant-go/engine/notifications"
	"github.com/covenantnet/covenant-go/model/covenant"
	"github.com/covenantnet/covenant-go/module"
	"github.com/covenantnet/covenant-go/module/guard"
	"github.com/covenantnet/covenant-go/module/metrics"
	"github.com/covenantnet/covenant-go/storage"
	"github.com/covenantnet/covenant-go/storage/badger/operation"
	"github.com/covenantnet/covenant-go/storage/badger/transaction"
	"github.com/covenantnet/covenant-go/utils/logging"
)

// Engine is the marketplace engine. One instance serves a deployment; the
// host serializes calls, and the call lock turns any re-entrant call into a
// ReentrancyDetected failure.
type Engine struct {
	log        zerolog.Logger
	db         *badger.DB
	metrics    module.EngineMetrics
	assets     storage.Assets
	listings   storage.Listings
	settings   storage.Settings
	sequences  storage.Sequences
	ledger     module.Ledger
	transferor module.Transferor
	recorder   *notifications.Recorder
	lock       *guard.CallLock
	platform   covenant.Address
}

func New(
	log zerolog.Logger,
	db *badger.DB,
	collector module.EngineMetrics,
	assets storage.Assets,
	listings storage.Listings,
	settings storage.Settings,
	sequences storage.Sequences,
	ledger module.Ledger,
	transferor module.Transferor,
	recorder *notifications.Recorder,
	platform covenant.Address,
) *Engine {
	e := &Engine{
		log:        log.With().Str("engine", metrics.EngineMarketplace).Logger(),
		db:         db,
		metrics:    collector,
		assets:     assets,
		listings:   listings,
		settings:   settings,
		sequences:  sequences,
		ledger:     ledger,
		transferor: transferor,
		recorder:   recorder,
		lock:       guard.NewCallLock(metrics.EngineMarketplace),
		platform:   platform,
	}
	return e
}

// report translates the outcome of one operation into engine metrics.
// OperationFailed tracks coded rejections only; exceptions are not counted.
func (e *Engine) report(op string, err error) {
	if err == nil {
		e.metrics.OperationExecuted(metrics.EngineMarketplace, op)
		return
	}
	if cerrors.IsCodedFailure(err) {
		e.metrics.OperationFailed(metrics.EngineMarketplace, op)
	}
}

// MintAsset registers a new asset under the next sequential token ID, with
// the caller as both creator and initial owner. The creator is permanent and
// collects royalties on every secondary sale.
//
// Expected failures:
//   - ZeroAddress when the caller address is empty
func (e *Engine) MintAsset(caller covenant.Address) (asset *covenant.Asset, err error) {
	defer func() { e.report(metrics.OperationMintAsset, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if caller.IsZero() {
		return nil, cerrors.NewZeroAddressError("creator")
	}

	asset = &covenant.Asset{
		Creator: caller,
		Owner:   caller,
	}
	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.sequences.NextTx(storage.SequenceTokenID, &asset.TokenID)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not allocate token ID: %w", err)
		}
		err = e.assets.StoreTx(asset)(tx)
		if err != nil {
			return fmt.Errorf("could not store asset: %w", err)
		}
		return e.recorder.Append(covenant.EventAssetMinted, &covenant.AssetMintedPayload{
			TokenID: asset.TokenID,
			Creator: caller,
		})(tx)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Uint64("token_id", asset.TokenID).
		Hex("creator", logging.Address(caller)).
		Msg("asset minted")
	return asset, nil
}

// TransferAsset hands the asset over to the recipient. Only the owner may
// transfer. Any active listing is deactivated as a side effect, so a stale
// offer by the previous owner cannot be bought.
//
// Expected failures:
//   - ZeroAddress when the recipient address is empty
//   - NotTokenOwner when the caller does not own the asset
func (e *Engine) TransferAsset(caller covenant.Address, to covenant.Address, tokenID uint64) (err error) {
	defer func() { e.report(metrics.OperationTransferAsset, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	if to.IsZero() {
		return cerrors.NewZeroAddressError("recipient")
	}

	storedAsset, err := e.assets.ByTokenID(tokenID)
	if err != nil {
		return fmt.Errorf("could not retrieve asset %d: %w", tokenID, err)
	}
	if caller != storedAsset.Owner {
		return cerrors.NewNotTokenOwnerError(caller, tokenID)
	}

	storedListing, err := e.listings.ByTokenID(tokenID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("could not retrieve listing for token %d: %w", tokenID, err)
	}
	delist := err == nil && storedListing.Active

	// the stores share cached pointers, mutate copies
	asset := *storedAsset
	asset.Owner = to

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.assets.UpdateTx(&asset)(tx)
		if err != nil {
			return fmt.Errorf("could not update asset: %w", err)
		}
		if delist {
			listing := *storedListing
			listing.Active = false
			err = e.listings.UpsertTx(&listing)(tx)
			if err != nil {
				return fmt.Errorf("could not deactivate listing: %w", err)
			}
		}
		return e.recorder.Append(covenant.EventAssetTransferred, &covenant.AssetTransferredPayload{
			TokenID: tokenID,
			From:    caller,
			To:      to,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Uint64("token_id", tokenID).
		Hex("from", logging.Address(caller)).
		Hex("to", logging.Address(to)).
		Msg("asset transferred")
	return nil
}

// ListItem offers the asset for sale at the given price. Only the owner may
// list, and a token carries at most one active listing.
//
// Expected failures:
//   - NotTokenOwner when the caller does not own the asset
//   - PriceMustBeAboveZero when the price is zero
//   - AlreadyListed when an active listing exists for the token
func (e *Engine) ListItem(caller covenant.Address, tokenID uint64, price uint64) (err error) {
	defer func() { e.report(metrics.OperationListItem, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	storedAsset, err := e.assets.ByTokenID(tokenID)
	if err != nil {
		return fmt.Errorf("could not retrieve asset %d: %w", tokenID, err)
	}
	if caller != storedAsset.Owner {
		return cerrors.NewNotTokenOwnerError(caller, tokenID)
	}
	if price == 0 {
		return cerrors.NewPriceMustBeAboveZeroError(tokenID)
	}

	existing, err := e.listings.ByTokenID(tokenID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("could not retrieve listing for token %d: %w", tokenID, err)
	}
	if err == nil && existing.Active {
		return cerrors.NewAlreadyListedError(tokenID)
	}

	listing := &covenant.Listing{
		TokenID: tokenID,
		Seller:  caller,
		Price:   price,
		Active:  true,
	}
	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.listings.UpsertTx(listing)(tx)
		if err != nil {
			return fmt.Errorf("could not store listing: %w", err)
		}
		return e.recorder.Append(covenant.EventItemListed, &covenant.ItemListedPayload{
			TokenID: tokenID,
			Seller:  caller,
			Price:   price,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Uint64("token_id", tokenID).
		Uint64("price", price).
		Msg("item listed")
	return nil
}

// BuyItem settles the purchase of an actively listed asset in one atomic
// step: the listing is deactivated, ownership moves to the caller, and the
// price is split into platform fee, creator royalty (secondary sales only)
// and seller proceeds, all credited through the ledger for later withdrawal.
// Overpayment is pushed straight back to the caller as the last step of the
// transaction; a failed refund discards the entire settlement.
//
// The transaction is deliberately not retried on conflict: the refund must
// run at most once per call.
//
// Expected failures:
//   - NotListed when the token has no active listing
//   - InsufficientPayment when the payment does not cover the price
//   - TransferFailed when the host refund transfer reports an error
func (e *Engine) BuyItem(caller covenant.Address, tokenID uint64, payment uint64) (err error) {
	defer func() { e.report(metrics.OperationBuyItem, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	storedListing, err := e.listings.ByTokenID(tokenID)
	if errors.Is(err, storage.ErrNotFound) {
		return cerrors.NewNotListedError(tokenID)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve listing for token %d: %w", tokenID, err)
	}
	if !storedListing.Active {
		return cerrors.NewNotListedError(tokenID)
	}
	if payment < storedListing.Price {
		return cerrors.NewInsufficientPaymentError(payment, storedListing.Price)
	}

	storedAsset, err := e.assets.ByTokenID(tokenID)
	if err != nil {
		return fmt.Errorf("could not retrieve asset %d: %w", tokenID, err)
	}

	seller := storedListing.Seller
	price := storedListing.Price
	excess := payment - price

	// the stores share cached pointers, mutate copies
	listing := *storedListing
	listing.Active = false
	asset := *storedAsset
	asset.Owner = caller

	var fee, royalty, sellerAmount uint64
	err = transaction.Update(e.db, func(tx *transaction.Tx) error {
		feeBps := covenant.DefaultPlatformFeeBps
		err := e.settings.RetrieveTx(storage.SettingPlatformFeeBps, &feeBps)(tx.DBTxn)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not retrieve platform fee: %w", err)
		}

		fee = covenant.Fee(price, feeBps)
		royalty = 0
		if asset.Creator != seller {
			// royalties are owed on secondary sales only
			royalty = covenant.Fee(price, covenant.RoyaltyBps)
		}
		sellerAmount = price - fee - royalty

		err = e.listings.UpsertTx(&listing)(tx)
		if err != nil {
			return fmt.Errorf("could not deactivate listing: %w", err)
		}
		err = e.assets.UpdateTx(&asset)(tx)
		if err != nil {
			return fmt.Errorf("could not update asset: %w", err)
		}
		err = e.ledger.CreditTx(seller, sellerAmount)(tx)
		if err != nil {
			return fmt.Errorf("could not credit seller: %w", err)
		}
		err = e.ledger.CreditTx(e.platform, fee)(tx)
		if err != nil {
			return fmt.Errorf("could not credit platform: %w", err)
		}
		err = e.ledger.CreditTx(asset.Creator, royalty)(tx)
		if err != nil {
			return fmt.Errorf("could not credit creator: %w", err)
		}
		err = e.recorder.Append(covenant.EventItemSold, &covenant.ItemSoldPayload{
			TokenID:      tokenID,
			Seller:       seller,
			Buyer:        caller,
			Price:        price,
			SellerAmount: sellerAmount,
			Fee:          fee,
			Royalty:      royalty,
			Excess:       excess,
		})(tx)
		if err != nil {
			return err
		}

		// the settlement is staged in full before the refund runs; the call
		// lock stays held, so the transfer cannot re-enter
		if excess > 0 {
			err = e.transferor.Transfer(caller, excess)
			if err != nil {
				return cerrors.NewTransferFailedError(caller, excess, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.metrics.ValueSettled(metrics.EngineMarketplace, price)
	e.log.Info().
		Uint64("token_id", tokenID).
		Hex("seller", logging.Address(seller)).
		Hex("buyer", logging.Address(caller)).
		Uint64("price", price).
		Uint64("fee", fee).
		Uint64("royalty", royalty).
		Msg("item sold")
	return nil
}

// CancelListing takes the token off the market. Only the listing's seller
// may cancel.
//
// Expected failures:
//   - NotListed when the token has no active listing
//   - Unauthorized when the caller is not the listing's seller
func (e *Engine) CancelListing(caller covenant.Address, tokenID uint64) (err error) {
	defer func() { e.report(metrics.OperationCancelListing, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	storedListing, err := e.listings.ByTokenID(tokenID)
	if errors.Is(err, storage.ErrNotFound) {
		return cerrors.NewNotListedError(tokenID)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve listing for token %d: %w", tokenID, err)
	}
	if !storedListing.Active {
		return cerrors.NewNotListedError(tokenID)
	}
	if caller != storedListing.Seller {
		return cerrors.NewUnauthorizedError(caller, "listing seller")
	}

	listing := *storedListing
	listing.Active = false

	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		err := e.listings.UpsertTx(&listing)(tx)
		if err != nil {
			return fmt.Errorf("could not deactivate listing: %w", err)
		}
		return e.recorder.Append(covenant.EventListingCanceled, &covenant.ListingCanceledPayload{
			TokenID: tokenID,
			Seller:  caller,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Uint64("token_id", tokenID).
		Msg("listing canceled")
	return nil
}

// UpdatePlatformFee changes the fee rate applied to every sale from this
// call onward. Only the platform admin may change it, and the rate is
// persisted transactionally so every purchase settles on exactly one rate.
//
// Expected failures:
//   - Unauthorized when the caller is not the platform admin
//   - InvalidFee when the rate exceeds MaxPlatformFeeBps
func (e *Engine) UpdatePlatformFee(caller covenant.Address, bps uint64) (err error) {
	defer func() { e.report(metrics.OperationUpdatePlatformFee, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	if caller != e.platform {
		return cerrors.NewUnauthorizedError(caller, "platform admin")
	}
	if bps > covenant.MaxPlatformFeeBps {
		return cerrors.NewInvalidFeeError(bps, covenant.MaxPlatformFeeBps)
	}

	var oldBps uint64
	err = operation.RetryOnConflictTx(e.db, transaction.Update, func(tx *transaction.Tx) error {
		oldBps = covenant.DefaultPlatformFeeBps
		err := e.settings.RetrieveTx(storage.SettingPlatformFeeBps, &oldBps)(tx.DBTxn)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not retrieve platform fee: %w", err)
		}
		err = e.settings.SetTx(storage.SettingPlatformFeeBps, bps)(tx.DBTxn)
		if err != nil {
			return fmt.Errorf("could not set platform fee: %w", err)
		}
		return e.recorder.Append(covenant.EventPlatformFeeUpdated, &covenant.PlatformFeeUpdatedPayload{
			OldBps: oldBps,
			NewBps: bps,
		})(tx)
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Uint64("old_bps", oldBps).
		Uint64("new_bps", bps).
		Msg("platform fee updated")
	return nil
}

// Withdraw pays out the caller's accumulated proceeds, royalties and fees.
// Any account holder may withdraw their own balance at any time.
//
// Expected failures:
//   - NoPendingWithdrawals when nothing is owed to the caller
//   - TransferFailed when the host transfer reports an error
func (e *Engine) Withdraw(caller covenant.Address) (amount uint64, err error) {
	defer func() { e.report(metrics.OperationWithdraw, err) }()

	unlock, err := e.lock.Acquire()
	if err != nil {
		return 0, err
	}
	defer unlock()

	return e.ledger.Withdraw(caller)
}

// GetAsset returns the asset with the given token ID. Fails with
// storage.ErrNotFound if it was never minted.
func (e *Engine) GetAsset(tokenID uint64) (*covenant.Asset, error) {
	return e.assets.ByTokenID(tokenID)
}

// GetListing returns the listing record for the token, active or not. Fails
// with storage.ErrNotFound if the token was never listed.
func (e *Engine) GetListing(tokenID uint64) (*covenant.Listing, error) {
	return e.listings.ByTokenID(tokenID)
}

// PlatformFee returns the fee rate currently applied to sales, in basis
// points.
func (e *Engine) PlatformFee() (uint64, error) {
	bps, err := e.settings.Retrieve(storage.SettingPlatformFeeBps)
	if errors.Is(err, storage.ErrNotFound) {
		return covenant.DefaultPlatformFeeBps, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve platform fee: %w", err)
	}
	return bps, nil
}
