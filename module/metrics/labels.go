package metrics

const (
	EngineLabel    = "engine"
	LabelOperation = "operation"
	LabelResource  = "resource"
	LabelEventType = "event_type"
)

const (
	EngineEscrow      = "escrow"
	EngineVoting      = "voting"
	EngineMarketplace = "marketplace"
)

const (
	OperationCreateEscrow         = "create_escrow"
	OperationRelease              = "release"
	OperationRefund               = "refund"
	OperationRaiseDispute         = "raise_dispute"
	OperationResolveDispute       = "resolve_dispute"
	OperationWithdrawPlatformFees = "withdraw_platform_fees"

	OperationRegisterVoter       = "register_voter"
	OperationRegisterVotersBatch = "register_voters_batch"
	OperationAddProposal         = "add_proposal"
	OperationVote                = "vote"
	OperationDelegate            = "delegate"
	OperationExtendVoting        = "extend_voting"
	OperationFinalize            = "finalize"

	OperationMintAsset         = "mint_asset"
	OperationTransferAsset     = "transfer_asset"
	OperationListItem          = "list_item"
	OperationBuyItem           = "buy_item"
	OperationCancelListing     = "cancel_listing"
	OperationWithdraw          = "withdraw"
	OperationUpdatePlatformFee = "update_platform_fee"
)

const (
	ResourceEscrow   = "escrow"
	ResourceVoter    = "voter"
	ResourceProposal = "proposal"
	ResourceListing  = "listing"
	ResourceAsset    = "asset"
	ResourceAccount  = "account"
	ResourceEvent    = "event"
	ResourceSession  = "session"
	ResourceSetting  = "setting"
	ResourceSequence = "sequence"
)

const (
	namespaceCovenant = "covenant"
)

const (
	subsystemEngine = "engine"
	subsystemCache  = "cache"
	subsystemLedger = "ledger"
)
