package model

// Event names emitted by the factory and its pools.
const (
	EventPoolCreated      = "PoolCreated"
	EventFeeAmountEnabled = "FeeAmountEnabled"
	EventOwnerChanged     = "OwnerChanged"
	EventFeeToChanged     = "FeeToChanged"
	EventFeeSetterChanged = "FeeToSetterChanged"
	EventMint             = "Mint"
	EventBurn             = "Burn"
	EventSwap             = "Swap"
	EventSync             = "Sync"
	EventTransfer         = "Transfer"
	EventApproval         = "Approval"
	EventSetFeeProtocol   = "SetFeeProtocol"
	EventCollectProtocol  = "CollectProtocol"
)

// PoolCreatedEventData is emitted once per pool by the factory.
type PoolCreatedEventData struct {
	Token0      string `json:"token_0"`
	Token1      string `json:"token_1"`
	Fee         uint32 `json:"fee"`
	TickSpacing int32  `json:"tick_spacing"`
	Pool        string `json:"pool"`
	PoolLen     uint64 `json:"pool_len"`
}

// FeeAmountEnabledEventData records a new fee tier.
type FeeAmountEnabledEventData struct {
	Fee         uint32 `json:"fee"`
	TickSpacing int32  `json:"tick_spacing"`
}

// OwnerChangedEventData records an ownership handover.
type OwnerChangedEventData struct {
	OldOwner string `json:"old_owner"`
	NewOwner string `json:"new_owner"`
}

// FeeToChangedEventData records a new protocol fee beneficiary, or a new
// account allowed to set it.
type FeeToChangedEventData struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// MintEventData is the Mint event payload.
type MintEventData struct {
	Sender    string `json:"sender"`
	To        string `json:"to"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	Liquidity string `json:"liquidity"`
}

// BurnEventData is the Burn event payload.
type BurnEventData struct {
	Sender    string `json:"sender"`
	To        string `json:"to"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	Liquidity string `json:"liquidity"`
}

// SwapEventData is the Swap event payload.
type SwapEventData struct {
	Sender     string `json:"sender"`
	To         string `json:"to"`
	Amount0In  string `json:"amount0_in"`
	Amount1In  string `json:"amount1_in"`
	Amount0Out string `json:"amount0_out"`
	Amount1Out string `json:"amount1_out"`
}

// SyncEventData carries the reserves after an update.
type SyncEventData struct {
	Reserve0 string `json:"reserve0"`
	Reserve1 string `json:"reserve1"`
}

// TransferEventData is an LP-claim transfer. Empty From means mint, empty To means burn.
type TransferEventData struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Value string `json:"value"`
}

// ApprovalEventData is an LP-claim allowance change.
type ApprovalEventData struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Value   string `json:"value"`
}

// SetFeeProtocolEventData records a protocol fee change.
type SetFeeProtocolEventData struct {
	FeeProtocol0Old uint8 `json:"fee_protocol0_old"`
	FeeProtocol1Old uint8 `json:"fee_protocol1_old"`
	FeeProtocol0New uint8 `json:"fee_protocol0_new"`
	FeeProtocol1New uint8 `json:"fee_protocol1_new"`
}

// CollectProtocolEventData records a protocol fee withdrawal.
type CollectProtocolEventData struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}
