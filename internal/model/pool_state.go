package model

// PoolState captures the ledger of a pool at a point in time.
type PoolState struct {
	Address       string `json:"address"`
	Token0        string `json:"token0"`
	Token1        string `json:"token1"`
	Reserve0      string `json:"reserve0"`
	Reserve1      string `json:"reserve1"`
	TotalSupply   string `json:"total_supply"`
	FeeProtocol0  uint8  `json:"fee_protocol0"`
	FeeProtocol1  uint8  `json:"fee_protocol1"`
	ProtocolFees0 string `json:"protocol_fees0"`
	ProtocolFees1 string `json:"protocol_fees1"`
	Owner         string `json:"owner"`
	StateDigest   string `json:"state_digest"`
}

// FeeTier is an enabled fee amount and its tick spacing.
type FeeTier struct {
	Fee         uint32 `json:"fee"`
	TickSpacing int32  `json:"tick_spacing"`
}

// FactoryState is the full snapshot written at the end of a simulation.
type FactoryState struct {
	Factory  string      `json:"factory"`
	Owner    string      `json:"owner"`
	FeeTo    string      `json:"fee_to"`
	FeeTiers []FeeTier   `json:"fee_tiers"`
	Pools    []Pool      `json:"pools"`
	States   []PoolState `json:"states"`
	SavedAt  string      `json:"saved_at"`
}
