package model

// PoolStats stores aggregated activity for a pool.
type PoolStats struct {
	PoolAddress        string `json:"pool_address"`
	SwapCount          uint64 `json:"swap_count"`
	MintCount          uint64 `json:"mint_count"`
	BurnCount          uint64 `json:"burn_count"`
	Volume0            string `json:"volume0"`
	Volume1            string `json:"volume1"`
	Fee0               string `json:"fee0"`
	Fee1               string `json:"fee1"`
	ProtocolCollected0 string `json:"protocol_collected0"`
	ProtocolCollected1 string `json:"protocol_collected1"`
	Reserve0           string `json:"reserve0"`
	Reserve1           string `json:"reserve1"`
	FirstSeq           uint64 `json:"first_seq"`
	LastSeq            uint64 `json:"last_seq"`
}
