package model

// Pool represents a factory pool record for storage.
type Pool struct {
	Address     string `json:"address"`
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Fee         uint32 `json:"fee"`
	TickSpacing int32  `json:"tick_spacing"`
	Salt        string `json:"salt"`
	Index       uint64 `json:"index"`
}
