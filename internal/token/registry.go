package token

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFactory/internal/state"
)

// Registry indexes deployed tokens by address. All of its tokens record on
// one journal.
type Registry struct {
	mu      sync.RWMutex
	journal *state.Journal
	tokens  map[common.Address]*ERC20
}

// NewRegistry builds a registry over journal, or over a fresh one if nil.
func NewRegistry(journal *state.Journal) *Registry {
	if journal == nil {
		journal = state.NewJournal()
	}
	return &Registry{journal: journal, tokens: make(map[common.Address]*ERC20)}
}

// Journal returns the journal shared by the registry's tokens.
func (r *Registry) Journal() *state.Journal { return r.journal }

// Deploy registers a new token at address.
func (r *Registry) Deploy(address common.Address, symbol string, decimals uint8) (*ERC20, error) {
	if address == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[address]; ok {
		return nil, fmt.Errorf("token already deployed at %s", address.Hex())
	}
	tok := NewERC20(r.journal, address, symbol, decimals)
	r.tokens[address] = tok
	return tok, nil
}

// Get returns the token at address.
func (r *Registry) Get(address common.Address) (*ERC20, error) {
	r.mu.RLock()
	tok, ok := r.tokens[address]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("token %s not found", address.Hex())
	}
	return tok, nil
}

// All returns the deployed tokens ordered by address.
func (r *Registry) All() []*ERC20 {
	r.mu.RLock()
	out := make([]*ERC20, 0, len(r.tokens))
	for _, tok := range r.tokens {
		out = append(out, tok)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].address[:], out[j].address[:]) < 0
	})
	return out
}
