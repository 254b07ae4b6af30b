package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityFactory/internal/state"
)

// Token is the fungible-token surface the pool moves reserves through.
type Token interface {
	BalanceOf(account common.Address) *uint256.Int
	Transfer(from, to common.Address, amount *uint256.Int) error
	// Journal is where the token records its changes. A pool only trades
	// tokens that record on the pool's own journal.
	Journal() *state.Journal
}

// FeeRecipient supplies the default beneficiary of collected protocol fees.
type FeeRecipient interface {
	FeeTo() common.Address
}

// TokenResolver returns the token deployed at an address.
type TokenResolver interface {
	Token(address common.Address) (Token, error)
}

// ResolverFunc adapts a function to TokenResolver.
type ResolverFunc func(address common.Address) (Token, error)

func (f ResolverFunc) Token(address common.Address) (Token, error) {
	return f(address)
}
