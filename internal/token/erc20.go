// Package token provides in-memory fungible tokens that pools can hold and
// move. Every change is recorded on a shared state.Journal so a failed pool
// call can be rolled back.
package token

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityFactory/internal/state"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrZeroAddress           = errors.New("zero address")
	ErrOverflow              = errors.New("supply overflow")
)

// TransferHook observes a completed transfer. It may call back into other
// contracts, which is how reentrancy reaches a pool.
type TransferHook func(from, to common.Address, amount *uint256.Int)

// ERC20 is a standard fungible token kept in memory.
type ERC20 struct {
	address  common.Address
	symbol   string
	decimals uint8

	totalSupply uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[common.Address]map[common.Address]*uint256.Int

	journal *state.Journal
	hook    TransferHook
}

// NewERC20 builds a token recording its changes on journal. A nil journal
// leaves the token unjournaled; pools refuse to trade it.
func NewERC20(journal *state.Journal, address common.Address, symbol string, decimals uint8) *ERC20 {
	return &ERC20{
		journal:    journal,
		address:    address,
		symbol:     symbol,
		decimals:   decimals,
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

func (t *ERC20) Address() common.Address { return t.address }
func (t *ERC20) Symbol() string          { return t.symbol }
func (t *ERC20) Decimals() uint8         { return t.decimals }

// Journal returns the journal this token records on.
func (t *ERC20) Journal() *state.Journal { return t.journal }

func (t *ERC20) TotalSupply() *uint256.Int {
	return t.totalSupply.Clone()
}

// SetTransferHook installs a hook run after every successful transfer.
func (t *ERC20) SetTransferHook(hook TransferHook) {
	t.hook = hook
}

func (t *ERC20) BalanceOf(account common.Address) *uint256.Int {
	if bal, ok := t.balances[account]; ok {
		return bal.Clone()
	}
	return new(uint256.Int)
}

func (t *ERC20) Allowance(owner, spender common.Address) *uint256.Int {
	if val, ok := t.allowances[owner][spender]; ok {
		return val.Clone()
	}
	return new(uint256.Int)
}

// Mint creates amount new tokens for `to`.
func (t *ERC20) Mint(to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	supply, overflow := new(uint256.Int).AddOverflow(&t.totalSupply, amount)
	if overflow {
		return ErrOverflow
	}
	prev := t.totalSupply.Clone()
	t.record(func() { t.totalSupply.Set(prev) })
	t.totalSupply.Set(supply)
	t.setBalance(to, new(uint256.Int).Add(t.BalanceOf(to), amount))
	return nil
}

// Transfer moves amount from `from` to `to`.
func (t *ERC20) Transfer(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	bal := t.BalanceOf(from)
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	t.setBalance(from, bal.Sub(bal, amount))
	t.setBalance(to, new(uint256.Int).Add(t.BalanceOf(to), amount))
	if t.hook != nil {
		t.hook(from, to, amount.Clone())
	}
	return nil
}

// Approve sets spender's allowance over owner's tokens.
func (t *ERC20) Approve(owner, spender common.Address, amount *uint256.Int) {
	prev, had := t.allowances[owner][spender]
	t.record(func() {
		if had {
			t.allowances[owner][spender] = prev
		} else {
			delete(t.allowances[owner], spender)
		}
	})
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	t.allowances[owner][spender] = amount.Clone()
}

// TransferFrom moves amount from `from` to `to` on spender's allowance.
func (t *ERC20) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	allowance := t.Allowance(from, spender)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	t.Approve(from, spender, allowance.Sub(allowance, amount))
	return nil
}

func (t *ERC20) setBalance(account common.Address, amount *uint256.Int) {
	prev := t.BalanceOf(account)
	t.record(func() { t.putBalance(account, prev) })
	t.putBalance(account, amount)
}

func (t *ERC20) putBalance(account common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		delete(t.balances, account)
		return
	}
	t.balances[account] = amount
}

func (t *ERC20) record(undo func()) {
	if t.journal != nil {
		t.journal.Append(undo)
	}
}
