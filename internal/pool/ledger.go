package pool

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/zeebo/blake3"
)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

// Ledger is the reserve and LP-claim state of one pool. It is owned by its
// Pool and only mutated from inside a guarded call.
type Ledger struct {
	factory     common.Address
	owner       common.Address
	token0      common.Address
	token1      common.Address
	initialized bool

	reserve0    uint256.Int
	reserve1    uint256.Int
	totalSupply uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[allowanceKey]*uint256.Int

	feeProtocol0  uint8
	feeProtocol1  uint8
	protocolFees0 uint256.Int
	protocolFees1 uint256.Int
}

func newLedger(factory, owner common.Address) *Ledger {
	return &Ledger{
		factory:    factory,
		owner:      owner,
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[allowanceKey]*uint256.Int),
	}
}

func (l *Ledger) clone() *Ledger {
	cp := *l
	cp.balances = make(map[common.Address]*uint256.Int, len(l.balances))
	for k, v := range l.balances {
		cp.balances[k] = v.Clone()
	}
	cp.allowances = make(map[allowanceKey]*uint256.Int, len(l.allowances))
	for k, v := range l.allowances {
		cp.allowances[k] = v.Clone()
	}
	return &cp
}

func (l *Ledger) balanceOf(account common.Address) *uint256.Int {
	if bal, ok := l.balances[account]; ok {
		return bal.Clone()
	}
	return new(uint256.Int)
}

func (l *Ledger) allowance(owner, spender common.Address) *uint256.Int {
	if val, ok := l.allowances[allowanceKey{owner, spender}]; ok {
		return val.Clone()
	}
	return new(uint256.Int)
}

func (l *Ledger) setBalance(account common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		delete(l.balances, account)
		return
	}
	l.balances[account] = amount.Clone()
}

func (l *Ledger) mint(to common.Address, amount *uint256.Int) error {
	supply, overflow := new(uint256.Int).AddOverflow(&l.totalSupply, amount)
	if overflow {
		return ErrOverflow
	}
	l.totalSupply.Set(supply)
	l.setBalance(to, new(uint256.Int).Add(l.balanceOf(to), amount))
	return nil
}

func (l *Ledger) burn(from common.Address, amount *uint256.Int) error {
	bal := l.balanceOf(from)
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.setBalance(from, bal.Sub(bal, amount))
	l.totalSupply.Sub(&l.totalSupply, amount)
	return nil
}

func (l *Ledger) transfer(from, to common.Address, amount *uint256.Int) error {
	bal := l.balanceOf(from)
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.setBalance(from, bal.Sub(bal, amount))
	l.setBalance(to, new(uint256.Int).Add(l.balanceOf(to), amount))
	return nil
}

func (l *Ledger) approve(owner, spender common.Address, amount *uint256.Int) {
	key := allowanceKey{owner, spender}
	if amount.IsZero() {
		delete(l.allowances, key)
		return
	}
	l.allowances[key] = amount.Clone()
}

// digest hashes a canonical encoding of the ledger.
func (l *Ledger) digest() [32]byte {
	h := blake3.New()
	h.Write(l.factory.Bytes())
	h.Write(l.owner.Bytes())
	h.Write(l.token0.Bytes())
	h.Write(l.token1.Bytes())
	if l.initialized {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	for _, v := range []*uint256.Int{&l.reserve0, &l.reserve1, &l.totalSupply, &l.protocolFees0, &l.protocolFees1} {
		b := v.Bytes32()
		h.Write(b[:])
	}
	h.Write([]byte{l.feeProtocol0, l.feeProtocol1})

	accounts := make([]common.Address, 0, len(l.balances))
	for account := range l.balances {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i][:], accounts[j][:]) < 0
	})
	for _, account := range accounts {
		b := l.balances[account].Bytes32()
		h.Write(account.Bytes())
		h.Write(b[:])
	}

	keys := make([]allowanceKey, 0, len(l.allowances))
	for key := range l.allowances {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := bytes.Compare(keys[i].owner[:], keys[j].owner[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(keys[i].spender[:], keys[j].spender[:]) < 0
	})
	for _, key := range keys {
		b := l.allowances[key].Bytes32()
		h.Write(key.owner.Bytes())
		h.Write(key.spender.Bytes())
		h.Write(b[:])
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
