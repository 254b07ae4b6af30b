package factory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFactory/internal/model"
)

// PoolRecord is the immutable registration of one pool.
type PoolRecord struct {
	Address     common.Address
	Key         PoolKey
	TickSpacing int32
	Salt        common.Hash
	Index       uint64
}

// Model converts the record for storage.
func (r PoolRecord) Model() model.Pool {
	return model.Pool{
		Address:     r.Address.Hex(),
		Token0:      r.Key.Token0.Hex(),
		Token1:      r.Key.Token1.Hex(),
		Fee:         r.Key.Fee,
		TickSpacing: r.TickSpacing,
		Salt:        r.Salt.Hex(),
		Index:       r.Index,
	}
}

// PoolIndex is the append-only registry of deployed pools. Keys are stored
// once in canonical order; lookups normalise the pair first.
// PoolIndex is not safe for concurrent use.
type PoolIndex struct {
	byKey     map[PoolKey]int
	byAddress map[common.Address]int
	records   []PoolRecord
}

func NewPoolIndex() *PoolIndex {
	return &PoolIndex{
		byKey:     make(map[PoolKey]int),
		byAddress: make(map[common.Address]int),
	}
}

// Get returns the record for a canonical key.
func (x *PoolIndex) Get(key PoolKey) (PoolRecord, bool) {
	i, ok := x.byKey[key]
	if !ok {
		return PoolRecord{}, false
	}
	return x.records[i], true
}

// Lookup resolves an unordered pair.
func (x *PoolIndex) Lookup(tokenA, tokenB common.Address, fee uint32) (common.Address, bool) {
	token0, token1 := SortTokens(tokenA, tokenB)
	rec, ok := x.Get(PoolKey{Token0: token0, Token1: token1, Fee: fee})
	if !ok {
		return common.Address{}, false
	}
	return rec.Address, true
}

// ByAddress returns the record of the pool deployed at address.
func (x *PoolIndex) ByAddress(address common.Address) (PoolRecord, bool) {
	i, ok := x.byAddress[address]
	if !ok {
		return PoolRecord{}, false
	}
	return x.records[i], true
}

// Insert appends a record and assigns its index.
func (x *PoolIndex) Insert(key PoolKey, address common.Address, tickSpacing int32, salt common.Hash) (PoolRecord, error) {
	if _, ok := x.byKey[key]; ok {
		return PoolRecord{}, ErrPairExists
	}
	if _, ok := x.byAddress[address]; ok {
		return PoolRecord{}, fmt.Errorf("%w: %s", ErrAddressInUse, address.Hex())
	}
	rec := PoolRecord{
		Address:     address,
		Key:         key,
		TickSpacing: tickSpacing,
		Salt:        salt,
		Index:       uint64(len(x.records)),
	}
	x.records = append(x.records, rec)
	x.byKey[key] = int(rec.Index)
	x.byAddress[address] = int(rec.Index)
	return rec, nil
}

func (x *PoolIndex) Len() int {
	return len(x.records)
}

// At returns the pid-th record.
func (x *PoolIndex) At(pid uint64) (PoolRecord, bool) {
	if pid >= uint64(len(x.records)) {
		return PoolRecord{}, false
	}
	return x.records[pid], true
}

// Records returns a copy of all records in creation order.
func (x *PoolIndex) Records() []PoolRecord {
	out := make([]PoolRecord, len(x.records))
	copy(out, x.records)
	return out
}
