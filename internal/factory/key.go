package factory

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"liquidityFactory/internal/pool"
)

// PoolKey identifies a pool. Token0 sorts strictly before Token1.
type PoolKey struct {
	Token0 common.Address
	Token1 common.Address
	Fee    uint32
}

// SortTokens orders two token addresses bytewise.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA[:], tokenB[:]) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// NewPoolKey builds the canonical key for an unordered pair.
func NewPoolKey(tokenA, tokenB common.Address, fee uint32) (PoolKey, error) {
	if tokenA == tokenB {
		return PoolKey{}, ErrIdenticalAddresses
	}
	token0, token1 := SortTokens(tokenA, tokenB)
	if token0 == (common.Address{}) {
		return PoolKey{}, ErrZeroAddress
	}
	return PoolKey{Token0: token0, Token1: token1, Fee: fee}, nil
}

// Salt is keccak256 over the 32-byte words of token0, token1 and fee.
func (k PoolKey) Salt() common.Hash {
	var feeWord [32]byte
	binary.BigEndian.PutUint32(feeWord[28:], k.Fee)
	return crypto.Keccak256Hash(
		common.LeftPadBytes(k.Token0.Bytes(), 32),
		common.LeftPadBytes(k.Token1.Bytes(), 32),
		feeWord[:],
	)
}

// ComputeAddress derives the address a factory deploys the pool for key to.
func ComputeAddress(factory common.Address, key PoolKey) common.Address {
	return crypto.CreateAddress2(factory, key.Salt(), pool.CodeHash.Bytes())
}

// ComputePoolAddress is ComputeAddress for an unordered pair.
func ComputePoolAddress(factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	key, err := NewPoolKey(tokenA, tokenB, fee)
	if err != nil {
		return common.Address{}, err
	}
	return ComputeAddress(factory, key), nil
}
