package pool_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"liquidityFactory/internal/pool"
	"liquidityFactory/internal/storage"
	"liquidityFactory/internal/token"
)

var (
	factoryAddr = common.HexToAddress("0x00000000000000000000000000000000000fac70")
	ownerAddr   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	poolAddr    = common.HexToAddress("0x00000000000000000000000000000000000001aa")
	tokenA      = common.HexToAddress("0x1000000000000000000000000000000000000001")
	tokenB      = common.HexToAddress("0x1000000000000000000000000000000000000002")
	alice       = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob         = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type fixture struct {
	pool     *pool.Pool
	token0   *token.ERC20
	token1   *token.ERC20
	recorder *storage.Recorder
}

func resolver(reg *token.Registry) pool.TokenResolver {
	return pool.ResolverFunc(func(address common.Address) (pool.Token, error) {
		tok, err := reg.Get(address)
		if err != nil {
			return nil, err
		}
		return tok, nil
	})
}

func newUninitialized(t *testing.T) (*pool.Pool, *token.Registry, *storage.Recorder) {
	t.Helper()
	reg := token.NewRegistry(nil)
	_, err := reg.Deploy(tokenA, "AAA", 18)
	require.NoError(t, err)
	_, err = reg.Deploy(tokenB, "BBB", 18)
	require.NoError(t, err)

	rec := storage.NewRecorder()
	p := pool.New(pool.Config{
		Address: poolAddr,
		Factory: factoryAddr,
		Owner:   ownerAddr,
		Tokens:  resolver(reg),
		Journal: reg.Journal(),
		Sink:    rec,
	})
	return p, reg, rec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, reg, rec := newUninitialized(t)
	require.NoError(t, p.Initialize(factoryAddr, tokenA, tokenB))

	t0, err := reg.Get(tokenA)
	require.NoError(t, err)
	t1, err := reg.Get(tokenB)
	require.NoError(t, err)

	supply := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(30))
	require.NoError(t, t0.Mint(alice, supply))
	require.NoError(t, t1.Mint(alice, supply))
	return &fixture{pool: p, token0: t0, token1: t1, recorder: rec}
}

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

// deposit moves tokens from alice into the pool without syncing.
func (f *fixture) deposit(t *testing.T, amount0, amount1 uint64) {
	t.Helper()
	if amount0 > 0 {
		require.NoError(t, f.token0.Transfer(alice, poolAddr, u(amount0)))
	}
	if amount1 > 0 {
		require.NoError(t, f.token1.Transfer(alice, poolAddr, u(amount1)))
	}
}

// seed provides liquidity and returns the LP units minted to alice.
func (f *fixture) seed(t *testing.T, amount0, amount1 uint64) *uint256.Int {
	t.Helper()
	f.deposit(t, amount0, amount1)
	liquidity, err := f.pool.Mint(alice, alice)
	require.NoError(t, err)
	return liquidity
}

// seedThousand leaves the pool at reserves 1000/1000 with only the locked minimum outstanding.
func (f *fixture) seedThousand(t *testing.T) {
	t.Helper()
	liquidity := f.seed(t, 10000, 10000)
	require.NoError(t, f.pool.Transfer(alice, poolAddr, liquidity))
	_, _, err := f.pool.Burn(alice, alice)
	require.NoError(t, err)
	requireReserves(t, f.pool, 1000, 1000)
}

func requireReserves(t *testing.T, p *pool.Pool, want0, want1 uint64) {
	t.Helper()
	r0, r1 := p.Reserves()
	require.Equal(t, want0, r0.Uint64(), "reserve0")
	require.Equal(t, want1, r1.Uint64(), "reserve1")
}

func product(p *pool.Pool) *uint256.Int {
	r0, r1 := p.Reserves()
	return new(uint256.Int).Mul(r0, r1)
}
