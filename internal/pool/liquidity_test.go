package pool_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"liquidityFactory/internal/model"
	"liquidityFactory/internal/pool"
)

func TestInitialize(t *testing.T) {
	p, _, _ := newUninitialized(t)

	_, err := p.Mint(alice, alice)
	require.ErrorIs(t, err, pool.ErrNotInitialized)

	require.ErrorIs(t, p.Initialize(alice, tokenA, tokenB), pool.ErrUnauthorized)
	require.ErrorIs(t, p.Initialize(factoryAddr, tokenA, tokenA), pool.ErrIdenticalAddresses)
	require.ErrorIs(t, p.Initialize(factoryAddr, common.Address{}, tokenB), pool.ErrZeroAddress)
	require.False(t, p.Initialized())

	require.NoError(t, p.Initialize(factoryAddr, tokenA, tokenB))
	require.True(t, p.Initialized())
	require.Equal(t, tokenA, p.Token0())
	require.Equal(t, tokenB, p.Token1())
	require.Equal(t, factoryAddr, p.Factory())

	require.ErrorIs(t, p.Initialize(factoryAddr, tokenA, tokenB), pool.ErrAlreadyInitialized)
}

func TestInitializeUnknownToken(t *testing.T) {
	p, _, _ := newUninitialized(t)
	err := p.Initialize(factoryAddr, tokenA, common.HexToAddress("0x1000000000000000000000000000000000000009"))
	require.Error(t, err)
	require.False(t, p.Initialized())
}

func TestFirstMintLocksMinimumLiquidity(t *testing.T) {
	f := newFixture(t)

	liquidity := f.seed(t, 10000, 10000)
	require.Equal(t, uint64(9000), liquidity.Uint64())
	require.Equal(t, uint64(10000), f.pool.TotalSupply().Uint64())
	require.Equal(t, uint64(pool.MinimumLiquidity), f.pool.BalanceOf(common.Address{}).Uint64())
	require.Equal(t, uint64(9000), f.pool.BalanceOf(alice).Uint64())
	requireReserves(t, f.pool, 10000, 10000)

	require.Equal(t, []string{
		model.EventTransfer,
		model.EventTransfer,
		model.EventSync,
		model.EventMint,
	}, f.recorder.Names())

	events := f.recorder.Events()
	mint, ok := events[3].Data.(model.MintEventData)
	require.True(t, ok)
	require.Equal(t, "10000", mint.Amount0)
	require.Equal(t, "9000", mint.Liquidity)
}

func TestFirstMintTooSmall(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, 1000, 1000)

	before := f.pool.Digest()
	_, err := f.pool.Mint(alice, alice)
	require.ErrorIs(t, err, pool.ErrInsufficientLiquidityMinted)
	require.Equal(t, before, f.pool.Digest())
	require.True(t, f.pool.TotalSupply().IsZero())
	require.Empty(t, f.recorder.Names())
}

func TestSubsequentMintIsProportional(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10000, 40000)

	// Unbalanced deposit: the smaller side decides.
	f.deposit(t, 1000, 8000)
	liquidity, err := f.pool.Mint(alice, bob)
	require.NoError(t, err)
	// totalSupply is sqrt(10000*40000) = 20000.
	require.Equal(t, uint64(2000), liquidity.Uint64())
	require.Equal(t, uint64(2000), f.pool.BalanceOf(bob).Uint64())
	requireReserves(t, f.pool, 11000, 48000)
}

func TestMintWithoutDeposit(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10000, 10000)

	_, err := f.pool.Mint(alice, alice)
	require.ErrorIs(t, err, pool.ErrInsufficientLiquidityMinted)
}

func TestMintBurnRoundTrip(t *testing.T) {
	f := newFixture(t)
	start0 := f.token0.BalanceOf(alice)
	start1 := f.token1.BalanceOf(alice)

	liquidity := f.seed(t, 10000, 10000)
	require.NoError(t, f.pool.Transfer(alice, poolAddr, liquidity))
	amount0, amount1, err := f.pool.Burn(alice, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(9000), amount0.Uint64())
	require.Equal(t, uint64(9000), amount1.Uint64())

	// Only the locked minimum's share stays behind.
	lost0 := start0.Sub(start0, f.token0.BalanceOf(alice))
	lost1 := start1.Sub(start1, f.token1.BalanceOf(alice))
	require.Equal(t, uint64(1000), lost0.Uint64())
	require.Equal(t, uint64(1000), lost1.Uint64())
	require.Equal(t, uint64(pool.MinimumLiquidity), f.pool.TotalSupply().Uint64())
	requireReserves(t, f.pool, 1000, 1000)
}

func TestBurnNothing(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10000, 10000)

	_, _, err := f.pool.Burn(alice, alice)
	require.ErrorIs(t, err, pool.ErrInsufficientLiquidityBurned)
}

func TestBurnDustRoundsToZero(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 1000000, 1001)

	require.NoError(t, f.pool.Transfer(alice, poolAddr, u(1)))
	before := f.pool.Digest()
	_, _, err := f.pool.Burn(alice, alice)
	require.ErrorIs(t, err, pool.ErrInsufficientLiquidityBurned)
	require.Equal(t, before, f.pool.Digest())
}

func TestMintOverflow(t *testing.T) {
	f := newFixture(t)
	huge := pool.MaxReserve()
	huge.AddUint64(huge, 1)
	require.NoError(t, f.token0.Mint(poolAddr, huge))
	f.deposit(t, 0, 1000000)

	_, err := f.pool.Mint(alice, alice)
	require.ErrorIs(t, err, pool.ErrOverflow)
	require.True(t, f.pool.TotalSupply().IsZero())
}
