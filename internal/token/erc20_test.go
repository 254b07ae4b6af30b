package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"liquidityFactory/internal/state"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca401")
)

func TestTransferAndAllowance(t *testing.T) {
	tok := NewERC20(nil, common.HexToAddress("0x1000000000000000000000000000000000000001"), "AAA", 18)
	require.NoError(t, tok.Mint(alice, uint256.NewInt(100)))

	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(40)))
	require.Equal(t, uint64(60), tok.BalanceOf(alice).Uint64())
	require.Equal(t, uint64(40), tok.BalanceOf(bob).Uint64())

	require.ErrorIs(t, tok.Transfer(alice, bob, uint256.NewInt(61)), ErrInsufficientBalance)
	require.ErrorIs(t, tok.Transfer(alice, common.Address{}, uint256.NewInt(1)), ErrZeroAddress)

	tok.Approve(alice, carol, uint256.NewInt(10))
	require.ErrorIs(t, tok.TransferFrom(carol, alice, bob, uint256.NewInt(11)), ErrInsufficientAllowance)
	require.NoError(t, tok.TransferFrom(carol, alice, bob, uint256.NewInt(10)))
	require.True(t, tok.Allowance(alice, carol).IsZero())
	require.Equal(t, uint64(50), tok.BalanceOf(bob).Uint64())
	require.Equal(t, uint64(100), tok.TotalSupply().Uint64())
}

func TestJournalRevertAndDiscard(t *testing.T) {
	journal := state.NewJournal()
	tok := NewERC20(journal, common.HexToAddress("0x1000000000000000000000000000000000000001"), "AAA", 18)
	require.NoError(t, tok.Mint(alice, uint256.NewInt(100)))
	require.Zero(t, journal.Len(), "changes outside a revision are not kept")

	id := journal.Snapshot()
	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(30)))
	inner := journal.Snapshot()
	require.NoError(t, tok.Transfer(bob, carol, uint256.NewInt(5)))
	journal.RevertToSnapshot(inner)
	require.Equal(t, uint64(30), tok.BalanceOf(bob).Uint64())
	require.True(t, tok.BalanceOf(carol).IsZero())

	tok.Approve(alice, carol, uint256.NewInt(7))
	require.NoError(t, tok.Mint(carol, uint256.NewInt(50)))
	journal.RevertToSnapshot(id)
	require.Equal(t, uint64(100), tok.BalanceOf(alice).Uint64())
	require.True(t, tok.BalanceOf(bob).IsZero())
	require.True(t, tok.BalanceOf(carol).IsZero())
	require.True(t, tok.Allowance(alice, carol).IsZero())
	require.Equal(t, uint64(100), tok.TotalSupply().Uint64())

	id = journal.Snapshot()
	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(1)))
	journal.DiscardSnapshot(id)
	require.Equal(t, uint64(1), tok.BalanceOf(bob).Uint64())
	require.Zero(t, journal.Len())
	require.Zero(t, journal.Depth())
}

func TestTransferHookRuns(t *testing.T) {
	tok := NewERC20(nil, common.HexToAddress("0x1000000000000000000000000000000000000001"), "AAA", 18)
	require.NoError(t, tok.Mint(alice, uint256.NewInt(10)))

	var seen []uint64
	tok.SetTransferHook(func(from, to common.Address, amount *uint256.Int) {
		seen = append(seen, amount.Uint64())
	})
	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(3)))
	require.Error(t, tok.Transfer(alice, bob, uint256.NewInt(30)))
	require.Equal(t, []uint64{3}, seen)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	a := common.HexToAddress("0x2000000000000000000000000000000000000002")
	b := common.HexToAddress("0x1000000000000000000000000000000000000001")

	_, err := reg.Deploy(a, "A", 18)
	require.NoError(t, err)
	_, err = reg.Deploy(b, "B", 6)
	require.NoError(t, err)
	_, err = reg.Deploy(a, "A2", 18)
	require.Error(t, err)
	_, err = reg.Deploy(common.Address{}, "Z", 18)
	require.ErrorIs(t, err, ErrZeroAddress)

	tok, err := reg.Get(b)
	require.NoError(t, err)
	require.Equal(t, "B", tok.Symbol())
	_, err = reg.Get(carol)
	require.Error(t, err)

	require.Same(t, reg.Journal(), tok.Journal())

	all := reg.All()
	require.Len(t, all, 2)
	require.Equal(t, b, all[0].Address())
}
