package stats

import (
	"fmt"

	"github.com/holiman/uint256"

	"liquidityFactory/internal/model"
	"liquidityFactory/internal/pool"
)

// Accumulator holds running totals for one pool.
type Accumulator struct {
	PoolAddress        string
	SwapCount          uint64
	MintCount          uint64
	BurnCount          uint64
	Volume0            *uint256.Int
	Volume1            *uint256.Int
	Fee0               *uint256.Int
	Fee1               *uint256.Int
	ProtocolCollected0 *uint256.Int
	ProtocolCollected1 *uint256.Int
	Reserve0           *uint256.Int
	Reserve1           *uint256.Int
	FirstSeq           uint64
	LastSeq            uint64
}

func NewAccumulator(poolAddress string) *Accumulator {
	return &Accumulator{
		PoolAddress:        poolAddress,
		Volume0:            new(uint256.Int),
		Volume1:            new(uint256.Int),
		Fee0:               new(uint256.Int),
		Fee1:               new(uint256.Int),
		ProtocolCollected0: new(uint256.Int),
		ProtocolCollected1: new(uint256.Int),
		Reserve0:           new(uint256.Int),
		Reserve1:           new(uint256.Int),
	}
}

// AddEvent folds one pool event into the totals. Unknown events only move the
// sequence bounds.
func (a *Accumulator) AddEvent(record model.EventRecordJSON) error {
	if a.FirstSeq == 0 || record.Seq < a.FirstSeq {
		a.FirstSeq = record.Seq
	}
	if record.Seq > a.LastSeq {
		a.LastSeq = record.Seq
	}

	switch record.EventName {
	case model.EventSwap:
		var swap model.SwapEventData
		if err := record.DecodeData(&swap); err != nil {
			return fmt.Errorf("decode swap: %w", err)
		}
		return a.applySwap(swap)
	case model.EventMint:
		a.MintCount++
	case model.EventBurn:
		a.BurnCount++
	case model.EventSync:
		var sync model.SyncEventData
		if err := record.DecodeData(&sync); err != nil {
			return fmt.Errorf("decode sync: %w", err)
		}
		return a.applySync(sync)
	case model.EventCollectProtocol:
		var collect model.CollectProtocolEventData
		if err := record.DecodeData(&collect); err != nil {
			return fmt.Errorf("decode collect: %w", err)
		}
		return a.applyCollect(collect)
	}
	return nil
}

func (a *Accumulator) applySwap(swap model.SwapEventData) error {
	amount0In, err := parseAmount(swap.Amount0In)
	if err != nil {
		return err
	}
	amount1In, err := parseAmount(swap.Amount1In)
	if err != nil {
		return err
	}

	a.Volume0.Add(a.Volume0, amount0In)
	a.Volume1.Add(a.Volume1, amount1In)
	a.Fee0.Add(a.Fee0, feeFromAmount(amount0In))
	a.Fee1.Add(a.Fee1, feeFromAmount(amount1In))
	a.SwapCount++
	return nil
}

func (a *Accumulator) applySync(sync model.SyncEventData) error {
	reserve0, err := parseAmount(sync.Reserve0)
	if err != nil {
		return err
	}
	reserve1, err := parseAmount(sync.Reserve1)
	if err != nil {
		return err
	}
	a.Reserve0.Set(reserve0)
	a.Reserve1.Set(reserve1)
	return nil
}

func (a *Accumulator) applyCollect(collect model.CollectProtocolEventData) error {
	amount0, err := parseAmount(collect.Amount0)
	if err != nil {
		return err
	}
	amount1, err := parseAmount(collect.Amount1)
	if err != nil {
		return err
	}
	a.ProtocolCollected0.Add(a.ProtocolCollected0, amount0)
	a.ProtocolCollected1.Add(a.ProtocolCollected1, amount1)
	return nil
}

// Stats converts the totals for storage.
func (a *Accumulator) Stats() model.PoolStats {
	return model.PoolStats{
		PoolAddress:        a.PoolAddress,
		SwapCount:          a.SwapCount,
		MintCount:          a.MintCount,
		BurnCount:          a.BurnCount,
		Volume0:            a.Volume0.Dec(),
		Volume1:            a.Volume1.Dec(),
		Fee0:               a.Fee0.Dec(),
		Fee1:               a.Fee1.Dec(),
		ProtocolCollected0: a.ProtocolCollected0.Dec(),
		ProtocolCollected1: a.ProtocolCollected1.Dec(),
		Reserve0:           a.Reserve0.Dec(),
		Reserve1:           a.Reserve1.Dec(),
		FirstSeq:           a.FirstSeq,
		LastSeq:            a.LastSeq,
	}
}

func parseAmount(value string) (*uint256.Int, error) {
	if value == "" {
		return new(uint256.Int), nil
	}
	parsed, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return parsed, nil
}

// feeFromAmount is the LP fee charged on a swap input.
func feeFromAmount(amountIn *uint256.Int) *uint256.Int {
	fee := new(uint256.Int).Mul(amountIn, uint256.NewInt(pool.SwapFeeNumerator))
	return fee.Div(fee, uint256.NewInt(pool.SwapFeeDenominator))
}
