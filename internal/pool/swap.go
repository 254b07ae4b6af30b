package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityFactory/internal/model"
)

// Swap sends the requested outputs to `to`, then derives the inputs from the
// pool's balances and checks the fee-adjusted constant-product invariant.
// Inputs must be transferred to the pool before the call.
func (p *Pool) Swap(caller common.Address, amount0Out, amount1Out *uint256.Int, to common.Address) error {
	return p.execute("swap", func(c *call) error {
		if err := p.requireInitialized(); err != nil {
			return err
		}
		if amount0Out.IsZero() && amount1Out.IsZero() {
			return ErrInsufficientOutputAmount
		}
		l := p.ledger
		reserve0, reserve1 := l.reserve0.Clone(), l.reserve1.Clone()
		if !amount0Out.Lt(reserve0) || !amount1Out.Lt(reserve1) {
			return ErrInsufficientLiquidity
		}
		if to == l.token0 || to == l.token1 {
			return ErrInvalidTo
		}

		if err := c.transferOut(p.token0, "token0", to, amount0Out); err != nil {
			return err
		}
		if err := c.transferOut(p.token1, "token1", to, amount1Out); err != nil {
			return err
		}

		balance0, balance1, err := p.balances()
		if err != nil {
			return err
		}
		if balance0.Gt(maxReserve) || balance1.Gt(maxReserve) {
			return ErrOverflow
		}
		amount0In := amountIn(balance0, reserve0, amount0Out)
		amount1In := amountIn(balance1, reserve1, amount1Out)
		if amount0In.IsZero() && amount1In.IsZero() {
			return ErrInsufficientInputAmount
		}

		adjusted := new(uint256.Int).Mul(feeAdjusted(balance0, amount0In), feeAdjusted(balance1, amount1In))
		k := new(uint256.Int).Mul(reserve0, reserve1)
		k.Mul(k, feeDenominatorSq)
		if adjusted.Lt(k) {
			return ErrKInvariantViolation
		}

		// The protocol's share of the fee leaves the reserves; the invariant
		// still holds since the share never exceeds the fee itself.
		cut0 := protocolCut(amount0In, l.feeProtocol0)
		cut1 := protocolCut(amount1In, l.feeProtocol1)
		l.protocolFees0.Add(&l.protocolFees0, cut0)
		l.protocolFees1.Add(&l.protocolFees1, cut1)
		balance0.Sub(balance0, cut0)
		balance1.Sub(balance1, cut1)

		if err := c.update(balance0, balance1); err != nil {
			return err
		}
		c.emit(model.EventSwap, model.SwapEventData{
			Sender:     caller.Hex(),
			To:         to.Hex(),
			Amount0In:  amount0In.Dec(),
			Amount1In:  amount1In.Dec(),
			Amount0Out: amount0Out.Dec(),
			Amount1Out: amount1Out.Dec(),
		})
		return nil
	})
}

// Sync forces the reserves to match the pool's token balances.
func (p *Pool) Sync(caller common.Address) error {
	return p.execute("sync", func(c *call) error {
		if err := p.requireInitialized(); err != nil {
			return err
		}
		balance0, balance1, err := p.balances()
		if err != nil {
			return err
		}
		return c.update(balance0, balance1)
	})
}

// Skim sends any token balance above the reserves to `to`.
func (p *Pool) Skim(caller, to common.Address) error {
	return p.execute("skim", func(c *call) error {
		if err := p.requireInitialized(); err != nil {
			return err
		}
		l := p.ledger
		balance0, balance1, err := p.balances()
		if err != nil {
			return err
		}
		if err := c.transferOut(p.token0, "token0", to, surplus(balance0, &l.reserve0)); err != nil {
			return err
		}
		return c.transferOut(p.token1, "token1", to, surplus(balance1, &l.reserve1))
	})
}

// amountIn is the part of balance above reserve-amountOut.
func amountIn(balance, reserve, amountOut *uint256.Int) *uint256.Int {
	remaining := new(uint256.Int).Sub(reserve, amountOut)
	if balance.Gt(remaining) {
		return new(uint256.Int).Sub(balance, remaining)
	}
	return new(uint256.Int)
}

func surplus(balance, reserve *uint256.Int) *uint256.Int {
	if balance.Gt(reserve) {
		return new(uint256.Int).Sub(balance, reserve)
	}
	return new(uint256.Int)
}

func protocolCut(amountIn *uint256.Int, feeProtocol uint8) *uint256.Int {
	if feeProtocol == 0 || amountIn.IsZero() {
		return new(uint256.Int)
	}
	fee := swapFee(amountIn)
	return fee.Div(fee, uint256.NewInt(uint64(feeProtocol)))
}
