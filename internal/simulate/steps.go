package simulate

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"liquidityFactory/internal/config"
	"liquidityFactory/internal/pool"
	"liquidityFactory/internal/token"
)

// stepContext resolves the fields of one step against its scenario.
type stepContext struct {
	sc   config.Scenario
	step config.Step
}

func (c stepContext) address(field, value string) (common.Address, error) {
	addr, err := c.sc.Resolve(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", field, err)
	}
	return addr, nil
}

// recipient resolves `to`, defaulting to the caller.
func (c stepContext) recipient(caller common.Address) (common.Address, error) {
	if c.step.To == "" {
		return caller, nil
	}
	return c.address("to", c.step.To)
}

func (c stepContext) amount(field, value string) (*uint256.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("%s is required", field)
	}
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid amount %q: %w", field, value, err)
	}
	return amount, nil
}

func (r *Runner) apply(sc config.Scenario, step config.Step) error {
	c := stepContext{sc: sc, step: step}
	switch step.Op {
	case OpDeployToken:
		return r.deployToken(c)
	case OpFaucet:
		return r.faucet(c)
	case OpTransfer:
		return r.transfer(c)
	case OpEnableFee:
		return r.enableFee(c)
	case OpSetOwner:
		return r.setOwner(c)
	case OpSetFeeTo, OpSetFeeToSetter:
		return r.setFeeTo(c)
	case OpCreatePool:
		return r.createPool(c)
	case OpAddLiquidity:
		return r.addLiquidity(c)
	case OpRemoveLiquidity:
		return r.removeLiquidity(c)
	case OpSwap:
		return r.swap(c)
	case OpSync, OpSkim, OpSetFeeProtocol, OpCollectProtocol, OpTransferPoolOwnership:
		return r.poolAdmin(c)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
}

func (r *Runner) token(c stepContext, field, value string) (*token.ERC20, error) {
	addr, err := c.address(field, value)
	if err != nil {
		return nil, err
	}
	return r.tokens.Get(addr)
}

// pool resolves the pool named by token_a, token_b and fee.
func (r *Runner) pool(c stepContext) (*pool.Pool, error) {
	tokenA, err := c.address("token_a", c.step.TokenA)
	if err != nil {
		return nil, err
	}
	tokenB, err := c.address("token_b", c.step.TokenB)
	if err != nil {
		return nil, err
	}
	addr, ok := r.factory.GetPool(tokenA, tokenB, c.step.Fee)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s fee %d", ErrPoolNotFound, tokenA.Hex(), tokenB.Hex(), c.step.Fee)
	}
	p, ok := r.deployer.Pool(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, addr.Hex())
	}
	return p, nil
}

func (r *Runner) deployToken(c stepContext) error {
	addr, err := c.address("token", c.step.Token)
	if err != nil {
		return err
	}
	symbol := c.step.Symbol
	if symbol == "" {
		symbol = c.step.Token
	}
	if _, err := r.tokens.Deploy(addr, symbol, c.step.Decimals); err != nil {
		return err
	}
	r.logger.Info("token deployed", zap.String("token", addr.Hex()), zap.String("symbol", symbol))
	return nil
}

func (r *Runner) faucet(c stepContext) error {
	tok, err := r.token(c, "token", c.step.Token)
	if err != nil {
		return err
	}
	to, err := c.address("to", c.step.To)
	if err != nil {
		return err
	}
	amount, err := c.amount("amount", c.step.Amount)
	if err != nil {
		return err
	}
	return tok.Mint(to, amount)
}

func (r *Runner) transfer(c stepContext) error {
	tok, err := r.token(c, "token", c.step.Token)
	if err != nil {
		return err
	}
	from, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	to, err := c.address("to", c.step.To)
	if err != nil {
		return err
	}
	amount, err := c.amount("amount", c.step.Amount)
	if err != nil {
		return err
	}
	return tok.Transfer(from, to, amount)
}

func (r *Runner) enableFee(c stepContext) error {
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	return r.factory.EnableFeeAmount(caller, c.step.Fee, c.step.TickSpacing)
}

func (r *Runner) setOwner(c stepContext) error {
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	newOwner, err := c.address("new_owner", c.step.NewOwner)
	if err != nil {
		return err
	}
	return r.factory.SetOwner(caller, newOwner)
}

// setFeeTo changes the factory's fee beneficiary (`to`) or its fee setter
// (`new_owner`).
func (r *Runner) setFeeTo(c stepContext) error {
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	if c.step.Op == OpSetFeeToSetter {
		setter, err := c.address("new_owner", c.step.NewOwner)
		if err != nil {
			return err
		}
		return r.factory.SetFeeToSetter(caller, setter)
	}
	to, err := c.address("to", c.step.To)
	if err != nil {
		return err
	}
	return r.factory.SetFeeTo(caller, to)
}

func (r *Runner) createPool(c stepContext) error {
	tokenA, err := c.address("token_a", c.step.TokenA)
	if err != nil {
		return err
	}
	tokenB, err := c.address("token_b", c.step.TokenB)
	if err != nil {
		return err
	}
	_, err = r.factory.CreatePool(tokenA, tokenB, c.step.Fee)
	return err
}

// addLiquidity deposits both amounts and mints. Deposits are undone if the
// mint fails, as a router would.
func (r *Runner) addLiquidity(c stepContext) error {
	p, err := r.pool(c)
	if err != nil {
		return err
	}
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	to, err := c.recipient(caller)
	if err != nil {
		return err
	}
	tokA, err := r.token(c, "token_a", c.step.TokenA)
	if err != nil {
		return err
	}
	tokB, err := r.token(c, "token_b", c.step.TokenB)
	if err != nil {
		return err
	}
	amountA, err := c.amount("amount_a", c.step.AmountA)
	if err != nil {
		return err
	}
	amountB, err := c.amount("amount_b", c.step.AmountB)
	if err != nil {
		return err
	}

	var liquidity *uint256.Int
	err = r.atomic(func() error {
		if err := tokA.Transfer(caller, p.Address(), amountA); err != nil {
			return fmt.Errorf("deposit token_a: %w", err)
		}
		if err := tokB.Transfer(caller, p.Address(), amountB); err != nil {
			return fmt.Errorf("deposit token_b: %w", err)
		}
		liquidity, err = p.Mint(caller, to)
		return err
	})
	if err != nil {
		return err
	}

	r.logger.Info("liquidity added", zap.String("pool", p.Address().Hex()), zap.String("liquidity", liquidity.Dec()))
	return nil
}

// removeLiquidity sends LP units to the pool and burns them. The transfer is
// undone if the burn fails.
func (r *Runner) removeLiquidity(c stepContext) error {
	p, err := r.pool(c)
	if err != nil {
		return err
	}
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	to, err := c.recipient(caller)
	if err != nil {
		return err
	}
	liquidity, err := c.amount("liquidity", c.step.Liquidity)
	if err != nil {
		return err
	}

	var amount0, amount1 *uint256.Int
	err = r.atomic(func() error {
		if err := p.Transfer(caller, p.Address(), liquidity); err != nil {
			return err
		}
		amount0, amount1, err = p.Burn(caller, to)
		return err
	})
	if err != nil {
		return err
	}

	r.logger.Info("liquidity removed",
		zap.String("pool", p.Address().Hex()),
		zap.String("amount0", amount0.Dec()),
		zap.String("amount1", amount1.Dec()),
	)
	return nil
}

// swap deposits amount_in of token_in and takes amount_out of the other
// token. Without amount_out the largest output the invariant allows is used.
func (r *Runner) swap(c stepContext) error {
	p, err := r.pool(c)
	if err != nil {
		return err
	}
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}
	to, err := c.recipient(caller)
	if err != nil {
		return err
	}
	tokenIn, err := r.token(c, "token_in", c.step.TokenIn)
	if err != nil {
		return err
	}
	zeroForOne := tokenIn.Address() == p.Token0()
	if !zeroForOne && tokenIn.Address() != p.Token1() {
		return fmt.Errorf("token_in %s is not in pool %s", tokenIn.Address().Hex(), p.Address().Hex())
	}
	amountIn, err := c.amount("amount_in", c.step.AmountIn)
	if err != nil {
		return err
	}

	var amountOut *uint256.Int
	if c.step.AmountOut != "" {
		if amountOut, err = c.amount("amount_out", c.step.AmountOut); err != nil {
			return err
		}
	} else {
		reserve0, reserve1 := p.Reserves()
		if !zeroForOne {
			reserve0, reserve1 = reserve1, reserve0
		}
		if amountOut, err = pool.GetAmountOut(amountIn, reserve0, reserve1); err != nil {
			return fmt.Errorf("quote: %w", err)
		}
	}

	amount0Out, amount1Out := new(uint256.Int), amountOut
	if !zeroForOne {
		amount0Out, amount1Out = amountOut, new(uint256.Int)
	}

	err = r.atomic(func() error {
		if err := tokenIn.Transfer(caller, p.Address(), amountIn); err != nil {
			return fmt.Errorf("deposit token_in: %w", err)
		}
		return p.Swap(caller, amount0Out, amount1Out, to)
	})
	if err != nil {
		return err
	}

	r.logger.Info("swap",
		zap.String("pool", p.Address().Hex()),
		zap.String("amount_in", amountIn.Dec()),
		zap.String("amount_out", amountOut.Dec()),
		zap.Bool("zero_for_one", zeroForOne),
	)
	return nil
}

func (r *Runner) poolAdmin(c stepContext) error {
	p, err := r.pool(c)
	if err != nil {
		return err
	}
	caller, err := c.address("caller", c.step.Caller)
	if err != nil {
		return err
	}

	switch c.step.Op {
	case OpSync:
		return p.Sync(caller)
	case OpSkim:
		to, err := c.recipient(caller)
		if err != nil {
			return err
		}
		return p.Skim(caller, to)
	case OpSetFeeProtocol:
		return p.SetFeeProtocol(caller, c.step.FeeProtocol0, c.step.FeeProtocol1)
	case OpCollectProtocol:
		// Without `to` the pool pays the factory's fee-to account.
		var to common.Address
		if c.step.To != "" {
			if to, err = c.address("to", c.step.To); err != nil {
				return err
			}
		}
		amount0, amount1, err := p.CollectProtocol(caller, to)
		if err != nil {
			return err
		}
		r.logger.Info("protocol fees collected", zap.String("amount0", amount0.Dec()), zap.String("amount1", amount1.Dec()))
		return nil
	case OpTransferPoolOwnership:
		newOwner, err := c.address("new_owner", c.step.NewOwner)
		if err != nil {
			return err
		}
		return p.TransferOwnership(caller, newOwner)
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, c.step.Op)
}

// atomic runs fn in one journal revision, so token moves and pool calls made
// by a step are all undone if any of them fails.
func (r *Runner) atomic(fn func() error) error {
	journal := r.tokens.Journal()
	id := journal.Snapshot()
	if err := fn(); err != nil {
		journal.RevertToSnapshot(id)
		return err
	}
	journal.DiscardSnapshot(id)
	return nil
}
