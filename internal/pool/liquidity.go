package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityFactory/internal/model"
)

// Initialize fixes the token pair. Only the factory may call it, once, before
// any liquidity exists.
func (p *Pool) Initialize(caller, token0, token1 common.Address) error {
	return p.execute("initialize", func(c *call) error {
		l := p.ledger
		if caller != l.factory {
			return ErrUnauthorized
		}
		if l.initialized || !l.totalSupply.IsZero() {
			return ErrAlreadyInitialized
		}
		if token0 == token1 {
			return ErrIdenticalAddresses
		}
		if token0 == (common.Address{}) || token1 == (common.Address{}) {
			return ErrZeroAddress
		}
		if p.tokens == nil {
			return fmt.Errorf("resolve tokens: no token resolver")
		}
		t0, err := p.tokens.Token(token0)
		if err != nil {
			return fmt.Errorf("resolve token0: %w", err)
		}
		t1, err := p.tokens.Token(token1)
		if err != nil {
			return fmt.Errorf("resolve token1: %w", err)
		}
		for _, tok := range []Token{t0, t1} {
			if tok.Journal() == nil || tok.Journal() != p.journal {
				return ErrUnjournaledToken
			}
		}

		l.token0 = token0
		l.token1 = token1
		l.initialized = true
		p.token0 = t0
		p.token1 = t1
		return nil
	})
}

// Mint issues LP units to `to` for the tokens deposited since the last sync.
// The first mint locks MinimumLiquidity units at the zero address.
func (p *Pool) Mint(caller, to common.Address) (*uint256.Int, error) {
	var liquidity *uint256.Int
	err := p.execute("mint", func(c *call) error {
		if err := p.requireInitialized(); err != nil {
			return err
		}
		l := p.ledger
		balance0, balance1, err := p.balances()
		if err != nil {
			return err
		}
		amount0, err := excess(balance0, &l.reserve0)
		if err != nil {
			return fmt.Errorf("token0 deposit: %w", err)
		}
		amount1, err := excess(balance1, &l.reserve1)
		if err != nil {
			return fmt.Errorf("token1 deposit: %w", err)
		}

		if l.totalSupply.IsZero() {
			product, overflow := new(uint256.Int).MulOverflow(amount0, amount1)
			if overflow {
				return ErrOverflow
			}
			root := new(uint256.Int).Sqrt(product)
			if !root.Gt(minimumLiquidity) {
				return ErrInsufficientLiquidityMinted
			}
			liquidity = root.Sub(root, minimumLiquidity)
			if err := c.mintLP(common.Address{}, minimumLiquidity); err != nil {
				return err
			}
		} else {
			liquidity0, err := mulDiv(amount0, &l.totalSupply, &l.reserve0)
			if err != nil {
				return err
			}
			liquidity1, err := mulDiv(amount1, &l.totalSupply, &l.reserve1)
			if err != nil {
				return err
			}
			liquidity = minInt(liquidity0, liquidity1)
		}
		if liquidity.IsZero() {
			return ErrInsufficientLiquidityMinted
		}

		if err := c.mintLP(to, liquidity); err != nil {
			return err
		}
		if err := c.update(balance0, balance1); err != nil {
			return err
		}
		c.emit(model.EventMint, model.MintEventData{
			Sender:    caller.Hex(),
			To:        to.Hex(),
			Amount0:   amount0.Dec(),
			Amount1:   amount1.Dec(),
			Liquidity: liquidity.Dec(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return liquidity, nil
}

// Burn redeems the LP units held by the pool itself and sends the
// proportional share of both reserves to `to`.
func (p *Pool) Burn(caller, to common.Address) (*uint256.Int, *uint256.Int, error) {
	var amount0, amount1 *uint256.Int
	err := p.execute("burn", func(c *call) error {
		if err := p.requireInitialized(); err != nil {
			return err
		}
		l := p.ledger
		liquidity := l.balanceOf(p.address)
		if liquidity.IsZero() || l.totalSupply.IsZero() {
			return ErrInsufficientLiquidityBurned
		}

		var err error
		amount0, err = mulDiv(liquidity, &l.reserve0, &l.totalSupply)
		if err != nil {
			return err
		}
		amount1, err = mulDiv(liquidity, &l.reserve1, &l.totalSupply)
		if err != nil {
			return err
		}
		if amount0.IsZero() || amount1.IsZero() {
			return ErrInsufficientLiquidityBurned
		}

		if err := c.burnLP(p.address, liquidity); err != nil {
			return err
		}
		if err := c.transferOut(p.token0, "token0", to, amount0); err != nil {
			return err
		}
		if err := c.transferOut(p.token1, "token1", to, amount1); err != nil {
			return err
		}

		balance0, balance1, err := p.balances()
		if err != nil {
			return err
		}
		if err := c.update(balance0, balance1); err != nil {
			return err
		}
		c.emit(model.EventBurn, model.BurnEventData{
			Sender:    caller.Hex(),
			To:        to.Hex(),
			Amount0:   amount0.Dec(),
			Amount1:   amount1.Dec(),
			Liquidity: liquidity.Dec(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}
