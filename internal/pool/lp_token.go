package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityFactory/internal/model"
)

// maxAllowance is treated as infinite: TransferFrom never decreases it.
var maxAllowance = new(uint256.Int).SetAllOne()

// TotalSupply returns the LP units in circulation, including the locked minimum.
func (p *Pool) TotalSupply() *uint256.Int {
	return p.ledger.totalSupply.Clone()
}

// BalanceOf returns the LP units held by account.
func (p *Pool) BalanceOf(account common.Address) *uint256.Int {
	return p.ledger.balanceOf(account)
}

// Allowance returns how many of owner's LP units spender may move.
func (p *Pool) Allowance(owner, spender common.Address) *uint256.Int {
	return p.ledger.allowance(owner, spender)
}

// Approve sets spender's allowance over caller's LP units.
func (p *Pool) Approve(caller, spender common.Address, amount *uint256.Int) error {
	return p.execute("approve", func(c *call) error {
		c.approveLP(caller, spender, amount)
		return nil
	})
}

// Transfer moves LP units from caller to `to`.
func (p *Pool) Transfer(caller, to common.Address, amount *uint256.Int) error {
	return p.execute("transfer", func(c *call) error {
		return c.transferLP(caller, to, amount)
	})
}

// TransferFrom moves LP units from `from` to `to` using caller's allowance.
func (p *Pool) TransferFrom(caller, from, to common.Address, amount *uint256.Int) error {
	return p.execute("transfer_from", func(c *call) error {
		allowance := p.ledger.allowance(from, caller)
		if !allowance.Eq(maxAllowance) {
			if allowance.Lt(amount) {
				return ErrInsufficientAllowance
			}
			c.approveLP(from, caller, allowance.Sub(allowance, amount))
		}
		return c.transferLP(from, to, amount)
	})
}

func (c *call) mintLP(to common.Address, amount *uint256.Int) error {
	if err := c.pool.ledger.mint(to, amount); err != nil {
		return err
	}
	c.emit(model.EventTransfer, model.TransferEventData{To: to.Hex(), Value: amount.Dec()})
	return nil
}

func (c *call) burnLP(from common.Address, amount *uint256.Int) error {
	if err := c.pool.ledger.burn(from, amount); err != nil {
		return err
	}
	c.emit(model.EventTransfer, model.TransferEventData{From: from.Hex(), Value: amount.Dec()})
	return nil
}

func (c *call) transferLP(from, to common.Address, amount *uint256.Int) error {
	if err := c.pool.ledger.transfer(from, to, amount); err != nil {
		return err
	}
	c.emit(model.EventTransfer, model.TransferEventData{From: from.Hex(), To: to.Hex(), Value: amount.Dec()})
	return nil
}

func (c *call) approveLP(owner, spender common.Address, amount *uint256.Int) {
	c.pool.ledger.approve(owner, spender, amount)
	c.emit(model.EventApproval, model.ApprovalEventData{
		Owner:   owner.Hex(),
		Spender: spender.Hex(),
		Value:   amount.Dec(),
	})
}
