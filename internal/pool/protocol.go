package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"liquidityFactory/internal/model"
)

// Protocol fee denominators: 0 disables the fee, otherwise 1/N of the swap
// fee accrues to the protocol.
const (
	FeeProtocolMin = 4
	FeeProtocolMax = 10
)

func validFeeProtocol(fee uint8) bool {
	return fee == 0 || (fee >= FeeProtocolMin && fee <= FeeProtocolMax)
}

// SetFeeProtocol sets the protocol share of swap fees for each token.
func (p *Pool) SetFeeProtocol(caller common.Address, feeProtocol0, feeProtocol1 uint8) error {
	return p.execute("set_fee_protocol", func(c *call) error {
		l := p.ledger
		if caller != l.owner {
			return ErrUnauthorized
		}
		if !validFeeProtocol(feeProtocol0) || !validFeeProtocol(feeProtocol1) {
			return ErrInvalidFeeProtocol
		}
		old0, old1 := l.feeProtocol0, l.feeProtocol1
		l.feeProtocol0 = feeProtocol0
		l.feeProtocol1 = feeProtocol1
		c.emit(model.EventSetFeeProtocol, model.SetFeeProtocolEventData{
			FeeProtocol0Old: old0,
			FeeProtocol1Old: old1,
			FeeProtocol0New: feeProtocol0,
			FeeProtocol1New: feeProtocol1,
		})
		return nil
	})
}

// CollectProtocol sends all accrued protocol fees to recipient. A zero
// recipient means the factory's fee-to account.
func (p *Pool) CollectProtocol(caller, recipient common.Address) (*uint256.Int, *uint256.Int, error) {
	var amount0, amount1 *uint256.Int
	err := p.execute("collect_protocol", func(c *call) error {
		l := p.ledger
		if caller != l.owner {
			return ErrUnauthorized
		}
		if err := p.requireInitialized(); err != nil {
			return err
		}
		if recipient == (common.Address{}) && p.feeTo != nil {
			recipient = p.feeTo.FeeTo()
		}
		if recipient == (common.Address{}) {
			return ErrZeroAddress
		}
		amount0 = l.protocolFees0.Clone()
		amount1 = l.protocolFees1.Clone()
		l.protocolFees0.Clear()
		l.protocolFees1.Clear()

		if err := c.transferOut(p.token0, "token0", recipient, amount0); err != nil {
			return err
		}
		if err := c.transferOut(p.token1, "token1", recipient, amount1); err != nil {
			return err
		}
		c.emit(model.EventCollectProtocol, model.CollectProtocolEventData{
			Sender:    caller.Hex(),
			Recipient: recipient.Hex(),
			Amount0:   amount0.Dec(),
			Amount1:   amount1.Dec(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

// TransferOwnership hands the protocol fee controls to newOwner.
func (p *Pool) TransferOwnership(caller, newOwner common.Address) error {
	return p.execute("transfer_ownership", func(c *call) error {
		l := p.ledger
		if caller != l.owner {
			return ErrUnauthorized
		}
		if newOwner == (common.Address{}) {
			return ErrZeroAddress
		}
		old := l.owner
		l.owner = newOwner
		c.emit(model.EventOwnerChanged, model.OwnerChangedEventData{
			OldOwner: old.Hex(),
			NewOwner: newOwner.Hex(),
		})
		return nil
	})
}
