package pool

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const (
	// SwapFeeNumerator over SwapFeeDenominator is the fee taken from every swap input.
	SwapFeeNumerator   = 3
	SwapFeeDenominator = 1000

	// MinimumLiquidity LP units are locked at the zero address on the first mint.
	MinimumLiquidity = 1000
)

// CodeHash identifies the pool engine version in deterministic address derivation.
var CodeHash = crypto.Keccak256Hash([]byte("liquidityFactory/pool/v1"))

var (
	minimumLiquidity = uint256.NewInt(MinimumLiquidity)
	feeNumerator     = uint256.NewInt(SwapFeeNumerator)
	feeDenominator   = uint256.NewInt(SwapFeeDenominator)
	feeDenominatorSq = uint256.NewInt(SwapFeeDenominator * SwapFeeDenominator)

	// maxReserve is 2^112-1, which keeps fee-scaled invariant products inside 256 bits.
	maxReserve = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 112), 1)
)

// MaxReserve returns the largest reserve a pool can hold.
func MaxReserve() *uint256.Int {
	return maxReserve.Clone()
}

// mulDiv returns floor(x*y/d).
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	product, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return product.Div(product, d), nil
}

func minInt(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a
	}
	return b
}

// excess returns balance-reserve and fails when the balance drifted below the reserve.
func excess(balance, reserve *uint256.Int) (*uint256.Int, error) {
	if balance.Lt(reserve) {
		return nil, ErrBalanceBelowReserve
	}
	return new(uint256.Int).Sub(balance, reserve), nil
}

// swapFee returns the fee charged on an input amount.
func swapFee(amountIn *uint256.Int) *uint256.Int {
	fee := new(uint256.Int).Mul(amountIn, feeNumerator)
	return fee.Div(fee, feeDenominator)
}

// feeAdjusted returns balance*1000 - amountIn*3.
func feeAdjusted(balance, amountIn *uint256.Int) *uint256.Int {
	scaled := new(uint256.Int).Mul(balance, feeDenominator)
	return scaled.Sub(scaled, new(uint256.Int).Mul(amountIn, feeNumerator))
}

// GetAmountOut quotes the largest output a swap of amountIn can take from a
// pool holding reserveIn/reserveOut without breaking the invariant.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	if amountIn.Gt(maxReserve) || reserveIn.Gt(maxReserve) || reserveOut.Gt(maxReserve) {
		return nil, ErrOverflow
	}
	// amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997)
	withFee := new(uint256.Int).Mul(amountIn, uint256.NewInt(SwapFeeDenominator-SwapFeeNumerator))
	numerator := new(uint256.Int).Mul(withFee, reserveOut)
	denominator := new(uint256.Int).Mul(reserveIn, feeDenominator)
	denominator.Add(denominator, withFee)
	return numerator.Div(numerator, denominator), nil
}
