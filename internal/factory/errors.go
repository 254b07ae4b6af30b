package factory

import "errors"

var (
	ErrIdenticalAddresses      = errors.New("identical addresses")
	ErrZeroAddress             = errors.New("zero address")
	ErrPairExists              = errors.New("pair exists")
	ErrTickSpacingIsZero       = errors.New("tick spacing is zero")
	ErrInvalidTickSpacing      = errors.New("invalid tick spacing")
	ErrInvalidFee              = errors.New("invalid fee")
	ErrFeeAmountEnabled        = errors.New("fee amount already enabled with a different tick spacing")
	ErrUnauthorized            = errors.New("caller is not the factory owner")
	ErrCallerIsNotFeeSetter    = errors.New("caller is not the fee setter")
	ErrPoolInstantiationFailed = errors.New("pool instantiation failed")
	ErrAddressInUse            = errors.New("address already in use")
)
