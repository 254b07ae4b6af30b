package pool

import "errors"

// Input validation.
var (
	ErrIdenticalAddresses = errors.New("identical addresses")
	ErrZeroAddress        = errors.New("zero address")
	ErrInvalidTo          = errors.New("invalid to")
	ErrInvalidFeeProtocol = errors.New("invalid fee protocol")
	ErrUnjournaledToken   = errors.New("token does not record on the pool journal")
)

// State conflicts.
var (
	ErrAlreadyInitialized = errors.New("pool already initialized")
	ErrNotInitialized     = errors.New("pool not initialized")
)

// Authorization.
var ErrUnauthorized = errors.New("caller is not authorized")

// Invariant and economic failures.
var (
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
	ErrInsufficientLiquidity       = errors.New("insufficient liquidity")
	ErrInsufficientInputAmount     = errors.New("insufficient input amount")
	ErrInsufficientOutputAmount    = errors.New("insufficient output amount")
	ErrKInvariantViolation         = errors.New("k invariant violation")
	ErrOverflow                    = errors.New("reserve overflow")
	ErrBalanceBelowReserve         = errors.New("token balance below synced reserve")
)

// LP-claim bookkeeping.
var (
	ErrInsufficientBalance   = errors.New("insufficient lp balance")
	ErrInsufficientAllowance = errors.New("insufficient lp allowance")
)

// Concurrency.
var ErrReentrancyGuarded = errors.New("reentrant call")
