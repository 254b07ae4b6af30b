// Package factory deploys and indexes liquidity pools keyed by an unordered
// token pair and a fee tier.
package factory

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityFactory/internal/model"
	"liquidityFactory/internal/storage"
)

// Config wires a factory to its collaborators.
type Config struct {
	Address common.Address
	Owner   common.Address
	// FeeToSetter may change the protocol fee beneficiary. Defaults to Owner.
	FeeToSetter common.Address
	Deployer    Deployer
	Sink        storage.Sink
	Logger      *zap.Logger
}

// Factory registers fee tiers and creates pools. Every mutating call either
// commits all of its effects or none.
type Factory struct {
	mu       sync.Mutex
	address  common.Address
	owner    common.Address
	feeTo    common.Address
	setter   common.Address
	feeTiers *FeeTierRegistry
	index    *PoolIndex
	deployer Deployer
	sink     storage.Sink
	logger   *zap.Logger
}

func New(cfg Config) *Factory {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	setter := cfg.FeeToSetter
	if setter == (common.Address{}) {
		setter = cfg.Owner
	}
	return &Factory{
		address:  cfg.Address,
		owner:    cfg.Owner,
		setter:   setter,
		feeTiers: NewFeeTierRegistry(),
		index:    NewPoolIndex(),
		deployer: cfg.Deployer,
		sink:     cfg.Sink,
		logger:   logger,
	}
}

func (f *Factory) Address() common.Address { return f.address }

func (f *Factory) Owner() common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owner
}

// SetOwner hands the factory to newOwner.
func (f *Factory) SetOwner(caller, newOwner common.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if caller != f.owner {
		return ErrUnauthorized
	}
	old := f.owner
	f.owner = newOwner
	f.publish(model.EventOwnerChanged, model.OwnerChangedEventData{
		OldOwner: old.Hex(),
		NewOwner: newOwner.Hex(),
	})
	f.logger.Info("owner changed", zap.String("old", old.Hex()), zap.String("new", newOwner.Hex()))
	return nil
}

// FeeTo is where pools send collected protocol fees when no recipient is
// given. The zero address means unset.
func (f *Factory) FeeTo() common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feeTo
}

func (f *Factory) FeeToSetter() common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setter
}

// SetFeeTo changes the protocol fee beneficiary. Only the fee setter may call it.
func (f *Factory) SetFeeTo(caller, feeTo common.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if caller != f.setter {
		return ErrCallerIsNotFeeSetter
	}
	old := f.feeTo
	f.feeTo = feeTo
	f.publish(model.EventFeeToChanged, model.FeeToChangedEventData{Old: old.Hex(), New: feeTo.Hex()})
	f.logger.Info("fee to changed", zap.String("old", old.Hex()), zap.String("new", feeTo.Hex()))
	return nil
}

// SetFeeToSetter hands the fee setter role to setter.
func (f *Factory) SetFeeToSetter(caller, setter common.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if caller != f.setter {
		return ErrCallerIsNotFeeSetter
	}
	if setter == (common.Address{}) {
		return ErrZeroAddress
	}
	old := f.setter
	f.setter = setter
	f.publish(model.EventFeeSetterChanged, model.FeeToChangedEventData{Old: old.Hex(), New: setter.Hex()})
	return nil
}

// EnableFeeAmount enables fee with the given tick spacing.
func (f *Factory) EnableFeeAmount(caller common.Address, fee uint32, tickSpacing int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if caller != f.owner {
		return ErrUnauthorized
	}
	changed, err := f.feeTiers.Enable(fee, tickSpacing)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	f.publish(model.EventFeeAmountEnabled, model.FeeAmountEnabledEventData{
		Fee:         fee,
		TickSpacing: tickSpacing,
	})
	f.logger.Info("fee amount enabled", zap.Uint32("fee", fee), zap.Int32("tick_spacing", tickSpacing))
	return nil
}

// FeeAmountTickSpacing returns the tick spacing of fee, 0 when disabled.
func (f *Factory) FeeAmountTickSpacing(fee uint32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feeTiers.TickSpacing(fee)
}

// FeeTiers lists the enabled fee tiers.
func (f *Factory) FeeTiers() []model.FeeTier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feeTiers.Tiers()
}

// CreatePool deploys the pool for (tokenA, tokenB, fee) and returns its address.
func (f *Factory) CreatePool(tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key, err := NewPoolKey(tokenA, tokenB, fee)
	if err != nil {
		return common.Address{}, err
	}
	if _, ok := f.index.Get(key); ok {
		return common.Address{}, ErrPairExists
	}
	tickSpacing := f.feeTiers.TickSpacing(fee)
	if tickSpacing == 0 {
		return common.Address{}, ErrTickSpacingIsZero
	}
	if f.deployer == nil {
		return common.Address{}, fmt.Errorf("%w: no deployer", ErrPoolInstantiationFailed)
	}

	salt := key.Salt()
	expected := ComputeAddress(f.address, key)
	if _, ok := f.index.ByAddress(expected); ok {
		return common.Address{}, fmt.Errorf("%w: %w", ErrPoolInstantiationFailed, ErrAddressInUse)
	}

	deployed, err := f.deployer.Deploy(DeployParams{
		Factory: f.address,
		Owner:   f.owner,
		Key:     key,
		Salt:    salt,
		FeeTo:   f,
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrPoolInstantiationFailed, err)
	}
	if deployed == nil || deployed.Address() != expected {
		return common.Address{}, fmt.Errorf("%w: pool not at derived address %s", ErrPoolInstantiationFailed, expected.Hex())
	}

	rec, err := f.index.Insert(key, expected, tickSpacing, salt)
	if err != nil {
		return common.Address{}, err
	}

	f.publish(model.EventPoolCreated, model.PoolCreatedEventData{
		Token0:      key.Token0.Hex(),
		Token1:      key.Token1.Hex(),
		Fee:         fee,
		TickSpacing: tickSpacing,
		Pool:        rec.Address.Hex(),
		PoolLen:     uint64(f.index.Len()),
	})
	f.logger.Info("pool created",
		zap.String("pool", rec.Address.Hex()),
		zap.String("token0", key.Token0.Hex()),
		zap.String("token1", key.Token1.Hex()),
		zap.Uint32("fee", fee),
		zap.Int32("tick_spacing", tickSpacing),
		zap.Uint64("pid", rec.Index),
	)
	return rec.Address, nil
}

// GetPool resolves an unordered pair and fee to a pool address.
func (f *Factory) GetPool(tokenA, tokenB common.Address, fee uint32) (common.Address, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index.Lookup(tokenA, tokenB, fee)
}

// AllPools returns the pid-th pool created.
func (f *Factory) AllPools(pid uint64) (common.Address, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.index.At(pid)
	return rec.Address, ok
}

func (f *Factory) AllPoolsLength() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(f.index.Len())
}

// Pools returns every pool record in creation order.
func (f *Factory) Pools() []PoolRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index.Records()
}

func (f *Factory) publish(name string, data interface{}) {
	if f.sink == nil {
		return
	}
	err := f.sink.PutEvents([]model.EventRecord{{
		Contract:  f.address.Hex(),
		EventName: name,
		Data:      data,
	}})
	if err != nil {
		f.logger.Warn("publish event failed", zap.String("event", name), zap.Error(err))
	}
}

