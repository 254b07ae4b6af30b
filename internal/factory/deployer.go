package factory

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"liquidityFactory/internal/pool"
	"liquidityFactory/internal/state"
	"liquidityFactory/internal/storage"
)

// DeployParams describes one pool instantiation.
type DeployParams struct {
	Factory common.Address
	Owner   common.Address
	Key     PoolKey
	Salt    common.Hash
	// FeeTo supplies the default protocol fee recipient.
	FeeTo pool.FeeRecipient
}

// Deployer instantiates an initialized pool at a deterministic address.
type Deployer interface {
	Deploy(params DeployParams) (*pool.Pool, error)
}

// Create2Deployer places pools at CREATE2(factory, salt, pool.CodeHash) and
// keeps the deployed instances addressable.
type Create2Deployer struct {
	mu        sync.RWMutex
	tokens    pool.TokenResolver
	journal   *state.Journal
	sink      storage.Sink
	logger    *zap.Logger
	instances map[common.Address]*pool.Pool
}

// NewCreate2Deployer builds pools that resolve their tokens through tokens and
// record on journal, which must be the journal those tokens record on.
func NewCreate2Deployer(tokens pool.TokenResolver, journal *state.Journal, sink storage.Sink, logger *zap.Logger) *Create2Deployer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Create2Deployer{
		tokens:    tokens,
		journal:   journal,
		sink:      sink,
		logger:    logger,
		instances: make(map[common.Address]*pool.Pool),
	}
}

// Deploy builds, initializes and records a pool. Nothing is recorded on failure.
func (d *Create2Deployer) Deploy(params DeployParams) (*pool.Pool, error) {
	address := crypto.CreateAddress2(params.Factory, params.Salt, pool.CodeHash.Bytes())

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.instances[address]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAddressInUse, address.Hex())
	}

	p := pool.New(pool.Config{
		Address: address,
		Factory: params.Factory,
		Owner:   params.Owner,
		Tokens:  d.tokens,
		Journal: d.journal,
		FeeTo:   params.FeeTo,
		Sink:    d.sink,
		Logger:  d.logger,
	})
	if err := p.Initialize(params.Factory, params.Key.Token0, params.Key.Token1); err != nil {
		return nil, fmt.Errorf("initialize pool: %w", err)
	}

	d.instances[address] = p
	return p, nil
}

// Pool returns the instance deployed at address.
func (d *Create2Deployer) Pool(address common.Address) (*pool.Pool, bool) {
	d.mu.RLock()
	p, ok := d.instances[address]
	d.mu.RUnlock()
	return p, ok
}
