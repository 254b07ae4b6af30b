// Package pool implements the reserve-based liquidity pool engine: LP-claim
// accounting, mint/burn/swap/sync/skim and the protocol fee controls.
package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"liquidityFactory/internal/model"
	"liquidityFactory/internal/state"
	"liquidityFactory/internal/storage"
)

// Config wires a pool to its collaborators.
type Config struct {
	Address common.Address
	// Factory is the only account allowed to call Initialize.
	Factory common.Address
	// Owner controls the protocol fee.
	Owner  common.Address
	Tokens TokenResolver
	// Journal is shared with the pool's tokens and with every other pool a
	// call can reach. A fresh journal is used when nil.
	Journal *state.Journal
	// FeeTo is consulted by CollectProtocol when no recipient is given.
	FeeTo  FeeRecipient
	Sink   storage.Sink
	Logger *zap.Logger
}

// Pool is one deployed pair. Calls run one at a time; see guard.
type Pool struct {
	address common.Address
	guard   guard
	ledger  *Ledger
	journal *state.Journal

	token0 Token
	token1 Token

	tokens TokenResolver
	feeTo  FeeRecipient
	sink   storage.Sink
	logger *zap.Logger
}

// New builds an uninitialized pool with an empty ledger.
func New(cfg Config) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	journal := cfg.Journal
	if journal == nil {
		journal = state.NewJournal()
	}
	return &Pool{
		address: cfg.Address,
		ledger:  newLedger(cfg.Factory, cfg.Owner),
		journal: journal,
		tokens:  cfg.Tokens,
		feeTo:   cfg.FeeTo,
		sink:    cfg.Sink,
		logger:  logger.With(zap.String("pool", cfg.Address.Hex())),
	}
}

func (p *Pool) Address() common.Address { return p.address }
func (p *Pool) Factory() common.Address { return p.ledger.factory }
func (p *Pool) Owner() common.Address   { return p.ledger.owner }
func (p *Pool) Token0() common.Address  { return p.ledger.token0 }
func (p *Pool) Token1() common.Address  { return p.ledger.token1 }
func (p *Pool) Initialized() bool       { return p.ledger.initialized }

// Reserves returns the synced reserves.
func (p *Pool) Reserves() (*uint256.Int, *uint256.Int) {
	return p.ledger.reserve0.Clone(), p.ledger.reserve1.Clone()
}

// FeeProtocol returns the protocol fee denominators for each token; 0 means off.
func (p *Pool) FeeProtocol() (uint8, uint8) {
	return p.ledger.feeProtocol0, p.ledger.feeProtocol1
}

// ProtocolFees returns the accrued, uncollected protocol fees.
func (p *Pool) ProtocolFees() (*uint256.Int, *uint256.Int) {
	return p.ledger.protocolFees0.Clone(), p.ledger.protocolFees1.Clone()
}

// Digest returns a BLAKE3 digest of the ledger.
func (p *Pool) Digest() [32]byte {
	return p.ledger.digest()
}

// State returns a storage snapshot of the ledger.
func (p *Pool) State() model.PoolState {
	l := p.ledger
	digest := l.digest()
	return model.PoolState{
		Address:       p.address.Hex(),
		Token0:        l.token0.Hex(),
		Token1:        l.token1.Hex(),
		Reserve0:      l.reserve0.Dec(),
		Reserve1:      l.reserve1.Dec(),
		TotalSupply:   l.totalSupply.Dec(),
		FeeProtocol0:  l.feeProtocol0,
		FeeProtocol1:  l.feeProtocol1,
		ProtocolFees0: l.protocolFees0.Dec(),
		ProtocolFees1: l.protocolFees1.Dec(),
		Owner:         l.owner.Hex(),
		StateDigest:   hexutil.Encode(digest[:]),
	}
}

// call collects the events of one guarded invocation. They are published
// only if the invocation succeeds.
type call struct {
	pool   *Pool
	events []model.EventRecord
}

func (c *call) emit(name string, data interface{}) {
	c.events = append(c.events, model.EventRecord{
		Contract:  c.pool.address.Hex(),
		EventName: name,
		Data:      data,
	})
}

// execute runs fn under the reentrancy guard inside a journal revision. The
// ledger restore is journaled like any token change, so a failure here or in
// any enclosing call rolls back this pool together with every token moved and
// every other pool reached. Events are published once the outermost call
// commits.
func (p *Pool) execute(op string, fn func(c *call) error) error {
	if err := p.guard.enter(); err != nil {
		return err
	}
	defer p.guard.exit()

	id := p.journal.Snapshot()
	saved, token0, token1 := p.ledger.clone(), p.token0, p.token1
	p.journal.Append(func() {
		p.ledger, p.token0, p.token1 = saved, token0, token1
	})
	c := &call{pool: p}

	if err := fn(c); err != nil {
		p.journal.RevertToSnapshot(id)
		p.logger.Debug("call reverted", zap.String("op", op), zap.Error(err))
		return err
	}

	if events := c.events; len(events) > 0 {
		p.journal.OnCommit(func() { p.publish(events) })
	}
	p.journal.DiscardSnapshot(id)
	p.logger.Debug("call complete", zap.String("op", op), zap.Int("events", len(c.events)))
	return nil
}

func (p *Pool) publish(events []model.EventRecord) {
	if p.sink == nil || len(events) == 0 {
		return
	}
	if err := p.sink.PutEvents(events); err != nil {
		p.logger.Warn("publish events failed", zap.Error(err))
	}
}

func (p *Pool) requireInitialized() error {
	if !p.ledger.initialized {
		return ErrNotInitialized
	}
	return nil
}

// balances returns the pool's token balances net of accrued protocol fees.
func (p *Pool) balances() (*uint256.Int, *uint256.Int, error) {
	balance0, err := excess(p.token0.BalanceOf(p.address), &p.ledger.protocolFees0)
	if err != nil {
		return nil, nil, fmt.Errorf("token0 balance: %w", err)
	}
	balance1, err := excess(p.token1.BalanceOf(p.address), &p.ledger.protocolFees1)
	if err != nil {
		return nil, nil, fmt.Errorf("token1 balance: %w", err)
	}
	return balance0, balance1, nil
}

// update syncs the reserves to the given balances and records a Sync event.
func (c *call) update(balance0, balance1 *uint256.Int) error {
	if balance0.Gt(maxReserve) || balance1.Gt(maxReserve) {
		return ErrOverflow
	}
	l := c.pool.ledger
	l.reserve0.Set(balance0)
	l.reserve1.Set(balance1)
	c.emit(model.EventSync, model.SyncEventData{
		Reserve0: balance0.Dec(),
		Reserve1: balance1.Dec(),
	})
	return nil
}

func (c *call) transferOut(tok Token, name string, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := tok.Transfer(c.pool.address, to, amount); err != nil {
		return fmt.Errorf("transfer %s: %w", name, err)
	}
	return nil
}
