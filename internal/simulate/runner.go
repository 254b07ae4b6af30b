// Package simulate drives a factory and its pools through a scripted scenario.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityFactory/internal/config"
	"liquidityFactory/internal/factory"
	"liquidityFactory/internal/model"
	"liquidityFactory/internal/pool"
	"liquidityFactory/internal/storage"
	"liquidityFactory/internal/token"
)

// Scenario step operations.
const (
	OpDeployToken           = "deploy-token"
	OpFaucet                = "faucet"
	OpTransfer              = "transfer"
	OpEnableFee             = "enable-fee"
	OpSetOwner              = "set-owner"
	OpSetFeeTo              = "set-fee-to"
	OpSetFeeToSetter        = "set-fee-to-setter"
	OpCreatePool            = "create-pool"
	OpAddLiquidity          = "add-liquidity"
	OpRemoveLiquidity       = "remove-liquidity"
	OpSwap                  = "swap"
	OpSync                  = "sync"
	OpSkim                  = "skim"
	OpSetFeeProtocol        = "set-fee-protocol"
	OpCollectProtocol       = "collect-protocol"
	OpTransferPoolOwnership = "transfer-pool-ownership"
)

var (
	ErrUnknownOp    = errors.New("unknown op")
	ErrPoolNotFound = errors.New("pool not found")
)

// RunConfig holds runtime settings for a simulation.
type RunConfig struct {
	Factory  common.Address
	Owner    common.Address
	FeeTiers []model.FeeTier
}

// Result summarises a completed run.
type Result struct {
	Steps            int
	ExpectedFailures int
	Pools            int
}

// Runner owns a factory, its deployer and the token registry.
type Runner struct {
	cfg      RunConfig
	tokens   *token.Registry
	deployer *factory.Create2Deployer
	factory  *factory.Factory
	logger   *zap.Logger
}

// NewRunner builds a Runner publishing events to sink. The configured fee
// tiers are enabled by the owner before any step runs.
func NewRunner(cfg RunConfig, sink storage.Sink, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Owner == (common.Address{}) {
		return nil, fmt.Errorf("factory owner is required")
	}

	tokens := token.NewRegistry(nil)
	resolver := pool.ResolverFunc(func(address common.Address) (pool.Token, error) {
		tok, err := tokens.Get(address)
		if err != nil {
			return nil, err
		}
		return tok, nil
	})
	deployer := factory.NewCreate2Deployer(resolver, tokens.Journal(), sink, logger.Named("pool"))
	f := factory.New(factory.Config{
		Address:  cfg.Factory,
		Owner:    cfg.Owner,
		Deployer: deployer,
		Sink:     sink,
		Logger:   logger.Named("factory"),
	})
	for _, tier := range cfg.FeeTiers {
		if err := f.EnableFeeAmount(cfg.Owner, tier.Fee, tier.TickSpacing); err != nil {
			return nil, fmt.Errorf("enable fee tier %d: %w", tier.Fee, err)
		}
	}

	return &Runner{
		cfg:      cfg,
		tokens:   tokens,
		deployer: deployer,
		factory:  f,
		logger:   logger,
	}, nil
}

func (r *Runner) Factory() *factory.Factory { return r.factory }
func (r *Runner) Tokens() *token.Registry   { return r.tokens }

// Pool returns the deployed pool at address.
func (r *Runner) Pool(address common.Address) (*pool.Pool, bool) {
	return r.deployer.Pool(address)
}

// Run executes every step in order and stops at the first unexpected outcome.
func (r *Runner) Run(ctx context.Context, sc config.Scenario) (Result, error) {
	var res Result
	for i, step := range sc.Steps {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		err := r.apply(sc, step)
		res.Steps++

		expect := strings.TrimSpace(step.ExpectError)
		switch {
		case expect == "" && err != nil:
			return res, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		case expect == "":
			r.logger.Debug("step complete", zap.Int("step", i), zap.String("op", step.Op))
		case err == nil:
			return res, fmt.Errorf("step %d (%s): expected error %q, got success", i, step.Op, expect)
		case !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(expect)):
			return res, fmt.Errorf("step %d (%s): expected error %q: %w", i, step.Op, expect, err)
		default:
			res.ExpectedFailures++
			r.logger.Info("step failed as expected", zap.Int("step", i), zap.String("op", step.Op), zap.Error(err))
		}
	}
	res.Pools = int(r.factory.AllPoolsLength())
	return res, nil
}

// State snapshots the factory and every pool it created.
func (r *Runner) State() model.FactoryState {
	records := r.factory.Pools()
	state := model.FactoryState{
		Factory:  r.factory.Address().Hex(),
		Owner:    r.factory.Owner().Hex(),
		FeeTo:    r.factory.FeeTo().Hex(),
		FeeTiers: r.factory.FeeTiers(),
		Pools:    make([]model.Pool, 0, len(records)),
		States:   make([]model.PoolState, 0, len(records)),
		SavedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, rec := range records {
		state.Pools = append(state.Pools, rec.Model())
		if p, ok := r.deployer.Pool(rec.Address); ok {
			state.States = append(state.States, p.State())
		}
	}
	return state
}
