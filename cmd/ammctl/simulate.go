package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityFactory/internal/config"
	"liquidityFactory/internal/factory"
	"liquidityFactory/internal/simulate"
	"liquidityFactory/internal/storage"
	"liquidityFactory/internal/storage/postgres"
)

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSimulate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Scenario == "" {
		return fmt.Errorf("scenario path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}

	sc, err := config.LoadScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	owner, err := resolveOr(sc, cfg.Owner, sc.Owner)
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if owner == (common.Address{}) {
		return fmt.Errorf("factory owner is required")
	}
	factoryAddr, err := resolveOr(sc, cfg.Factory, sc.Factory)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	if factoryAddr == (common.Address{}) {
		factoryAddr = crypto.CreateAddress(owner, 0)
	}

	tiers, err := config.ParseFeeTiers(cfg.FeeTiers)
	if err != nil {
		return err
	}
	if cfg.DefaultFeeTiers {
		tiers = append(tiers, factory.DefaultFeeTiers()...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keep, _ := cmd.Flags().GetBool("append")
	eventLog, err := storage.OpenEventLog(cfg.Out, keep)
	if err != nil {
		return err
	}
	defer eventLog.Close()
	sinks := []storage.Sink{eventLog}

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, postgres.NewEventSink(store, cfg.PGTimeout, cfg.MaxRetries, cfg.RetryBackoff, logger))
	}
	bus := storage.NewBus(logger, sinks...)

	runner, err := simulate.NewRunner(simulate.RunConfig{
		Factory:  factoryAddr,
		Owner:    owner,
		FeeTiers: tiers,
	}, bus, logger)
	if err != nil {
		return err
	}

	logger.Info("simulation start",
		zap.String("scenario", cfg.Scenario),
		zap.String("name", sc.Name),
		zap.Int("steps", len(sc.Steps)),
		zap.String("factory", factoryAddr.Hex()),
		zap.String("owner", owner.Hex()),
		zap.Int("fee_tiers", len(tiers)),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	res, runErr := runner.Run(ctx, sc)
	state := runner.State()

	if cfg.StateOut != "" {
		stateStore := &simulate.StateStore{Path: cfg.StateOut}
		if err := stateStore.Save(state); err != nil {
			return err
		}
	}
	if store != nil {
		if err := store.UpsertPools(ctx, state.Pools); err != nil {
			return fmt.Errorf("upsert pools: %w", err)
		}
		if err := store.UpsertPoolStates(ctx, state.States); err != nil {
			return fmt.Errorf("upsert pool states: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("simulation complete",
		zap.Int("steps", res.Steps),
		zap.Int("expected_failures", res.ExpectedFailures),
		zap.Int("pools", res.Pools),
		zap.Uint64("events", bus.Seq()),
		zap.String("state_out", cfg.StateOut),
	)
	return nil
}

// resolveOr resolves the flag value if set, otherwise the scenario value.
// Both empty yields the zero address.
func resolveOr(sc config.Scenario, flagValue, scenarioValue string) (common.Address, error) {
	switch {
	case flagValue != "":
		return sc.Resolve(flagValue)
	case scenarioValue != "":
		return sc.Resolve(scenarioValue)
	default:
		return common.Address{}, nil
	}
}
