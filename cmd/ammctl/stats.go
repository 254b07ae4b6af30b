package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityFactory/internal/config"
	"liquidityFactory/internal/stats"
	"liquidityFactory/internal/storage/postgres"
)

func runStats(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadStats(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := stats.NewAggregator(cfg.Pools, logger)
	sum, err := agg.RunFile(ctx, cfg.Input)
	if err != nil {
		return err
	}
	poolStats := agg.Stats()

	logger.Info("stats complete",
		zap.String("in", cfg.Input),
		zap.Int("lines", sum.Lines),
		zap.Int("applied", sum.Applied),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
		zap.Int("pools", len(poolStats)),
	)

	data, err := json.MarshalIndent(poolStats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if cfg.Out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		if dir := filepath.Dir(cfg.Out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}

	if cfg.PGDSN == "" {
		return nil
	}

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	if err := store.UpsertPools(ctx, agg.Pools()); err != nil {
		return fmt.Errorf("upsert pools: %w", err)
	}
	for start := 0; start < len(poolStats); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(poolStats) {
			end = len(poolStats)
		}
		if err := store.UpsertPoolStats(ctx, poolStats[start:end]); err != nil {
			return fmt.Errorf("upsert pool stats: %w", err)
		}
	}
	logger.Info("stats stored", zap.String("pg_dsn", redactDSN(cfg.PGDSN)), zap.Int("pools", len(poolStats)))
	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return "***"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
