package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ammctl",
		Short:        "Constant-product pool factory toolkit",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario against a fresh factory",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().String("scenario", "", "scenario file (yaml, json or toml)")
	simulateCmd.Flags().String("out", "./data/events.jsonl", "output events JSONL path")
	simulateCmd.Flags().Bool("append", false, "append to an existing events file instead of replacing it")
	simulateCmd.Flags().String("state-out", "./data/state.json", "final state file path, empty to skip")
	simulateCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for events, pools and states")
	simulateCmd.Flags().Duration("pg-timeout", 5*time.Second, "timeout per Postgres write")
	simulateCmd.Flags().String("factory", "", "factory address (default: scenario factory or derived from owner)")
	simulateCmd.Flags().String("owner", "", "factory owner address (default: scenario owner)")
	simulateCmd.Flags().StringSlice("fee-tier", nil, "fee tiers to enable up front as fee:tick_spacing (comma-separated)")
	simulateCmd.Flags().Bool("default-fee-tiers", false, "enable the 500/3000/10000 tiers up front")
	simulateCmd.Flags().Int("max-retries", 3, "maximum retry attempts for Postgres writes")
	simulateCmd.Flags().Duration("retry-backoff", 200*time.Millisecond, "initial retry backoff")
	simulateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(simulateCmd)

	addressCmd := &cobra.Command{
		Use:   "address",
		Short: "Compute the salt and address of a pool",
		RunE:  runAddress,
	}

	addressCmd.Flags().String("factory", "", "factory address")
	addressCmd.Flags().String("token-a", "", "first token address")
	addressCmd.Flags().String("token-b", "", "second token address")
	addressCmd.Flags().Uint32("fee", 3000, "fee amount in hundredths of a bip")
	addressCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(addressCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate an events file into per-pool stats",
		RunE:  runStats,
	}

	statsCmd.Flags().String("in", "", "input events JSONL")
	statsCmd.Flags().String("out", "", "output stats JSON path, empty for stdout")
	statsCmd.Flags().StringSlice("pool", nil, "only aggregate these pool addresses (comma-separated)")
	statsCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for stats upsert")
	statsCmd.Flags().Int("batch-size", 1000, "batch size for DB writes")
	statsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(statsCmd)

	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
