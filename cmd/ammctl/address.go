package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"liquidityFactory/internal/config"
	"liquidityFactory/internal/factory"
)

type addressOutput struct {
	Factory string `json:"factory"`
	Token0  string `json:"token0"`
	Token1  string `json:"token1"`
	Fee     uint32 `json:"fee"`
	Salt    string `json:"salt"`
	Pool    string `json:"pool"`
}

func runAddress(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAddress(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	factoryAddr, err := config.ParseAddress(cfg.Factory)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	tokenA, err := config.ParseAddress(cfg.TokenA)
	if err != nil {
		return fmt.Errorf("token-a: %w", err)
	}
	tokenB, err := config.ParseAddress(cfg.TokenB)
	if err != nil {
		return fmt.Errorf("token-b: %w", err)
	}

	key, err := factory.NewPoolKey(tokenA, tokenB, cfg.Fee)
	if err != nil {
		return err
	}

	out := addressOutput{
		Factory: factoryAddr.Hex(),
		Token0:  key.Token0.Hex(),
		Token1:  key.Token1.Hex(),
		Fee:     key.Fee,
		Salt:    key.Salt().Hex(),
		Pool:    factory.ComputeAddress(factoryAddr, key).Hex(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
