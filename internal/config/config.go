package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"liquidityFactory/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. AMM_PG_DSN.
const EnvPrefix = "AMM"

// SimulateConfig holds configuration for the simulate command.
type SimulateConfig struct {
	Scenario        string
	Out             string
	StateOut        string
	PGDSN           string
	PGTimeout       time.Duration
	Factory         string
	Owner           string
	FeeTiers        []string
	DefaultFeeTiers bool
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
}

// LoadSimulate merges config file, environment variables, and flags into SimulateConfig.
func LoadSimulate(cfgFile string, flags *pflag.FlagSet) (SimulateConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out", "./data/events.jsonl")
		v.SetDefault("state-out", "./data/state.json")
		v.SetDefault("pg-timeout", 5*time.Second)
		v.SetDefault("default-fee-tiers", false)
		v.SetDefault("max-retries", 3)
		v.SetDefault("retry-backoff", 200*time.Millisecond)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return SimulateConfig{}, err
	}

	cfg := SimulateConfig{
		Scenario:        v.GetString("scenario"),
		Out:             v.GetString("out"),
		StateOut:        v.GetString("state-out"),
		PGDSN:           v.GetString("pg-dsn"),
		PGTimeout:       v.GetDuration("pg-timeout"),
		Factory:         v.GetString("factory"),
		Owner:           v.GetString("owner"),
		FeeTiers:        getStringSlice(v, "fee-tier"),
		DefaultFeeTiers: v.GetBool("default-fee-tiers"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// AddressConfig holds configuration for the address command.
type AddressConfig struct {
	Factory  string
	TokenA   string
	TokenB   string
	Fee      uint32
	LogLevel string
}

// LoadAddress merges config file, environment variables, and flags into AddressConfig.
func LoadAddress(cfgFile string, flags *pflag.FlagSet) (AddressConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("fee", 3000)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return AddressConfig{}, err
	}

	return AddressConfig{
		Factory:  v.GetString("factory"),
		TokenA:   v.GetString("token-a"),
		TokenB:   v.GetString("token-b"),
		Fee:      v.GetUint32("fee"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(v *viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

// ParseAddress converts a hex string into common.Address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %q", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAddresses converts string addresses into common.Address, skipping blanks.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		addr, err := ParseAddress(input)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// ParseFeeTiers parses "fee:tickSpacing" pairs such as "3000:60".
func ParseFeeTiers(inputs []string) ([]model.FeeTier, error) {
	tiers := make([]model.FeeTier, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		parts := strings.SplitN(input, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid fee tier %q: want fee:tick_spacing", input)
		}
		fee, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid fee in %q: %w", input, err)
		}
		spacing, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid tick spacing in %q: %w", input, err)
		}
		tiers = append(tiers, model.FeeTier{Fee: uint32(fee), TickSpacing: int32(spacing)})
	}
	return tiers, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
