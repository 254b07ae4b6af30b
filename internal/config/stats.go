package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StatsConfig holds configuration for the stats command.
type StatsConfig struct {
	Input     string
	Out       string
	PGDSN     string
	BatchSize int
	Pools     []string
	LogLevel  string
}

// LoadStats merges config file, environment variables, and flags into StatsConfig.
func LoadStats(cfgFile string, flags *pflag.FlagSet) (StatsConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("batch-size", 1000)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return StatsConfig{}, err
	}

	cfg := StatsConfig{
		Input:     v.GetString("in"),
		Out:       v.GetString("out"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		Pools:     getStringSlice(v, "pool"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
