package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Scenario is a scripted sequence of factory and pool calls.
//
// Amounts are decimal strings; quote them in YAML so large values are not
// read as floats. Address fields accept either a hex address or a name from
// Accounts.
type Scenario struct {
	Name     string            `mapstructure:"name"`
	Factory  string            `mapstructure:"factory"`
	Owner    string            `mapstructure:"owner"`
	Accounts map[string]string `mapstructure:"accounts"`
	Steps    []Step            `mapstructure:"steps"`
}

// Step is one scenario call. Which fields matter depends on Op.
type Step struct {
	Op     string `mapstructure:"op"`
	Caller string `mapstructure:"caller"`

	Token    string `mapstructure:"token"`
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
	To       string `mapstructure:"to"`
	Amount   string `mapstructure:"amount"`

	TokenA      string `mapstructure:"token_a"`
	TokenB      string `mapstructure:"token_b"`
	Fee         uint32 `mapstructure:"fee"`
	TickSpacing int32  `mapstructure:"tick_spacing"`

	AmountA   string `mapstructure:"amount_a"`
	AmountB   string `mapstructure:"amount_b"`
	Liquidity string `mapstructure:"liquidity"`
	TokenIn   string `mapstructure:"token_in"`
	AmountIn  string `mapstructure:"amount_in"`
	AmountOut string `mapstructure:"amount_out"`

	FeeProtocol0 uint8  `mapstructure:"fee_protocol0"`
	FeeProtocol1 uint8  `mapstructure:"fee_protocol1"`
	NewOwner     string `mapstructure:"new_owner"`

	// ExpectError makes the step pass only if the call fails with an error
	// containing this text (case-insensitive).
	ExpectError string `mapstructure:"expect_error"`
}

// LoadScenario reads a scenario file in any format viper understands.
func LoadScenario(path string) (Scenario, error) {
	if strings.TrimSpace(path) == "" {
		return Scenario{}, fmt.Errorf("scenario path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return Scenario{}, fmt.Errorf("scenario %s has no steps", path)
	}
	for i, step := range sc.Steps {
		if strings.TrimSpace(step.Op) == "" {
			return Scenario{}, fmt.Errorf("step %d: op is required", i)
		}
	}

	accounts := make(map[string]string, len(sc.Accounts))
	for name, addr := range sc.Accounts {
		accounts[strings.ToLower(strings.TrimSpace(name))] = addr
	}
	sc.Accounts = accounts

	return sc, nil
}

// Resolve maps an account name or hex address to an address.
func (s Scenario) Resolve(nameOrAddress string) (common.Address, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrAddress))
	if key == "" {
		return common.Address{}, fmt.Errorf("address is required")
	}
	if addr, ok := s.Accounts[key]; ok {
		return ParseAddress(addr)
	}
	return ParseAddress(nameOrAddress)
}
