package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"

	"liquidityFactory/internal/model"
)

func TestLoadSimulateDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "amm.yaml")
	content := "scenario: ./s.yaml\nfee-tier:\n  - \"500:10\"\n  - \"3000:60\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadSimulate(cfgPath, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scenario != "./s.yaml" {
		t.Fatalf("scenario mismatch: %s", cfg.Scenario)
	}
	if cfg.Out != "./data/events.jsonl" || cfg.StateOut != "./data/state.json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RetryBackoff != 200*time.Millisecond || cfg.MaxRetries != 3 {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.FeeTiers, []string{"500:10", "3000:60"}) {
		t.Fatalf("fee tiers mismatch: %v", cfg.FeeTiers)
	}
}

func TestLoadSimulateFlagsAndEnv(t *testing.T) {
	t.Setenv("AMM_PG_DSN", "postgres://env")

	flags := pflag.NewFlagSet("simulate", pflag.ContinueOnError)
	flags.String("out", "./data/events.jsonl", "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--out", "/tmp/x.jsonl", "--log-level", "debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadSimulate(filepath.Join(t.TempDir(), "missing.yaml"), flags)
	if err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}

	cfg, err = LoadSimulate("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Out != "/tmp/x.jsonl" || cfg.LogLevel != "debug" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.PGDSN != "postgres://env" {
		t.Fatalf("env not applied: %q", cfg.PGDSN)
	}
}

func TestParseFeeTiers(t *testing.T) {
	got, err := ParseFeeTiers([]string{"500:10", " 3000 : 60 ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.FeeTier{{Fee: 500, TickSpacing: 10}, {Fee: 3000, TickSpacing: 60}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tiers mismatch: %+v != %+v", got, want)
	}

	for _, bad := range []string{"500", "x:10", "500:y"} {
		if _, err := ParseFeeTiers([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{"0x00000000000000000000000000000000000000aa", " "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != common.HexToAddress("0xaa") {
		t.Fatalf("addresses mismatch: %v", got)
	}
	if _, err := ParseAddresses([]string{"0x1234"}); err == nil {
		t.Fatalf("expected error for short address")
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := `name: smoke
owner: deployer
accounts:
  Deployer: "0x0000000000000000000000000000000000000001"
  alice: "0x00000000000000000000000000000000000a11ce"
steps:
  - op: enable-fee
    caller: deployer
    fee: 3000
    tick_spacing: 60
  - op: swap
    caller: alice
    token_a: "0x1000000000000000000000000000000000000001"
    token_b: "0x1000000000000000000000000000000000000002"
    fee: 3000
    token_in: "0x1000000000000000000000000000000000000001"
    amount_in: "100"
    amount_out: "91"
    expect_error: k invariant
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[0].TickSpacing != 60 || sc.Steps[0].Fee != 3000 {
		t.Fatalf("step 0 mismatch: %+v", sc.Steps[0])
	}
	if sc.Steps[1].ExpectError != "k invariant" || sc.Steps[1].AmountOut != "91" {
		t.Fatalf("step 1 mismatch: %+v", sc.Steps[1])
	}

	owner, err := sc.Resolve(sc.Owner)
	if err != nil {
		t.Fatalf("resolve owner: %v", err)
	}
	if owner != common.HexToAddress("0x01") {
		t.Fatalf("owner mismatch: %s", owner.Hex())
	}
	if _, err := sc.Resolve("ALICE"); err != nil {
		t.Fatalf("resolve alias case-insensitively: %v", err)
	}
	if _, err := sc.Resolve("nobody"); err == nil {
		t.Fatalf("expected error for unknown account")
	}
}

func TestLoadScenarioRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\n"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Fatalf("expected error for scenario without steps")
	}
	if _, err := LoadScenario(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
