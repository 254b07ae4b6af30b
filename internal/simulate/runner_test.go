package simulate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFactory/internal/config"
	"liquidityFactory/internal/model"
	"liquidityFactory/internal/storage"
)

var (
	testFactory = common.HexToAddress("0x00000000000000000000000000000000000fac70")
	testOwner   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	treasury    = common.HexToAddress("0x0000000000000000000000000000000000007ea5")
	bob         = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	tkb         = common.HexToAddress("0x1000000000000000000000000000000000000002")
)

func newTestRunner(t *testing.T, tiers []model.FeeTier) (*Runner, *storage.Recorder) {
	t.Helper()
	rec := storage.NewRecorder()
	runner, err := NewRunner(RunConfig{Factory: testFactory, Owner: testOwner, FeeTiers: tiers}, storage.NewBus(nil, rec), nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner, rec
}

func countEvents(rec *storage.Recorder, name string) int {
	n := 0
	for _, ev := range rec.Names() {
		if ev == name {
			n++
		}
	}
	return n
}

func TestRunBasicScenario(t *testing.T) {
	sc, err := config.LoadScenario(filepath.Join("testdata", "basic.yaml"))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	runner, rec := newTestRunner(t, nil)
	res, err := runner.Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Steps != len(sc.Steps) || res.ExpectedFailures != 7 || res.Pools != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	state := runner.State()
	if state.FeeTo != treasury.Hex() {
		t.Fatalf("fee to mismatch: %s", state.FeeTo)
	}
	if state.Owner != treasury.Hex() {
		t.Fatalf("factory owner mismatch: %s", state.Owner)
	}
	if len(state.States) != 1 {
		t.Fatalf("expected one pool state, got %d", len(state.States))
	}
	ps := state.States[0]
	if ps.Reserve0 != "172" || ps.Reserve1 != "5907" {
		t.Fatalf("reserves mismatch: %s/%s", ps.Reserve0, ps.Reserve1)
	}
	if ps.TotalSupply != "1000" || ps.Owner != treasury.Hex() {
		t.Fatalf("pool state mismatch: %+v", ps)
	}
	if ps.ProtocolFees1 != "0" || ps.FeeProtocol1 != 4 {
		t.Fatalf("protocol fee state mismatch: %+v", ps)
	}

	tok, err := runner.Tokens().Get(tkb)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if got := tok.BalanceOf(treasury).Uint64(); got != 3 {
		t.Fatalf("treasury collected %d, want 3", got)
	}
	if got := tok.BalanceOf(bob).Uint64(); got != 90 {
		t.Fatalf("bob received %d, want 90", got)
	}

	if n := countEvents(rec, model.EventPoolCreated); n != 1 {
		t.Fatalf("pool created events: %d", n)
	}
	if n := countEvents(rec, model.EventFeeToChanged); n != 1 {
		t.Fatalf("fee to events: %d", n)
	}
	if n := countEvents(rec, model.EventSwap); n != 2 {
		t.Fatalf("swap events: %d", n)
	}
	events := rec.Events()
	for i, ev := range events {
		if ev.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d", i, ev.Seq)
		}
	}
}

func TestRunRejectedDepositIsRolledBack(t *testing.T) {
	runner, _ := newTestRunner(t, []model.FeeTier{{Fee: 500, TickSpacing: 10}})
	sc := config.Scenario{Steps: []config.Step{
		{Op: OpDeployToken, Token: "0x1000000000000000000000000000000000000001"},
		{Op: OpDeployToken, Token: "0x1000000000000000000000000000000000000002"},
		{Op: OpFaucet, Token: "0x1000000000000000000000000000000000000001", To: bob.Hex(), Amount: "5000"},
		{Op: OpFaucet, Token: "0x1000000000000000000000000000000000000002", To: bob.Hex(), Amount: "5000"},
		{Op: OpCreatePool, TokenA: "0x1000000000000000000000000000000000000001", TokenB: tkb.Hex(), Fee: 500},
		{
			Op: OpAddLiquidity, Caller: bob.Hex(),
			TokenA: "0x1000000000000000000000000000000000000001", TokenB: tkb.Hex(), Fee: 500,
			AmountA: "500", AmountB: "500", ExpectError: "insufficient liquidity minted",
		},
	}}
	if _, err := runner.Run(context.Background(), sc); err != nil {
		t.Fatalf("run: %v", err)
	}

	tok, _ := runner.Tokens().Get(tkb)
	if got := tok.BalanceOf(bob).Uint64(); got != 5000 {
		t.Fatalf("deposit not rolled back: bob holds %d", got)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name string
		step config.Step
		want string
	}{
		{name: "unknown op", step: config.Step{Op: "teleport"}, want: "unknown op"},
		{name: "unexpected error", step: config.Step{Op: OpEnableFee, Caller: bob.Hex(), Fee: 500, TickSpacing: 10}, want: "not the factory owner"},
		{name: "unexpected success", step: config.Step{Op: OpEnableFee, Caller: testOwner.Hex(), Fee: 500, TickSpacing: 10, ExpectError: "boom"}, want: "got success"},
		{name: "wrong error", step: config.Step{Op: OpEnableFee, Caller: bob.Hex(), Fee: 500, TickSpacing: 10, ExpectError: "pair exists"}, want: "expected error"},
		{name: "missing pool", step: config.Step{Op: OpSync, Caller: bob.Hex(), TokenA: tkb.Hex(), TokenB: bob.Hex(), Fee: 1}, want: "pool not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newTestRunner(t, nil)
			_, err := runner.Run(context.Background(), config.Scenario{Steps: []config.Step{tt.step}})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunUnknownOpIsSentinel(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	_, err := runner.Run(context.Background(), config.Scenario{Steps: []config.Step{{Op: "teleport"}}})
	if !errors.Is(err, ErrUnknownOp) {
		t.Fatalf("expected ErrUnknownOp, got %v", err)
	}
}

func TestNewRunnerRequiresOwner(t *testing.T) {
	if _, err := NewRunner(RunConfig{Factory: testFactory}, nil, nil); err == nil {
		t.Fatalf("expected error without owner")
	}
	if _, err := NewRunner(RunConfig{Factory: testFactory, Owner: testOwner, FeeTiers: []model.FeeTier{{Fee: 500, TickSpacing: 0}}}, nil, nil); err == nil {
		t.Fatalf("expected error for invalid fee tier")
	}
}

func TestStateStore(t *testing.T) {
	dir := t.TempDir()
	store := &StateStore{Path: filepath.Join(dir, "nested", "state.json")}

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("expected no state, got ok=%v err=%v", ok, err)
	}

	runner, _ := newTestRunner(t, []model.FeeTier{{Fee: 3000, TickSpacing: 60}})
	if err := store.Save(runner.State()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(store.Path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}

	loaded, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if loaded.Factory != testFactory.Hex() || len(loaded.FeeTiers) != 1 || loaded.FeeTiers[0].TickSpacing != 60 {
		t.Fatalf("state mismatch: %+v", loaded)
	}

	dirStore := &StateStore{Path: dir}
	if _, _, err := dirStore.Load(); err == nil {
		t.Fatalf("expected error for directory path")
	}
}
