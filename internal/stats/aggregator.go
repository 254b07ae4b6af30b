// Package stats folds an event stream into per-pool activity totals.
package stats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityFactory/internal/factory"
	"liquidityFactory/internal/model"
)

// Summary counts what a run read.
type Summary struct {
	Lines   int
	Applied int
	Skipped int
	Failed  int
}

// Aggregator groups pool events by contract. Pools are discovered from
// PoolCreated events; events from other contracts are skipped.
type Aggregator struct {
	logger       *zap.Logger
	filter       map[string]struct{}
	accumulators map[string]*Accumulator
	pools        map[string]model.Pool
	order        []string
}

// NewAggregator builds an Aggregator. A non-empty filter restricts the
// output to those pool addresses.
func NewAggregator(filter []string, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	agg := &Aggregator{
		logger:       logger,
		accumulators: make(map[string]*Accumulator),
		pools:        make(map[string]model.Pool),
	}
	if len(filter) > 0 {
		agg.filter = make(map[string]struct{}, len(filter))
		for _, addr := range filter {
			agg.filter[poolKey(addr)] = struct{}{}
		}
	}
	return agg
}

// RunFile aggregates an event JSONL file.
func (a *Aggregator) RunFile(ctx context.Context, path string) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return a.Run(ctx, file)
}

// Run aggregates event records read line by line from r.
func (a *Aggregator) Run(ctx context.Context, r io.Reader) (Summary, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var sum Summary
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		sum.Lines++

		var record model.EventRecordJSON
		if err := json.Unmarshal(line, &record); err != nil {
			sum.Failed++
			a.logger.Warn("decode event record", zap.Error(err), zap.Int("line", sum.Lines))
			continue
		}

		applied, err := a.Add(record)
		if err != nil {
			sum.Failed++
			a.logger.Warn("apply event", zap.Error(err), zap.Uint64("seq", record.Seq), zap.String("event", record.EventName))
			continue
		}
		if applied {
			sum.Applied++
		} else {
			sum.Skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("scan input: %w", err)
	}
	return sum, nil
}

// Add applies one record and reports whether it belonged to a tracked pool.
func (a *Aggregator) Add(record model.EventRecordJSON) (bool, error) {
	if record.EventName == model.EventPoolCreated {
		var created model.PoolCreatedEventData
		if err := record.DecodeData(&created); err != nil {
			return false, fmt.Errorf("decode pool created: %w", err)
		}
		key := poolKey(created.Pool)
		if !a.tracked(key) {
			return false, nil
		}
		canonical := factory.PoolKey{
			Token0: common.HexToAddress(created.Token0),
			Token1: common.HexToAddress(created.Token1),
			Fee:    created.Fee,
		}
		a.pools[key] = model.Pool{
			Address:     created.Pool,
			Salt:        canonical.Salt().Hex(),
			Token0:      created.Token0,
			Token1:      created.Token1,
			Fee:         created.Fee,
			TickSpacing: created.TickSpacing,
			Index:       created.PoolLen - 1,
		}
		a.accumulator(key, created.Pool)
		return true, nil
	}

	key := poolKey(record.Contract)
	if _, ok := a.pools[key]; !ok {
		return false, nil
	}
	if err := a.accumulator(key, record.Contract).AddEvent(record); err != nil {
		return false, err
	}
	return true, nil
}

// Pools returns the pools seen so far in creation order.
func (a *Aggregator) Pools() []model.Pool {
	out := make([]model.Pool, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.pools[key])
	}
	return out
}

// Stats returns the totals of every tracked pool in creation order.
func (a *Aggregator) Stats() []model.PoolStats {
	out := make([]model.PoolStats, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.accumulators[key].Stats())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return a.pools[poolKey(out[i].PoolAddress)].Index < a.pools[poolKey(out[j].PoolAddress)].Index
	})
	return out
}

func (a *Aggregator) tracked(key string) bool {
	if a.filter == nil {
		return true
	}
	_, ok := a.filter[key]
	return ok
}

func (a *Aggregator) accumulator(key, address string) *Accumulator {
	acc := a.accumulators[key]
	if acc == nil {
		acc = NewAccumulator(address)
		a.accumulators[key] = acc
		a.order = append(a.order, key)
	}
	return acc
}

func poolKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
