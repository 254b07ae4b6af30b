package storage

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"liquidityFactory/internal/model"
)

// Bus stamps event records with a sequence number and fans them out to sinks.
// Delivery is fire-and-forget: a failing sink is logged and never reported
// back to the emitting contract.
type Bus struct {
	mu     sync.Mutex
	seq    uint64
	sinks  []Sink
	logger *zap.Logger
	now    func() time.Time
}

func NewBus(logger *zap.Logger, sinks ...Sink) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
}

// PutEvents assigns sequence numbers and forwards the batch to every sink.
func (b *Bus) PutEvents(events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	emittedAt := b.now().UTC().Format(time.RFC3339Nano)
	stamped := make([]model.EventRecord, len(events))
	for i, ev := range events {
		b.seq++
		ev.Seq = b.seq
		if ev.EmittedAt == "" {
			ev.EmittedAt = emittedAt
		}
		stamped[i] = ev
	}

	for _, sink := range b.sinks {
		if sink == nil {
			continue
		}
		if err := sink.PutEvents(stamped); err != nil {
			b.logger.Warn("event sink failed", zap.Error(err), zap.Int("events", len(stamped)))
		}
	}
	return nil
}

// Seq returns the last assigned sequence number.
func (b *Bus) Seq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}
