package storage

import (
	"errors"
	"testing"

	"liquidityFactory/internal/model"
)

type failingSink struct{ calls int }

func (f *failingSink) PutEvents([]model.EventRecord) error {
	f.calls++
	return errors.New("sink down")
}

func TestBusStampsSequenceAndFansOut(t *testing.T) {
	rec := NewRecorder()
	bad := &failingSink{}
	bus := NewBus(nil, bad, rec)

	if err := bus.PutEvents([]model.EventRecord{{EventName: model.EventSync}, {EventName: model.EventMint}}); err != nil {
		t.Fatalf("put events: %v", err)
	}
	if err := bus.PutEvents([]model.EventRecord{{EventName: model.EventSwap}}); err != nil {
		t.Fatalf("put events: %v", err)
	}

	events := rec.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d", i, ev.Seq)
		}
		if ev.EmittedAt == "" {
			t.Fatalf("event %d missing emitted_at", i)
		}
	}
	if bad.calls != 2 {
		t.Fatalf("failing sink should still be called, got %d", bad.calls)
	}
	if bus.Seq() != 3 {
		t.Fatalf("bus seq = %d", bus.Seq())
	}
}
