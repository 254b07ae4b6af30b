package storage

import (
	"sync"

	"liquidityFactory/internal/model"
)

// Recorder keeps event records in memory.
type Recorder struct {
	mu     sync.Mutex
	events []model.EventRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// PutEvents appends the batch.
func (r *Recorder) PutEvents(events []model.EventRecord) error {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []model.EventRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.EventRecord, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the event names in emission order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		names = append(names, ev.EventName)
	}
	return names
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
