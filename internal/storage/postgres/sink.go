package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"

	"liquidityFactory/internal/model"
	"liquidityFactory/internal/storage"
)

// EventSink adapts Store to storage.Sink, retrying each batch with backoff.
type EventSink struct {
	store   *Store
	timeout time.Duration
	backoff storage.Backoff
	logger  *zap.Logger
}

func NewEventSink(store *Store, timeout time.Duration, maxRetries int, retryBackoff time.Duration, logger *zap.Logger) *EventSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EventSink{
		store:   store,
		timeout: timeout,
		backoff: storage.Backoff{Retries: maxRetries, Base: retryBackoff, Cap: timeout},
		logger:  logger,
	}
}

// PutEvents writes the batch to Postgres.
func (s *EventSink) PutEvents(events []model.EventRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.backoff.Do(ctx, func(ctx context.Context) error {
		err := s.store.InsertEvents(ctx, events)
		if err != nil {
			s.logger.Warn("insert events failed", zap.Error(err), zap.Int("events", len(events)))
		}
		return err
	})
}
