package storage

import "liquidityFactory/internal/model"

// Sink defines a destination for emitted event records.
type Sink interface {
	PutEvents(events []model.EventRecord) error
}
