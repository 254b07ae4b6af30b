package model

import (
	"encoding/json"
)

// EventRecord is a structured record emitted by a contract for storage.
type EventRecord struct {
	Seq       uint64      `json:"seq"`
	Contract  string      `json:"contract"`
	EventName string      `json:"event_name"`
	EmittedAt string      `json:"emitted_at"`
	Data      interface{} `json:"data"`
}

// EventRecordJSON is the decoded form of an EventRecord line with the payload left raw.
type EventRecordJSON struct {
	Seq       uint64          `json:"seq"`
	Contract  string          `json:"contract"`
	EventName string          `json:"event_name"`
	EmittedAt string          `json:"emitted_at"`
	Data      json.RawMessage `json:"data"`
}

// DecodeData unmarshals the raw payload into out.
func (r EventRecordJSON) DecodeData(out interface{}) error {
	return json.Unmarshal(r.Data, out)
}
