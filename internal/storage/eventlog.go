package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"liquidityFactory/internal/model"
)

// EventLog is a Sink writing one JSON event record per line. The file stays
// open for the life of the log; each batch is flushed before PutEvents returns.
type EventLog struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	buf   *bufio.Writer
	enc   *json.Encoder
	lines int
}

// OpenEventLog opens path for writing, creating parent directories. An
// existing log is truncated unless keep is set, in which case new records
// follow the old ones.
func OpenEventLog(path string, keep bool) (*EventLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("event log dir %s: %w", dir, err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if keep {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	buf := bufio.NewWriter(file)
	return &EventLog{path: path, file: file, buf: buf, enc: json.NewEncoder(buf)}, nil
}

func (l *EventLog) Path() string { return l.path }

// Lines returns the number of records written through this log.
func (l *EventLog) Lines() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lines
}

// PutEvents writes the batch. A batch that fails to encode is not flushed.
func (l *EventLog) PutEvents(events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return fmt.Errorf("event log %s is closed", l.path)
	}

	for _, record := range events {
		if err := l.enc.Encode(record); err != nil {
			l.buf.Reset(l.file)
			return fmt.Errorf("encode %s #%d: %w", record.EventName, record.Seq, err)
		}
	}
	if err := l.buf.Flush(); err != nil {
		return fmt.Errorf("flush event log: %w", err)
	}
	l.lines += len(events)
	return nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	flushErr := l.buf.Flush()
	closeErr := l.file.Close()
	l.file = nil
	if flushErr != nil {
		return fmt.Errorf("flush event log: %w", flushErr)
	}
	return closeErr
}
