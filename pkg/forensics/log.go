// Package forensics implements the append-only JSON-lines audit trace:
// one line per draft, critic verdict, refinement, state update, and
// decision. This is the ground truth for evaluating a generation run —
// downstream analysis reproduces the Critic's decision from the audit
// record alone, so records carry exact inputs, never paraphrases.
package forensics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// EventType classifies one forensic record.
type EventType string

const (
	EventDraft       EventType = "DRAFT"
	EventCritic      EventType = "CRITIC"
	EventRefined     EventType = "REFINED"
	EventStateUpdate EventType = "STATE_UPDATE"
	EventDecision    EventType = "DECISION"
)

// Record is one line of the audit trace.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	EventType  EventType `json:"event_type"`
	InjectID   string    `json:"inject_id,omitempty"`
	ScenarioID string    `json:"scenario_id"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
}

// Log is an append-only JSON-lines writer. Safe for concurrent use by
// multiple independent generation runs writing to the same file.
type Log struct {
	mu   sync.Mutex
	file *os.File
}

// Open appends to (creating if necessary) the JSON-lines file at path.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("forensics: open %s: %w", path, err)
	}
	return &Log{file: f}, nil
}

// Append writes one record as a single JSON line.
func (l *Log) Append(record Record) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("forensics: marshal record: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("forensics: append record: %w", err)
	}
	return nil
}

// Sync flushes the underlying file to stable storage, so a caller can
// read the file back immediately after writing (tests, log rotation).
func (l *Log) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Sync()
}

// Close releases the underlying file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
