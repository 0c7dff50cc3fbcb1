package runlog

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLog is an in-process Log for tests and development mode.
type MemoryLog struct {
	mu      sync.Mutex
	counter int64
	entries map[string]string
}

// NewMemoryLog creates an empty in-memory run log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{entries: make(map[string]string)}
}

// NextRunID increments the in-memory counter.
func (l *MemoryLog) NextRunID(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counter++
	return l.counter, nil
}

// RecordStart writes the run-start timestamp.
func (l *MemoryLog) RecordStart(_ context.Context, runID int64, network, session string, at time.Time) error {
	l.set(runID, network, session, "start", at)
	return nil
}

// RecordEnd writes the run-end timestamp.
func (l *MemoryLog) RecordEnd(_ context.Context, runID int64, network, session string, at time.Time) error {
	l.set(runID, network, session, "end", at)
	return nil
}

func (l *MemoryLog) set(runID int64, network, session, phase string, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entryKey(runID, network, session, phase)] = at.Format(TimeFormat)
}

// StartedAt reports the recorded run-start timestamp, if any.
func (l *MemoryLog) StartedAt(runID int64, network, session string) (string, bool) {
	return l.get(runID, network, session, "start")
}

// EndedAt reports the recorded run-end timestamp, if any.
func (l *MemoryLog) EndedAt(runID int64, network, session string) (string, bool) {
	return l.get(runID, network, session, "end")
}

func (l *MemoryLog) get(runID int64, network, session, phase string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.entries[entryKey(runID, network, session, phase)]
	return v, ok
}

func entryKey(runID int64, network, session, phase string) string {
	return fmt.Sprintf("%s:%d:%s:%s:%s", counterKey, runID, network, session, phase)
}
