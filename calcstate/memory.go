package calcstate

import (
	"context"
	"sync"
	"time"

	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/risk"
)

// sweepEvery bounds how often Save scans for expired entries.
const sweepEvery = time.Minute

type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
	swept   time.Time
}

// NewMemory returns an in-process store. A nil clock means time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{entries: map[string]Entry{}, now: now}
}

func (m *Memory) Save(_ context.Context, key string, in risk.SizingInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.swept) >= sweepEvery {
		m.sweep(now)
	}
	m.entries[key] = NewEntry(in, now)
	return nil
}

// sweep drops every expired entry. The caller holds mu.
func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.Expired(now) {
			delete(m.entries, k)
		}
	}
	m.swept = now
}

func (m *Memory) Load(_ context.Context, key string) (risk.SizingInput, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		metrics.RecordCache("miss")
		return risk.SizingInput{}, false, nil
	}
	if e.Expired(m.now()) {
		delete(m.entries, key)
		metrics.RecordCache("expired")
		return risk.SizingInput{}, false, nil
	}
	metrics.RecordCache("hit")
	return e.Data, true, nil
}

func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Len counts entries, including stale ones not yet swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
