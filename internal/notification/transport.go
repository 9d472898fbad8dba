package notification

import (
	"context"
	"sync"
)

// Trigger is one repeating local notification: it fires once per
// calendar day at Hour:Minute in the device's local time zone.
type Trigger struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// Transport is the OS-level notification scheduler capability. The
// real delivery mechanism is outside this process; the scheduler only
// needs to add, enumerate, and remove pending triggers.
type Transport interface {
	Add(ctx context.Context, t Trigger) error
	Pending(ctx context.Context) ([]Trigger, error)
	Remove(ctx context.Context, ids []string) error
}

// MemoryTransport keeps the pending trigger set in memory. It backs
// daemonless runs and doubles as the recording fake in tests.
type MemoryTransport struct {
	mu       sync.RWMutex
	pending  map[string]Trigger
	AddCalls int
}

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		pending: make(map[string]Trigger),
	}
}

func (m *MemoryTransport) Add(ctx context.Context, t Trigger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[t.ID] = t
	m.AddCalls++
	return nil
}

func (m *MemoryTransport) Pending(ctx context.Context) ([]Trigger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	triggers := make([]Trigger, 0, len(m.pending))
	for _, t := range m.pending {
		triggers = append(triggers, t)
	}
	return triggers, nil
}

func (m *MemoryTransport) Remove(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.pending, id)
	}
	return nil
}
