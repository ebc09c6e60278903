package audit

import (
	"context"
	"sync"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// MockPublisher records published events for tests.
type MockPublisher struct {
	mu           sync.RWMutex
	events       []*Event
	publishError error
	closed       bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{events: make([]*Event, 0)}
}

func (m *MockPublisher) Publish(_ context.Context, events []*Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishError != nil {
		return m.publishError
	}
	m.events = append(m.events, events...)
	return nil
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events returns a copy of everything published so far.
func (m *MockPublisher) Events() []*Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfKind filters the published events by kind.
func (m *MockPublisher) EventsOfKind(kind ledger.EventKind) []*Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Event, 0)
	for _, e := range m.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// SetPublishError makes subsequent Publish calls fail with err.
func (m *MockPublisher) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishError = err
}

func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make([]*Event, 0)
	m.publishError = nil
	m.closed = false
}

func (m *MockPublisher) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
