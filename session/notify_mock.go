package session

import "sync"

// Notification is one recorded notification
type Notification struct {
	Level   Level
	Message string
}

// MockSink records notifications for testing
type MockSink struct {
	mu    sync.Mutex
	items []Notification
}

// NewMockSink creates an empty recorder
func NewMockSink() *MockSink {
	return &MockSink{}
}

// Notify records the notification
func (m *MockSink) Notify(level Level, message string) {
	m.mu.Lock()
	m.items = append(m.items, Notification{Level: level, Message: message})
	m.mu.Unlock()
}

// All returns the recorded notifications in order
func (m *MockSink) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.items...)
}

// Count returns how many notifications of level were recorded
func (m *MockSink) Count(level Level) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		if it.Level == level {
			n++
		}
	}
	return n
}

// Reset forgets all recorded notifications
func (m *MockSink) Reset() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
}
