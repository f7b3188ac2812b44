package services

import (
	"context"
	"sync"
)

// MockSummaryService records prompts and returns a canned reply
type MockSummaryService struct {
	Reply   string
	Err     error
	prompts []string
	mu      sync.Mutex
}

// NewMockSummaryService creates a mock that answers with reply
func NewMockSummaryService(reply string) *MockSummaryService {
	return &MockSummaryService{Reply: reply}
}

// SetAsMockForTesting sets this mock as the global summary service instance for testing
func (m *MockSummaryService) SetAsMockForTesting() {
	SetSummaryService(m)
}

// GenerateSummary records the prompt and returns the canned reply or error
func (m *MockSummaryService) GenerateSummary(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Prompts returns the prompts received so far
func (m *MockSummaryService) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
