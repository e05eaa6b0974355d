package llm

import (
	"context"
	"sync"

	"github.com/taalmaat/server/domain/repositories"
)

// MockGeminiClient is a stand-in language model for tests and local runs.
// It records every prompt it receives.
type MockGeminiClient struct {
	// Reply is returned for every prompt. Err, when set, is returned
	// instead.
	Reply string
	Err   error

	mu      sync.Mutex
	prompts []string
}

// Ensure MockGeminiClient implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*MockGeminiClient)(nil)

// NewMockGeminiClient creates a new mock Gemini client
func NewMockGeminiClient(reply string) *MockGeminiClient {
	return &MockGeminiClient{Reply: reply}
}

// Generate implements repositories.LargeLanguageModel
func (m *MockGeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Prompts returns a copy of every prompt received so far.
func (m *MockGeminiClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls reports how many times Generate was invoked.
func (m *MockGeminiClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
