package tts

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taalmaat/server/domain/repositories"
)

// MockTextToSpeech is a stand-in synthesizer for tests and local runs.
// It echoes the input text back as audio bytes.
type MockTextToSpeech struct {
	logger *zap.Logger

	mu    sync.Mutex
	calls int
}

// Ensure MockTextToSpeech implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

// Synthesize implements repositories.TextToSpeech
func (m *MockTextToSpeech) Synthesize(ctx context.Context, text string, config repositories.VoiceConfig) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	m.logger.Info("mock synthesis",
		zap.String("voice", config.Voice),
		zap.Int("textLength", len(text)))

	return []byte(text), nil
}

// Calls reports how many times Synthesize was invoked.
func (m *MockTextToSpeech) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
