package stt

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taalmaat/server/domain/repositories"
)

// MockSpeechToText is a stand-in recognizer for tests and local runs.
// By default it maps the raw audio bytes to a string, so distinct inputs
// yield distinct transcripts; set TranscribeFunc to override.
type MockSpeechToText struct {
	logger *zap.Logger

	// TranscribeFunc, when set, decides the transcript per call.
	TranscribeFunc func(audioData []byte) (string, error)

	mu    sync.Mutex
	calls int
}

// Ensure MockSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// Transcribe implements repositories.SpeechToText
func (m *MockSpeechToText) Transcribe(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	m.logger.Info("mock transcription",
		zap.Int("audioBytes", len(audioData)),
		zap.String("language", config.Language))

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(audioData)
	}

	return string(audioData), nil
}

// Calls reports how many times Transcribe was invoked.
func (m *MockSpeechToText) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
