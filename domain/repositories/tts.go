package repositories

import "context"

// TextToSpeech abstracts speech synthesis services
type TextToSpeech interface {
	// Synthesize renders text as encoded audio in one shot.
	Synthesize(ctx context.Context, text string, config VoiceConfig) ([]byte, error)
}

// VoiceConfig selects the synthesis voice
type VoiceConfig struct {
	Language string `json:"language"`
	Voice    string `json:"voice"`
	Gender   string `json:"gender"`
}
