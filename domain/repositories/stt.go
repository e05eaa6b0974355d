package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts a complete audio recording to text.
	// An empty transcript with a nil error means no speech was detected.
	Transcribe(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
	// AlternativeLanguages lets the service auto-detect between the
	// primary language and these fallbacks.
	AlternativeLanguages []string `json:"alternative_languages,omitempty"`
}
