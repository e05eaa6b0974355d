package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"github.com/taalmaat/server/domain/repositories"
)

// GoogleTextToSpeech implements TextToSpeech for Google Cloud
type GoogleTextToSpeech struct {
	client *texttospeech.Client
	logger *zap.Logger
}

// Ensure GoogleTextToSpeech implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*GoogleTextToSpeech)(nil)

// NewGoogleTextToSpeech creates a Google Cloud Text-to-Speech client.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
func NewGoogleTextToSpeech(ctx context.Context, logger *zap.Logger) (*GoogleTextToSpeech, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}

	return &GoogleTextToSpeech{
		client: client,
		logger: logger,
	}, nil
}

// Synthesize submits the whole text as a single synthesis request and
// returns MP3-encoded audio. Service text-length limits propagate as
// errors, there is no chunking.
func (g *GoogleTextToSpeech) Synthesize(ctx context.Context, text string, config repositories.VoiceConfig) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text to synthesize is empty")
	}

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: config.Language,
			Name:         config.Voice,
			SsmlGender:   getSsmlGender(config.Gender),
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	g.logger.Info("synthesis completed",
		zap.String("voice", config.Voice),
		zap.Int("audioBytes", len(resp.AudioContent)))

	return resp.AudioContent, nil
}

// Close releases the underlying gRPC connection.
func (g *GoogleTextToSpeech) Close() error {
	return g.client.Close()
}

// getSsmlGender converts a gender string to the Google TTS enum
func getSsmlGender(gender string) texttospeechpb.SsmlVoiceGender {
	switch strings.ToLower(gender) {
	case "male":
		return texttospeechpb.SsmlVoiceGender_MALE
	case "female":
		return texttospeechpb.SsmlVoiceGender_FEMALE
	case "neutral":
		return texttospeechpb.SsmlVoiceGender_NEUTRAL
	default:
		return texttospeechpb.SsmlVoiceGender_SSML_VOICE_GENDER_UNSPECIFIED
	}
}
