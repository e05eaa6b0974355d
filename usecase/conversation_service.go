package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taalmaat/server/domain/entities"
	"github.com/taalmaat/server/domain/repositories"
)

// ErrNoSpeech means the recognizer understood nothing in the recording.
// A user problem, not a service fault.
var ErrNoSpeech = errors.New("no speech detected")

const defaultCallTimeout = 60 * time.Second

// Recognition and synthesis are fixed for Dutch practice: the recognizer
// may auto-detect between Dutch and English, the reply voice is always
// the same Dutch Wavenet speaker.
var (
	recognitionConfig = repositories.AudioConfig{
		SampleRate:           16000,
		Encoding:             "LINEAR16",
		Language:             "nl-NL",
		AlternativeLanguages: []string{"en-US"},
	}

	replyVoice = repositories.VoiceConfig{
		Language: "nl-NL",
		Voice:    "nl-NL-Wavenet-B",
		Gender:   "male",
	}
)

// ChatRequest is one uploaded practice turn.
type ChatRequest struct {
	Filename     string
	Audio        []byte
	Context      string
	LiveFeedback bool
}

// ChatResponse carries the transcript, the partner's reply, and the reply
// rendered as base64 MP3.
type ChatResponse struct {
	UserText    string
	Reply       string
	AudioBase64 string
}

// ConversationService orchestrates one practice turn: normalize the upload,
// transcribe it, prompt the model, synthesize the reply. Stateless across
// requests; every request gets its own uniquely named temp files so
// concurrent turns cannot clobber each other.
type ConversationService struct {
	normalizer    repositories.AudioNormalizer
	speechToText  repositories.SpeechToText
	languageModel repositories.LargeLanguageModel
	textToSpeech  repositories.TextToSpeech
	tempDir       string
	callTimeout   time.Duration
	logger        *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	normalizer repositories.AudioNormalizer,
	stt repositories.SpeechToText,
	llm repositories.LargeLanguageModel,
	tts repositories.TextToSpeech,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		normalizer:    normalizer,
		speechToText:  stt,
		languageModel: llm,
		textToSpeech:  tts,
		tempDir:       os.TempDir(),
		callTimeout:   defaultCallTimeout,
		logger:        logger,
	}
}

// SetTempDir overrides where per-request scratch files are written.
func (s *ConversationService) SetTempDir(dir string) {
	s.tempDir = dir
}

// SetCallTimeout overrides the per-external-call deadline.
func (s *ConversationService) SetCallTimeout(d time.Duration) {
	s.callTimeout = d
}

// Converse runs the full pipeline for one uploaded recording.
func (s *ConversationService) Converse(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Audio) == 0 || req.Filename == "" {
		return nil, fmt.Errorf("no audio provided")
	}

	// Per-request-unique scratch file; the extension is kept so the
	// converter can sniff the container.
	inputPath := filepath.Join(s.tempDir,
		fmt.Sprintf("upload-%s%s", uuid.New().String(), filepath.Ext(req.Filename)))

	if err := os.WriteFile(inputPath, req.Audio, 0o600); err != nil {
		return nil, fmt.Errorf("failed to store uploaded audio: %w", err)
	}
	defer os.Remove(inputPath)

	s.logger.Info("processing practice turn",
		zap.String("filename", req.Filename),
		zap.Int("audioBytes", len(req.Audio)),
		zap.String("context", req.Context),
		zap.Bool("liveFeedback", req.LiveFeedback))

	normalizedPath, err := s.normalize(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(normalizedPath)

	transcript, err := s.transcribe(ctx, normalizedPath)
	if err != nil {
		return nil, err
	}
	if transcript == "" {
		return nil, ErrNoSpeech
	}

	persona := entities.ParsePersona(req.Context)
	prompt := entities.BuildPrompt(persona, req.LiveFeedback, transcript)

	reply, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	replyAudio, err := s.synthesize(ctx, reply)
	if err != nil {
		return nil, err
	}

	s.logger.Info("practice turn completed",
		zap.String("persona", string(persona)),
		zap.String("transcript", transcript),
		zap.Int("replyAudioBytes", len(replyAudio)))

	return &ChatResponse{
		UserText:    transcript,
		Reply:       reply,
		AudioBase64: base64.StdEncoding.EncodeToString(replyAudio),
	}, nil
}

func (s *ConversationService) normalize(ctx context.Context, inputPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	normalizedPath, err := s.normalizer.Normalize(ctx, inputPath)
	if err != nil {
		return "", err
	}
	return normalizedPath, nil
}

func (s *ConversationService) transcribe(ctx context.Context, normalizedPath string) (string, error) {
	audioData, err := os.ReadFile(normalizedPath)
	if err != nil {
		return "", fmt.Errorf("failed to read normalized audio: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	transcript, err := s.speechToText.Transcribe(ctx, audioData, recognitionConfig)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return transcript, nil
}

func (s *ConversationService) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	reply, err := s.languageModel.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return reply, nil
}

func (s *ConversationService) synthesize(ctx context.Context, reply string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	audio, err := s.textToSpeech.Synthesize(ctx, reply, replyVoice)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech failed: %w", err)
	}
	return audio, nil
}
