package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/taalmaat/server/adapters/ffmpeg"
	"github.com/taalmaat/server/adapters/llm"
	"github.com/taalmaat/server/adapters/stt"
	"github.com/taalmaat/server/adapters/tts"
	"github.com/taalmaat/server/usecase"
)

type copyNormalizer struct{}

func (copyNormalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	outputPath := inputPath + ".wav"
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return "", err
	}
	return outputPath, nil
}

type unavailableNormalizer struct{}

func (unavailableNormalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	return "", ffmpeg.ErrConverterUnavailable
}

type testServer struct {
	echo      *echo.Echo
	recognize *stt.MockSpeechToText
	model     *llm.MockGeminiClient
	tempDir   string
}

func newTestServer(t *testing.T, transcript string, reply string) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)

	recognizer := stt.NewMockSpeechToText(logger)
	recognizer.TranscribeFunc = func([]byte) (string, error) { return transcript, nil }
	model := llm.NewMockGeminiClient(reply)
	synthesizer := tts.NewMockTextToSpeech(logger)

	service := usecase.NewConversationService(copyNormalizer{}, recognizer, model, synthesizer, logger)
	tempDir := t.TempDir()
	service.SetTempDir(tempDir)

	e := echo.New()
	InitRoutes(e, service, logger)

	return &testServer{echo: e, recognize: recognizer, model: model, tempDir: tempDir}
}

func multipartBody(t *testing.T, filename string, audio []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "skip" {
		part, err := writer.CreateFormFile("audio", filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(audio); err != nil {
			t.Fatalf("Failed to write audio part: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func postChatAudio(t *testing.T, e *echo.Echo, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat-audio", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func assertNoResidualFiles(t *testing.T, tempDir string) {
	t.Helper()
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no residual temp files, found %d", len(entries))
	}
}

func TestChatAudioSuccess(t *testing.T) {
	server := newTestServer(t, "Ik wil koffie", "Hier is uw koffie.")

	body, contentType := multipartBody(t, "recording.m4a", []byte("fake audio"), map[string]string{
		"context": "waiter",
	})
	rec := postChatAudio(t, server.echo, body, contentType)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatAudioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.UserText != "Ik wil koffie" {
		t.Errorf("Expected user_text 'Ik wil koffie', got %q", resp.UserText)
	}
	if resp.Reply != "Hier is uw koffie." {
		t.Errorf("Expected reply 'Hier is uw koffie.', got %q", resp.Reply)
	}
	if resp.Status != "success" {
		t.Errorf("Expected status 'success', got %q", resp.Status)
	}
	if resp.Audio == "" {
		t.Error("Expected non-empty base64 audio")
	}

	assertNoResidualFiles(t, server.tempDir)
}

func TestChatAudioMissingAudioPart(t *testing.T) {
	server := newTestServer(t, "unused", "unused")

	body, contentType := multipartBody(t, "skip", nil, map[string]string{"context": "doctor"})
	rec := postChatAudio(t, server.echo, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No audio file provided" {
		t.Errorf("Expected 'No audio file provided', got %q", msg)
	}
	if server.recognize.Calls() != 0 {
		t.Error("No external call may happen when the audio part is missing")
	}

	assertNoResidualFiles(t, server.tempDir)
}

func TestChatAudioEmptyFilename(t *testing.T) {
	server := newTestServer(t, "unused", "unused")

	body, contentType := multipartBody(t, "", []byte("fake audio"), nil)
	rec := postChatAudio(t, server.echo, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if server.recognize.Calls() != 0 {
		t.Error("No external call may happen when the filename is empty")
	}

	assertNoResidualFiles(t, server.tempDir)
}

func TestChatAudioNoSpeechDetected(t *testing.T) {
	server := newTestServer(t, "", "unused")

	body, contentType := multipartBody(t, "silence.m4a", []byte("quiet"), nil)
	rec := postChatAudio(t, server.echo, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No speech detected. Try speaking louder." {
		t.Errorf("Unexpected error message %q", msg)
	}
	if server.model.Calls() != 0 {
		t.Error("Language model must not run when no speech was detected")
	}
}

func TestChatAudioConverterUnavailable(t *testing.T) {
	logger := zaptest.NewLogger(t)
	recognizer := stt.NewMockSpeechToText(logger)
	model := llm.NewMockGeminiClient("unused")
	synthesizer := tts.NewMockTextToSpeech(logger)

	service := usecase.NewConversationService(unavailableNormalizer{}, recognizer, model, synthesizer, logger)
	service.SetTempDir(t.TempDir())

	e := echo.New()
	InitRoutes(e, service, logger)

	body, contentType := multipartBody(t, "recording.m4a", []byte("fake audio"), nil)
	rec := postChatAudio(t, e, body, contentType)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "conversion tool unavailable" {
		t.Errorf("Expected generic converter message, got %q", msg)
	}
}

func TestChatAudioDefaultsToWaiterPersona(t *testing.T) {
	server := newTestServer(t, "Ik wil bestellen", "Natuurlijk!")

	// No context field at all: the waiter persona is the endpoint default.
	body, contentType := multipartBody(t, "recording.m4a", []byte("fake audio"), nil)
	rec := postChatAudio(t, server.echo, body, contentType)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	prompts := server.model.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("Expected one prompt, got %d", len(prompts))
	}
	if want := "You are a Dutch waiter."; len(prompts[0]) < len(want) || prompts[0][:len(want)] != want {
		t.Errorf("Expected waiter role prefix, got %q", prompts[0])
	}
}
