package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/taalmaat/server/adapters/ffmpeg"
	"github.com/taalmaat/server/usecase"
)

// ChatAudioResponse is the success body for POST /chat-audio.
type ChatAudioResponse struct {
	UserText string `json:"user_text"`
	Reply    string `json:"reply"`
	Audio    string `json:"audio"`
	Status   string `json:"status"`
}

// ErrorResponse is the body for every non-200 outcome.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, conversations *usecase.ConversationService, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "taalmaat-server",
		})
	})

	e.POST("/chat-audio", func(c echo.Context) error {
		return chatAudio(c, conversations, logger)
	})
}

// chatAudio handles one practice turn. Input validation happens here,
// before any temp file is written or any external service is called.
func chatAudio(c echo.Context, conversations *usecase.ConversationService, logger *zap.Logger) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		logger.Warn("chat-audio request without audio part", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No audio file provided",
		})
	}

	if fileHeader.Filename == "" {
		logger.Warn("chat-audio request with empty filename")
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No selected file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("failed to open uploaded audio", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to read uploaded audio",
		})
	}
	defer file.Close()

	audioData, err := io.ReadAll(file)
	if err != nil {
		logger.Error("failed to read uploaded audio", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to read uploaded audio",
		})
	}
	if len(audioData) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No audio file provided",
		})
	}

	persona := c.FormValue("context")
	if persona == "" {
		persona = "waiter"
	}
	liveFeedback := c.FormValue("liveFeedback") == "true"

	resp, err := conversations.Converse(c.Request().Context(), usecase.ChatRequest{
		Filename:     fileHeader.Filename,
		Audio:        audioData,
		Context:      persona,
		LiveFeedback: liveFeedback,
	})
	if err != nil {
		return chatAudioError(c, err, logger)
	}

	return c.JSON(http.StatusOK, ChatAudioResponse{
		UserText: resp.UserText,
		Reply:    resp.Reply,
		Audio:    resp.AudioBase64,
		Status:   "success",
	})
}

// chatAudioError maps pipeline failures onto the response taxonomy: user
// problems get a 400 with an actionable message, environment problems get
// a fixed generic message with the detail kept in the logs, everything
// else is a 500 carrying the fault's description.
func chatAudioError(c echo.Context, err error, logger *zap.Logger) error {
	switch {
	case errors.Is(err, usecase.ErrNoSpeech):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No speech detected. Try speaking louder.",
		})
	case errors.Is(err, ffmpeg.ErrConverterUnavailable):
		logger.Error("conversion tool unavailable", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "conversion tool unavailable",
		})
	case errors.Is(err, ffmpeg.ErrConversionFailed):
		logger.Error("audio conversion failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "conversion failed",
		})
	default:
		logger.Error("chat-audio pipeline failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
	}
}
