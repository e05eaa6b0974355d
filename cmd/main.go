package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/taalmaat/server/adapters/ffmpeg"
	"github.com/taalmaat/server/adapters/llm"
	"github.com/taalmaat/server/adapters/stt"
	"github.com/taalmaat/server/adapters/tts"
	"github.com/taalmaat/server/internal/api"
	"github.com/taalmaat/server/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// The Google Cloud clients read credentials from this variable.
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "google-key.json")
	}

	ctx := context.Background()

	// Initialize adapters
	speechToText, err := stt.NewGoogleSpeechToText(ctx, logger)
	if err != nil {
		logger.Fatal("failed to create speech-to-text client", zap.Error(err))
	}
	defer speechToText.Close()

	textToSpeech, err := tts.NewGoogleTextToSpeech(ctx, logger)
	if err != nil {
		logger.Fatal("failed to create text-to-speech client", zap.Error(err))
	}
	defer textToSpeech.Close()

	languageModel, err := llm.NewGeminiLLM(logger)
	if err != nil {
		logger.Fatal("failed to create language model client", zap.Error(err))
	}

	normalizer := ffmpeg.NewNormalizer(logger)

	// Initialize usecase service
	conversations := usecase.NewConversationService(
		normalizer, speechToText, languageModel, textToSpeech, logger)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, conversations, logger)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(host + ":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("host", host), zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
