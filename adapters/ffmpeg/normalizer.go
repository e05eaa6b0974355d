package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/taalmaat/server/domain/repositories"
)

// Target format required by the recognition service.
const (
	targetSampleRate = "16000"
	targetChannels   = "1"
	targetContainer  = "wav"
)

var (
	// ErrConverterUnavailable means the transcoding executable is not
	// installed or not on PATH.
	ErrConverterUnavailable = errors.New("conversion tool unavailable")
	// ErrConversionFailed means the converter ran but exited non-zero.
	// The underlying diagnostic is logged, never returned to callers.
	ErrConversionFailed = errors.New("conversion failed")
)

// Normalizer transcodes arbitrary audio containers to 16 kHz mono LINEAR16
// wav by shelling out to ffmpeg.
type Normalizer struct {
	binary string
	logger *zap.Logger
}

// Ensure Normalizer implements the AudioNormalizer interface
var _ repositories.AudioNormalizer = (*Normalizer)(nil)

// NewNormalizer creates a Normalizer that invokes ffmpeg from PATH.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{
		binary: "ffmpeg",
		logger: logger,
	}
}

// Normalize converts the file at inputPath and returns the path of the
// normalized wav. The output path is derived from the input path, so a
// per-request-unique input yields a per-request-unique output. The caller
// deletes both files.
func (n *Normalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("input audio missing: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("input audio %s is empty", inputPath)
	}

	outputPath := inputPath + ".wav"

	cmd := exec.CommandContext(ctx, n.binary,
		"-i", inputPath,
		"-ar", targetSampleRate,
		"-ac", targetChannels,
		"-f", targetContainer,
		"-y", outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A failed run may still leave a partial output file behind.
		os.Remove(outputPath)

		if errors.Is(err, exec.ErrNotFound) {
			n.logger.Error("audio converter not found on PATH",
				zap.String("binary", n.binary),
				zap.Error(err))
			return "", ErrConverterUnavailable
		}

		n.logger.Error("audio conversion failed",
			zap.String("input", inputPath),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return "", ErrConversionFailed
	}

	n.logger.Debug("audio normalized",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int64("inputBytes", info.Size()))

	return outputPath, nil
}
