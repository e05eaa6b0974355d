package repositories

import "context"

// AudioNormalizer converts an arbitrary audio container into the fixed
// PCM format the recognition service requires.
type AudioNormalizer interface {
	// Normalize transcodes the file at inputPath and returns the path of
	// the normalized output. The caller owns both files and must delete
	// them when done.
	Normalize(ctx context.Context, inputPath string) (string, error)
}
