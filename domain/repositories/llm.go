package repositories

import "context"

// LargeLanguageModel abstracts any generative text provider
type LargeLanguageModel interface {
	// Generate takes a complete prompt and returns the model's reply.
	// Single-shot: no conversation history is retained or sent.
	Generate(ctx context.Context, prompt string) (string, error)
}
