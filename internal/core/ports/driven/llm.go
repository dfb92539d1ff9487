package driven

import "context"

// LLMService produces answers from a generative model.
//
// Implementations include:
//   - Gemini (gemini-1.5-flash)
//   - OpenAI (GPT-4o)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is an optional system instruction sent alongside the prompt.
	System string

	// MaxTokens is the maximum number of tokens to generate. Zero uses the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// Negative values leave the provider default.
	Temperature float64
}
