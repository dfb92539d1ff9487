// Package gemini provides an LLM service adapter using the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/googleai"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the model the catalog assistant answers with.
const DefaultModel = domain.DefaultLLMModel

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Endpoint overrides the API host. Empty uses the public endpoint.
	Endpoint string

	// Model is the LLM model to use (default: gemini-1.5-flash).
	Model string
}

type generateFunc func(ctx context.Context, model *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error)

// LLMService provides LLM operations using the Gemini API.
type LLMService struct {
	client   *genai.Client
	model    string
	limiter  *ratelimit.Limiter
	newModel func(name string) *genai.GenerativeModel
	generate generateFunc
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := googleai.NewClient(ctx, cfg.APIKey, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	return &LLMService{
		client:   client,
		model:    cfg.Model,
		limiter:  ratelimit.For(domain.AIProviderGemini),
		newModel: client.GenerativeModel,
		generate: func(ctx context.Context, m *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error) {
			return m.GenerateContent(ctx, genai.Text(prompt))
		},
	}, nil
}

// Generate produces text completion from a prompt.
// Each call configures its own model handle so options never leak between calls.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	model := s.newModel(s.model)
	configure(model, opts)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := s.generate(ctx, model, prompt)
	if err != nil {
		if googleai.IsRateLimited(err) {
			s.limiter.Backoff(0)
		}
		return "", fmt.Errorf("%w: gemini: %w", domain.ErrLLMUnavailable, err)
	}

	return extractText(resp)
}

func configure(model *genai.GenerativeModel, opts driven.GenerateOptions) {
	if opts.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(opts.System)}}
	}
	if opts.Temperature >= 0 {
		model.SetTemperature(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", domain.ErrEmptyAnswer
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)", domain.ErrEmptyAnswer, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domain.ErrEmptyAnswer
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, ""), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping fetches model metadata, which checks the key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.newModel(s.model).Info(ctx); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *LLMService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
