// Package googleai holds the pieces shared by the Gemini embedding and LLM adapters:
// client construction and classification of Google API errors.
package googleai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// NewClient creates a Gemini client authenticated with an API key.
// A non-empty endpoint replaces the default API host.
func NewClient(ctx context.Context, apiKey, endpoint string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini requires %s", domain.ErrMissingCredential,
			domain.AIProviderGemini.APIKeyEnv())
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}
