package driving

import "github.com/custodia-labs/catalogo-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	// Defaults, config file and environment are merged in that order.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that settings are usable and required credentials exist.
	// A missing credential is reported as domain.ErrMissingCredential.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// GetPipelineConfig returns the segment-and-chunk pipeline configuration.
	GetPipelineConfig() domain.PipelineConfig

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
