package ai

import (
	"sync"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// providerKey identifies one provider configuration that has answered a ping.
type providerKey struct {
	kind     string
	provider domain.AIProvider
	model    string
	baseURL  string
	apiKey   string
}

// ConfigValidator pings providers and remembers configurations that passed,
// so a wizard run followed by a chat start pings each provider once.
// Failures are never cached.
type ConfigValidator struct {
	mu     sync.Mutex
	passed map[providerKey]bool

	embedding func(*domain.EmbeddingSettings) error
	llm       func(*domain.LLMSettings) error
}

// NewConfigValidator creates a validator backed by the provider factory.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		passed:    make(map[providerKey]bool),
		embedding: ValidateEmbeddingConfig,
		llm:       ValidateLLMConfig,
	}
}

// ValidateEmbedding pings the embedding provider unless this exact
// configuration already passed.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	key := providerKey{"embedding", config.Provider, config.Model, config.BaseURL, config.APIKey}
	return v.check(key, func() error { return v.embedding(config) })
}

// ValidateLLM pings the LLM provider unless this exact configuration
// already passed.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	key := providerKey{"llm", config.Provider, config.Model, config.BaseURL, config.APIKey}
	return v.check(key, func() error { return v.llm(config) })
}

func (v *ConfigValidator) check(key providerKey, ping func() error) error {
	v.mu.Lock()
	ok := v.passed[key]
	v.mu.Unlock()
	if ok {
		return nil
	}

	if err := ping(); err != nil {
		return err
	}

	v.mu.Lock()
	v.passed[key] = true
	v.mu.Unlock()
	return nil
}
