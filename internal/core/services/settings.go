package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDocumentPath     = "document.path"
	keyDocumentLoader   = "document.loader"
	keySegmenterPattern = "segmenter.pattern"
	keySegmenterMarker  = "segmenter.marker"
	keySegmenterMinLen  = "segmenter.min_length"
	keyChunkerSize      = "chunker.size"
	keyChunkerOverlap   = "chunker.overlap"
	keyChunkerSeps      = "chunker.separators"
	keyRetrievalK       = "retrieval.k"
	keyRetrievalPreview = "retrieval.preview"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyPromptsDir       = "prompts.dir"
)

// EnvDocumentPath overrides document.path.
const EnvDocumentPath = "CATALOGO_PDF"

// SettingsService manages application settings.
// Values are layered: built-in defaults, then the config store, then the
// environment. Command-line flags are applied by the caller on top.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Tests use it to avoid touching
// the real process environment.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Document: domain.DocumentSettings{
			Path:   s.getString(keyDocumentPath, defaults.Document.Path),
			Loader: s.getLoader(defaults.Document.Loader),
		},
		Segmenter: domain.SegmenterSettings{
			Pattern:   s.getString(keySegmenterPattern, defaults.Segmenter.Pattern),
			Marker:    s.getString(keySegmenterMarker, defaults.Segmenter.Marker),
			MinLength: s.getInt(keySegmenterMinLen, defaults.Segmenter.MinLength),
		},
		Chunker: domain.ChunkerSettings{
			Size:    s.getInt(keyChunkerSize, defaults.Chunker.Size),
			Overlap: s.getInt(keyChunkerOverlap, defaults.Chunker.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			K:            s.getInt(keyRetrievalK, defaults.Retrieval.K),
			PreviewChars: s.getInt(keyRetrievalPreview, defaults.Retrieval.PreviewChars),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // Empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // Empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Prompts: domain.PromptSettings{
			Dir: s.configStore.GetString(keyPromptsDir),
		},
	}

	// A provider switched in the config file without a model gets that
	// provider's default rather than the Gemini/Hugot one.
	settings.Embedding.Model = s.getString(keyEmbedModel,
		defaultModel(domain.DefaultEmbeddingModels(), settings.Embedding.Provider, defaults.Embedding.Model))
	settings.LLM.Model = s.getString(keyLLMModel,
		defaultModel(domain.DefaultLLMModels(), settings.LLM.Provider, defaults.LLM.Model))

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv layers environment variables over stored values.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.lookupEnv(EnvDocumentPath); ok && v != "" {
		settings.Document.Path = v
	}
	if env := settings.Embedding.Provider.APIKeyEnv(); env != "" {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			settings.Embedding.APIKey = v
		}
	}
	if env := settings.LLM.Provider.APIKeyEnv(); env != "" {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			settings.LLM.APIKey = v
		}
	}
}

// Save persists application settings.
// API keys are written only when set and not taken from the environment.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyDocumentPath, settings.Document.Path},
		{keyDocumentLoader, settings.Document.Loader.String()},
		{keySegmenterPattern, settings.Segmenter.Pattern},
		{keySegmenterMarker, settings.Segmenter.Marker},
		{keySegmenterMinLen, settings.Segmenter.MinLength},
		{keyChunkerSize, settings.Chunker.Size},
		{keyChunkerOverlap, settings.Chunker.Overlap},
		{keyRetrievalK, settings.Retrieval.K},
		{keyRetrievalPreview, settings.Retrieval.PreviewChars},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyPromptsDir, settings.Prompts.Dir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if s.shouldStoreKey(settings.Embedding.Provider, settings.Embedding.APIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if s.shouldStoreKey(settings.LLM.Provider, settings.LLM.APIKey) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// shouldStoreKey reports whether key is set and did not come from the environment.
func (s *SettingsService) shouldStoreKey(provider domain.AIProvider, key string) bool {
	if key == "" {
		return false
	}
	if env := provider.APIKeyEnv(); env != "" {
		if v, ok := s.lookupEnv(env); ok && v == key {
			return false
		}
	}
	return true
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !containsProvider(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelFor(domain.DefaultEmbeddingModels(), provider, model)
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if !containsProvider(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not generate text", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelFor(domain.DefaultLLMModels(), provider, model)
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that settings are usable. Missing API keys are reported
// first, naming the environment variable the user should set.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := checkCredential("LLM", settings.LLM.Provider, settings.LLM.APIKey); err != nil {
		return err
	}
	if err := checkCredential("embedding", settings.Embedding.Provider, settings.Embedding.APIKey); err != nil {
		return err
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not supported", domain.ErrInvalidInput, settings.LLM.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not supported",
			domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if !settings.Document.Loader.IsValid() {
		return fmt.Errorf("%w: unknown loader %q", domain.ErrInvalidInput, settings.Document.Loader)
	}
	if settings.Document.Path == "" {
		return fmt.Errorf("%w: document path is empty", domain.ErrInvalidInput)
	}
	if settings.Chunker.Size <= 0 {
		return fmt.Errorf("%w: chunker.size must be positive", domain.ErrInvalidInput)
	}
	if settings.Chunker.Overlap < 0 {
		return fmt.Errorf("%w: chunker.overlap must not be negative", domain.ErrInvalidInput)
	}
	if settings.Retrieval.K <= 0 {
		return fmt.Errorf("%w: retrieval.k must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func checkCredential(role string, provider domain.AIProvider, apiKey string) error {
	if !provider.RequiresAPIKey() || apiKey != "" {
		return nil
	}
	return fmt.Errorf("%w: %s provider %s needs %s", domain.ErrMissingCredential, role, provider, provider.APIKeyEnv())
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the segment-and-chunk pipeline configuration.
// Keys under pipeline.<processor>.* override the values derived from the
// segmenter and chunker sections.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	cfg := domain.PipelineConfigFor(*settings)

	if seps := s.configStore.GetStringSlice(keyChunkerSeps); len(seps) > 0 {
		cfg.ProcessorConfigs["chunker"]["separators"] = seps
	}

	if processors := s.configStore.GetStringSlice("pipeline.processors"); len(processors) > 0 {
		cfg.Processors = processors
	}

	for _, name := range cfg.Processors {
		overrides := s.loadProcessorConfig("pipeline." + name + ".")
		if len(overrides) == 0 {
			continue
		}
		existing := cfg.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range overrides {
			existing[k] = v
		}
		cfg.ProcessorConfigs[name] = existing
	}

	return cfg
}

// loadProcessorConfig loads known processor keys with a given prefix.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	knownKeys := []string{"pattern", "marker", "min_length", "chunk_size", "overlap", "separators"}
	for _, key := range knownKeys {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getLoader(defaultVal domain.LoaderType) domain.LoaderType {
	loader := domain.LoaderType(s.configStore.GetString(keyDocumentLoader))
	if !loader.IsValid() {
		return defaultVal
	}
	return loader
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func modelFor(defaults map[domain.AIProvider]string, provider domain.AIProvider, model string) string {
	if model != "" {
		return model
	}
	return defaults[provider]
}

func defaultModel(defaults map[domain.AIProvider]string, provider domain.AIProvider, fallback string) string {
	if m, ok := defaults[provider]; ok {
		return m
	}
	return fallback
}

// baseURLFor fills the default Ollama endpoint and clears the field for
// cloud providers. Hugot keeps it as its model cache directory.
func baseURLFor(provider domain.AIProvider, current string) string {
	switch provider {
	case domain.AIProviderOllama:
		if current == "" {
			return "http://localhost:11434"
		}
		return current
	case domain.AIProviderHugot:
		return current
	default:
		return ""
	}
}

func containsProvider(list []domain.AIProvider, p domain.AIProvider) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}
