package domain

import "strings"

const unknownDescription = "Unknown"

// LoaderType identifies how the catalog PDF is turned into text.
type LoaderType string

// Available loaders.
const (
	// LoaderPDFToText shells out to poppler's pdftotext.
	LoaderPDFToText LoaderType = "pdftotext"

	// LoaderFitz extracts page text with MuPDF.
	LoaderFitz LoaderType = "fitz"

	// LoaderOCR renders pages with MuPDF and runs Tesseract over them.
	LoaderOCR LoaderType = "ocr"

	// LoaderText reads an already extracted plain text file.
	LoaderText LoaderType = "text"
)

// IsValid returns true if the loader is recognised.
func (l LoaderType) IsValid() bool {
	switch l {
	case LoaderPDFToText, LoaderFitz, LoaderOCR, LoaderText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l LoaderType) String() string {
	return string(l)
}

// Description returns a human-readable description of the loader.
func (l LoaderType) Description() string {
	switch l {
	case LoaderPDFToText:
		return "pdftotext (poppler)"
	case LoaderFitz:
		return "MuPDF text extraction"
	case LoaderOCR:
		return "MuPDF render + Tesseract OCR"
	case LoaderText:
		return "Plain text file"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderHugot runs sentence-transformers models in-process.
	AIProviderHugot AIProvider = "hugot"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderHugot, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHugot
}

// APIKeyEnv returns the environment variable holding this provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderHugot:
		return "Hugot sentence-transformers (in-process)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DocumentSettings holds the catalog source configuration.
type DocumentSettings struct {
	// Path is the catalog file.
	Path string

	// Loader selects the text extractor.
	Loader LoaderType
}

// SegmenterSettings holds product heading detection configuration.
type SegmenterSettings struct {
	// Pattern is the heading regex. It is tested anchored at every
	// occurrence of Marker; each match starts a new record.
	Pattern string

	// Marker is the literal token every record must contain.
	Marker string

	// MinLength is the exclusive lower bound on record length in characters.
	MinLength int
}

// ChunkerSettings holds chunk sizing configuration.
type ChunkerSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared by adjacent chunks.
	Overlap int
}

// RetrievalSettings holds retrieval configuration.
type RetrievalSettings struct {
	// K is the number of chunks retrieved per question.
	K int

	// PreviewChars is how much retrieved context is echoed per turn.
	PreviewChars int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama) or model cache dir (for Hugot).
	BaseURL string

	// APIKey is the API key (for Gemini/OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini/OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHugot {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PromptSettings holds prompt template configuration.
type PromptSettings struct {
	// Dir holds user prompt overrides. Empty means embedded defaults only.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Document  DocumentSettings
	Segmenter SegmenterSettings
	Chunker   ChunkerSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Prompts   PromptSettings
}

// Defaults used by DefaultAppSettings.
const (
	DefaultDocumentPath    = "documents/Catalogo_Forever_Living.pdf"
	DefaultHeadingPattern  = `Forever\s[A-Z][^\n]+®`
	DefaultMarker          = "Forever"
	DefaultRecordMinLength = 100
	DefaultChunkSize       = 2000
	DefaultChunkOverlap    = 300
	DefaultRetrievalK      = 10
	DefaultPreviewChars    = 1000
	DefaultEmbeddingModel  = "sentence-transformers/all-mpnet-base-v2"
	DefaultLLMModel        = "gemini-1.5-flash"
)

// DefaultChunkSeparators is the separator priority used by the chunker.
func DefaultChunkSeparators() []string {
	return []string{"\n\n", "\n", ".", " "}
}

// ExitKeywords returns the inputs that end an interactive session.
func ExitKeywords() []string {
	return []string{"sair", "exit", "quit"}
}

// IsExitKeyword reports whether input is an exit keyword, ignoring case and
// surrounding whitespace.
func IsExitKeyword(input string) bool {
	input = strings.TrimSpace(input)
	for _, kw := range ExitKeywords() {
		if strings.EqualFold(input, kw) {
			return true
		}
	}
	return false
}

// DefaultAppSettings returns settings matching the catalog assistant:
// local sentence-transformers embeddings and Gemini for answers.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Document: DocumentSettings{
			Path:   DefaultDocumentPath,
			Loader: LoaderFitz,
		},
		Segmenter: SegmenterSettings{
			Pattern:   DefaultHeadingPattern,
			Marker:    DefaultMarker,
			MinLength: DefaultRecordMinLength,
		},
		Chunker: ChunkerSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			K:            DefaultRetrievalK,
			PreviewChars: DefaultPreviewChars,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderHugot,
			Model:    DefaultEmbeddingModel,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModel,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHugot,
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHugot:  DefaultEmbeddingModel,
		AIProviderGemini: "text-embedding-004",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    DefaultLLMModel,
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// sentence-transformers
		"sentence-transformers/all-mpnet-base-v2": 768,
		"sentence-transformers/all-MiniLM-L6-v2":  384,
		// Gemini
		"text-embedding-004": 768,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the segment-then-chunk pipeline from settings.
func PipelineConfigFor(s AppSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"segmenter", "chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"segmenter": {
				"pattern":    s.Segmenter.Pattern,
				"marker":     s.Segmenter.Marker,
				"min_length": s.Segmenter.MinLength,
			},
			"chunker": {
				"chunk_size": s.Chunker.Size,
				"overlap":    s.Chunker.Overlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings())
}
