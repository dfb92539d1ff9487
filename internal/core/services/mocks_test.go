package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	fragments []domain.RawFragment
	err       error
	calls     int
}

func (m *mockLoader) Name() string { return "mock" }

func (m *mockLoader) Load(_ context.Context, _ string) ([]domain.RawFragment, error) {
	m.calls++
	return m.fragments, m.err
}

// mockPipeline implements driven.PostProcessorPipeline for testing.
type mockPipeline struct {
	chunks []domain.Chunk
	err    error
	seen   *domain.Document
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	m.seen = doc
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Chunk, len(m.chunks))
	copy(out, m.chunks)
	for i := range out {
		out[i].DocumentID = doc.ID
	}
	return out, nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are derived from the text so similar inputs embed identically.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	batchErr   error
	shortBatch bool
	batches    [][]string
	queries    []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, texts)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	if m.shortBatch && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) queryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// vectorFor maps text onto three topic axes.
func vectorFor(text string) []float32 {
	t := strings.ToLower(text)
	v := []float32{0.01, 0.01, 0.01}
	if strings.Contains(t, "aloe") {
		v[0] = 1
	}
	if strings.Contains(t, "mel") || strings.Contains(t, "bee") {
		v[1] = 1
	}
	if strings.Contains(t, "arctic") || strings.Contains(t, "ômega") {
		v[2] = 1
	}
	return v
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error
	addErr    error
	added     []string
}

func (m *mockVectorIndex) Add(_ context.Context, id string, _ []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, id)
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, _ string) error { return nil }

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int { return len(m.added) }

func (m *mockVectorIndex) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	err      error
	prompts  []string
	options  []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

func newPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptGrounding: "CONTEÚDO:\n{{context}}\n\nPERGUNTA:\n{{question}}",
		driven.PromptSystem:    "Responda em português.",
	}}
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	lastLLM      *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	m.lastLLM = cfg
	return m.llmErr
}
