package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// Placeholders substituted into the grounding prompt.
const (
	PlaceholderContext  = "{{context}}"
	PlaceholderQuestion = "{{question}}"
)

// AskService retrieves catalog chunks and asks the LLM to answer from them.
type AskService struct {
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	docStore   driven.DocumentStore
	llm        driven.LLMService
	prompts    driven.PromptStore
	defaultK   int
	genOptions driven.GenerateOptions
}

// NewAskService creates a new ask service.
// The llm may be nil when only retrieval is needed.
func NewAskService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
) *AskService {
	return &AskService{
		embedder:   embedder,
		index:      index,
		docStore:   docStore,
		llm:        llm,
		prompts:    prompts,
		defaultK:   domain.DefaultRetrievalK,
		genOptions: driven.GenerateOptions{Temperature: -1},
	}
}

// SetDefaultK sets the k used when Retrieve is called with k <= 0.
func (s *AskService) SetDefaultK(k int) {
	if k > 0 {
		s.defaultK = k
	}
}

// SetGenerateOptions sets the token limit and temperature for answers.
// The system prompt is always taken from the prompt store.
func (s *AskService) SetGenerateOptions(opts driven.GenerateOptions) {
	s.genOptions = opts
}

// Retrieve returns the k chunks most similar to the question.
func (s *AskService) Retrieve(ctx context.Context, question string, k int) (domain.QueryResult, error) {
	result := domain.QueryResult{Query: question}

	if strings.TrimSpace(question) == "" {
		return result, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return result, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil || s.docStore == nil {
		return result, domain.ErrVectorIndexUnavailable
	}
	if k <= 0 {
		k = s.defaultK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", question, k)

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return result, fmt.Errorf("embed question: %w", err)
	}

	hits, err := s.index.Search(ctx, embedding, k)
	if errors.Is(err, domain.ErrEmptyIndex) {
		logger.Warn("Index is empty; answering without context")
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("vector search: %w", err)
	}

	result.Chunks = make([]domain.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			logger.Debug("Skipping hit %s: %v", hit.ChunkID, err)
			continue
		}
		result.Chunks = append(result.Chunks, domain.ScoredChunk{Chunk: *chunk, Score: hit.Similarity})
	}
	logger.Debug("Retrieved %d chunks", len(result.Chunks))

	return result, nil
}

// Answer builds the grounding prompt from result and asks the LLM.
func (s *AskService) Answer(ctx context.Context, question string, result domain.QueryResult) (domain.Answer, error) {
	answer := domain.Answer{Question: question, Sources: result}

	if s.llm == nil {
		return answer, domain.ErrLLMUnavailable
	}

	prompt, err := s.BuildPrompt(question, result)
	if err != nil {
		return answer, err
	}

	opts := s.genOptions
	if s.prompts != nil {
		if system, err := s.prompts.Load(driven.PromptSystem); err == nil {
			opts.System = system
		}
	}

	logger.Section("Generation")
	logger.Debug("Prompt: %d chars, model %s", len([]rune(prompt)), s.llm.ModelName())

	text, err := s.llm.Generate(ctx, prompt, opts)
	if err != nil {
		return answer, fmt.Errorf("generate: %w", err)
	}
	answer.Text = strings.TrimSpace(text)
	if answer.Text == "" {
		return answer, domain.ErrEmptyAnswer
	}
	return answer, nil
}

// BuildPrompt fills the grounding template with the retrieved context and question.
func (s *AskService) BuildPrompt(question string, result domain.QueryResult) (string, error) {
	template, err := s.groundingTemplate()
	if err != nil {
		return "", err
	}
	r := strings.NewReplacer(
		PlaceholderContext, result.Context(),
		PlaceholderQuestion, question,
	)
	return r.Replace(template), nil
}

func (s *AskService) groundingTemplate() (string, error) {
	if s.prompts == nil {
		return "", fmt.Errorf("%w: no prompt store", domain.ErrNotFound)
	}
	template, err := s.prompts.Load(driven.PromptGrounding)
	if err != nil {
		return "", fmt.Errorf("load grounding prompt: %w", err)
	}
	if !strings.Contains(template, PlaceholderContext) || !strings.Contains(template, PlaceholderQuestion) {
		logger.Warn("Grounding prompt lacks %s or %s", PlaceholderContext, PlaceholderQuestion)
	}
	return template, nil
}
