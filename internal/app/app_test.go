package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/config/file"
	vectormemory "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/loaders"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/fitz"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/pdftotext"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/text"
)

const catalog = `Catálogo de Produtos 2024
Índice

Forever Aloe Vera Gel®
Bebida com 99,7% de gel puro de aloe vera, sem conservantes, que auxilia a digestão
e contribui para o bem-estar diário de toda a família.

Forever Bee Honey®
Mel puro produzido por abelhas em regiões livres de poluição, ideal para adoçar
chás e bebidas de forma natural, rico em energia e sabor.
`

// keywordEmbedder maps texts onto three axes by keyword.
type keywordEmbedder struct{}

func (keywordEmbedder) vector(s string) []float32 {
	s = strings.ToLower(s)
	v := []float32{0.01, 0.01, 0.01}
	if strings.Contains(s, "aloe") {
		v[0] = 1
	}
	if strings.Contains(s, "mel") || strings.Contains(s, "honey") {
		v[1] = 1
	}
	return v
}

func (e keywordEmbedder) Embed(_ context.Context, s string) ([]float32, error) {
	return e.vector(s), nil
}

func (e keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, s := range texts {
		out[i] = e.vector(s)
	}
	return out, nil
}

func (keywordEmbedder) Dimensions() int { return 3 }
func (keywordEmbedder) ModelName() string { return "keywords" }
func (keywordEmbedder) Ping(context.Context) error { return nil }
func (keywordEmbedder) Close() error { return nil }

type echoLLM struct{ prompts []string }

func (l *echoLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	l.prompts = append(l.prompts, prompt)
	return "  resposta  ", nil
}
func (l *echoLLM) ModelName() string { return "echo" }
func (l *echoLLM) Ping(context.Context) error { return nil }
func (l *echoLLM) Close() error { return nil }

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.txt")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0600))
	return path
}

func textSettings(path string) domain.AppSettings {
	settings := domain.DefaultAppSettings()
	settings.Document = domain.DocumentSettings{Path: path, Loader: domain.LoaderText}
	return settings
}

func textLoaders() *loaders.Registry {
	r := loaders.NewRegistry()
	r.Register(domain.LoaderText, text.New())
	return r
}

func fakeAI(llm driven.LLMService, calls *int) InitAIFunc {
	return func(_ context.Context, _ *domain.AppSettings, withLLM bool) (*ai.InitResult, error) {
		*calls++
		index, err := vectormemory.New(3)
		if err != nil {
			return nil, err
		}
		result := &ai.InitResult{EmbeddingService: keywordEmbedder{}, VectorIndex: index}
		if withLLM {
			result.LLMService = llm
		}
		return result, nil
	}
}

func TestStart_IndexesAndAnswers(t *testing.T) {
	path := writeCatalog(t)
	settings := textSettings(path)
	prompts, err := file.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	llm := &echoLLM{}
	calls := 0

	rt, err := Start(context.Background(), settings, domain.PipelineConfigFor(settings), prompts, Options{
		WithLLM: true,
		Loaders: textLoaders(),
		InitAI:  fakeAI(llm, &calls),
	})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 2, rt.Report.Chunks)
	assert.Equal(t, 2, rt.Index.Len())
	assert.Equal(t, "catalogo", rt.Report.Document.Title)

	result, err := rt.Ask.Retrieve(context.Background(), "O que é o aloe?", 1)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	assert.True(t, strings.HasPrefix(result.Chunks[0].Chunk.Content, "Forever Aloe Vera Gel®"))

	answer, err := rt.Ask.Answer(context.Background(), "O que é o aloe?", result)
	require.NoError(t, err)
	assert.Equal(t, "resposta", answer.Text)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "CONTEÚDO:\nForever Aloe Vera Gel®")
	assert.Contains(t, llm.prompts[0], "PERGUNTA:\nO que é o aloe?")
}

func TestStart_DefaultKFromSettings(t *testing.T) {
	path := writeCatalog(t)
	settings := textSettings(path)
	settings.Retrieval.K = 1
	calls := 0

	rt, err := Start(context.Background(), settings, domain.PipelineConfigFor(settings), nil, Options{
		Loaders: textLoaders(),
		InitAI:  fakeAI(nil, &calls),
	})
	require.NoError(t, err)
	defer rt.Close()

	result, err := rt.Ask.Retrieve(context.Background(), "mel", 0)
	require.NoError(t, err)
	assert.Len(t, result.Chunks, 1)
}

func TestStart_MissingFileFailsBeforeAI(t *testing.T) {
	settings := textSettings(filepath.Join(t.TempDir(), "nope.pdf"))
	calls := 0

	_, err := Start(context.Background(), settings, domain.PipelineConfigFor(settings), nil, Options{
		Loaders: textLoaders(),
		InitAI:  fakeAI(nil, &calls),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, calls)
}

func TestStart_UnknownLoader(t *testing.T) {
	settings := textSettings(writeCatalog(t))
	settings.Document.Loader = domain.LoaderOCR
	calls := 0

	_, err := Start(context.Background(), settings, domain.PipelineConfigFor(settings), nil, Options{
		Loaders: textLoaders(),
		InitAI:  fakeAI(nil, &calls),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestPreview(t *testing.T) {
	settings := textSettings(writeCatalog(t))

	doc, chunks, err := Preview(context.Background(), settings, domain.PipelineConfigFor(settings), textLoaders())

	require.NoError(t, err)
	assert.Contains(t, doc.Content, "Catálogo de Produtos")
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1].Content, "Forever Bee Honey®"))
}

func TestDefaultLoaders(t *testing.T) {
	r := DefaultLoaders()

	assert.ElementsMatch(t, []domain.LoaderType{
		domain.LoaderPDFToText, domain.LoaderFitz, domain.LoaderOCR, domain.LoaderText,
	}, r.Types())
}

func TestDefaultLoaders_DefaultIsMuPDF(t *testing.T) {
	l, err := DefaultLoaders().Select(domain.DefaultAppSettings().Document.Loader)

	switch {
	case fitz.New().CheckAvailable() == nil:
		require.NoError(t, err)
		assert.Equal(t, "fitz", l.Name())
	case pdftotext.New().CheckAvailable() == nil:
		// Built without cgo: poppler takes over.
		require.NoError(t, err)
		assert.Equal(t, "pdftotext", l.Name())
	default:
		assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)
	}
}
