package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.seen = chunks
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), nil)
	assert.Error(t, err)
}

func TestPipeline_Process_ChainsInOrder(t *testing.T) {
	created := []domain.Chunk{{ID: "record-1", Content: "Forever Bee Honey®"}}
	first := &mockProcessor{name: "segmenter", chunks: created}
	second := &mockProcessor{name: "chunker"}

	p := NewPipeline(first, second)
	chunks, err := p.Process(context.Background(), &domain.Document{ID: "doc"})

	require.NoError(t, err)
	assert.Nil(t, first.seen, "first processor receives nil chunks")
	assert.Equal(t, created, second.seen)
	assert.Equal(t, created, chunks)
	assert.Equal(t, []string{"segmenter", "chunker"}, p.Names())
}

func TestPipeline_Process_ErrorNamesProcessor(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "segmenter", err: boom})

	_, err := p.Process(context.Background(), &domain.Document{ID: "doc"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "processor segmenter")
}

func TestBuild_EmptyConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	_, err := Build(r, domain.PipelineConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_UnknownProcessor(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	_, err := Build(r, domain.PipelineConfig{Processors: []string{"stemmer"}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

// TestBuild_DefaultPipeline runs the catalog pipeline end to end on
// synthetic catalog text.
func TestBuild_DefaultPipeline(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	settings := domain.DefaultAppSettings()
	settings.Chunker.Size = 200
	settings.Chunker.Overlap = 30

	p, err := Build(r, domain.PipelineConfigFor(settings))
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	long := strings.Repeat("Rico em vitaminas e minerais. ", 20)
	content := "Catálogo 2024\n" +
		"Forever Bee Pollen®\n" + strings.Repeat("Pólen de abelha natural. ", 6) + "\n" +
		"Forever Aloe Vera Gel®\n" + long + "\n" +
		"Forever Short®\n"
	doc := &domain.Document{ID: "catalog", Content: content}

	chunks, err := p.Process(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	records := map[int]bool{}
	for i, c := range chunks {
		assert.Equal(t, i, c.Position)
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 200)
		records[c.RecordIndex] = true
	}
	assert.Len(t, records, 2, "leading text and the short product are dropped")
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Forever Bee Pollen®"))
	assert.Greater(t, len(chunks), 2, "the long record is split")
}
