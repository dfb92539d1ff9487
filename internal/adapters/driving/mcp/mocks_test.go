package mcp

import (
	"context"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	result      domain.QueryResult
	answer      string
	retrieveErr error
	answerErr   error
	lastK       int
	answered    bool
}

func (m *mockAskService) Retrieve(_ context.Context, question string, k int) (domain.QueryResult, error) {
	m.lastK = k
	result := m.result
	result.Query = question
	return result, m.retrieveErr
}

func (m *mockAskService) Answer(_ context.Context, question string, result domain.QueryResult) (domain.Answer, error) {
	m.answered = true
	return domain.Answer{Question: question, Text: m.answer, Sources: result}, m.answerErr
}

// mockCatalog is a mock implementation of Catalog.
type mockCatalog struct {
	documents []domain.Document
	chunks    []domain.Chunk
	err       error
}

func (m *mockCatalog) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockCatalog) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockCatalog) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.chunks {
		if m.chunks[i].ID == id {
			return &m.chunks[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func twoPassages() domain.QueryResult {
	return domain.QueryResult{Chunks: []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "c1", Content: "Forever Aloe Vera Gel® 1 litro"}, Score: 0.92},
		{Chunk: domain.Chunk{ID: "c2", Content: "Forever Bee Honey® 500 g"}, Score: 0.71},
	}}
}
