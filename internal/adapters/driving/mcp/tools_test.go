package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns passages in retrieval order", func(t *testing.T) {
		ask := &mockAskService{result: twoPassages()}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, QuestionInput{Question: "aloe", K: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 2, ask.lastK)
		assert.Equal(t, "c1", output.Passages[0].ChunkID)
		assert.Equal(t, 0.92, output.Passages[0].Score)
		assert.Equal(t, "Forever Bee Honey® 500 g", output.Passages[1].Content)
		assert.False(t, ask.answered, "search must not call the model")
	})

	t.Run("zero k defers to service default", func(t *testing.T) {
		ask := &mockAskService{}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, QuestionInput{Question: "mel"})

		require.NoError(t, err)
		assert.Equal(t, 0, ask.lastK)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Passages)
	})

	t.Run("maps domain errors", func(t *testing.T) {
		ask := &mockAskService{retrieveErr: domain.ErrInvalidInput}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, QuestionInput{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "must not be empty")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with passages", func(t *testing.T) {
		ask := &mockAskService{result: twoPassages(), answer: "O gel vem em 1 litro."}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, QuestionInput{Question: "tamanho do gel?"})

		require.NoError(t, err)
		assert.Equal(t, "O gel vem em 1 litro.", output.Answer)
		assert.Len(t, output.Passages, 2)
	})

	t.Run("retrieval failure skips the model", func(t *testing.T) {
		ask := &mockAskService{retrieveErr: errors.New("index closed")}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, QuestionInput{Question: "q"})

		assert.EqualError(t, err, "index closed")
		assert.False(t, ask.answered)
	})

	t.Run("model unavailable suggests search", func(t *testing.T) {
		ask := &mockAskService{answerErr: domain.ErrLLMUnavailable}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, QuestionInput{Question: "q"})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), "search_catalog")
	})
}

func TestUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty answer", domain.ErrEmptyAnswer, "empty answer"},
		{"embedding", domain.ErrEmbeddingUnavailable, "embedding model is not available"},
		{"credential", domain.ErrMissingCredential, "API key is missing"},
		{"wrapped not found", errors.Join(errors.New("chunk x"), domain.ErrNotFound), "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := userError(tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("unknown errors pass through", func(t *testing.T) {
		orig := errors.New("boom")
		assert.Same(t, orig, userError(orig))
	})
}
