package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hugotembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/hugot"
	ollamaembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// ollamaServer answers the endpoints used by Ping.
func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"nomic-embed-text:latest"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func deadServer(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	return server.URL
}

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	// Should not panic
	result.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	ctx := context.Background()

	t.Run("nil and unconfigured return nil", func(t *testing.T) {
		svc, err := CreateEmbeddingService(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, svc)

		svc, err = CreateEmbeddingService(ctx, &domain.EmbeddingSettings{})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("anthropic is not an embedding provider", func(t *testing.T) {
		svc, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "k",
		})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("hugot uses base url as cache dir", func(t *testing.T) {
		dir := t.TempDir()
		svc, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderHugot,
			Model:    "sentence-transformers/all-MiniLM-L6-v2",
			BaseURL:  dir,
		})
		require.NoError(t, err)
		require.IsType(t, &hugotembed.EmbeddingService{}, svc)
		assert.Equal(t, 384, svc.Dimensions())
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  "http://localhost:11434",
			Model:    "mxbai-embed-large",
		})
		require.NoError(t, err)
		require.IsType(t, &ollamaembed.EmbeddingService{}, svc)
		assert.Equal(t, 1024, svc.Dimensions())
	})

	t.Run("ollama unknown model uses default dimensions", func(t *testing.T) {
		svc, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			Model:    "custom-embedder",
		})
		require.NoError(t, err)
		assert.Equal(t, ollamaembed.DefaultDimensions, svc.Dimensions())
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "sk-test",
			Model:    "text-embedding-3-large",
		})
		require.NoError(t, err)
		require.IsType(t, &openaiembed.EmbeddingService{}, svc)
		assert.Equal(t, 3072, svc.Dimensions())
	})
}

func TestCreateEmbeddingService_UnknownProvider(t *testing.T) {
	svc, err := CreateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProvider("unknown"),
	})

	// Unknown providers are not "configured".
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateLLMService(t *testing.T) {
	ctx := context.Background()

	t.Run("nil and unconfigured return nil", func(t *testing.T) {
		svc, err := CreateLLMService(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, svc)

		svc, err = CreateLLMService(ctx, &domain.LLMSettings{Provider: domain.AIProviderGemini})
		require.NoError(t, err)
		assert.Nil(t, svc, "gemini without key is not configured")
	})

	t.Run("hugot is not an LLM provider", func(t *testing.T) {
		svc, err := CreateLLMService(ctx, &domain.LLMSettings{Provider: domain.AIProviderHugot})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateLLMService(ctx, &domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			Model:    "llama3.2",
		})
		require.NoError(t, err)
		require.IsType(t, &ollamallm.LLMService{}, svc)
		assert.Equal(t, "llama3.2", svc.ModelName())
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := CreateLLMService(ctx, &domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "sk-test",
			Model:    "gpt-4o",
		})
		require.NoError(t, err)
		require.IsType(t, &openaillm.LLMService{}, svc)
		assert.Equal(t, "gpt-4o", svc.ModelName())
	})

	t.Run("anthropic", func(t *testing.T) {
		svc, err := CreateLLMService(ctx, &domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "sk-ant",
		})
		require.NoError(t, err)
		require.IsType(t, &anthropicllm.LLMService{}, svc)
		assert.Equal(t, anthropicllm.DefaultModel, svc.ModelName())
	})
}

func TestCreateAndValidateLLMService_Ollama(t *testing.T) {
	server := ollamaServer(t)

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "llama3.2",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NoError(t, svc.Close())
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadServer(t),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "catalogo settings show")
	assert.Nil(t, svc)
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadServer(t),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Nil(t, svc)
}

func TestCreateAndValidateEmbeddingService_Unconfigured(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
	})

	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestValidateConfigs_Ollama(t *testing.T) {
	server := ollamaServer(t)

	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	}))
	assert.Error(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadServer(t),
	}))
}

func TestInit_Ollama(t *testing.T) {
	server := ollamaServer(t)
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "nomic-embed-text",
	}
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "llama3.2",
	}

	result, err := Init(context.Background(), &settings, true)

	require.NoError(t, err)
	defer result.Close()
	assert.NotNil(t, result.EmbeddingService)
	assert.NotNil(t, result.LLMService)
	require.NotNil(t, result.VectorIndex)
	assert.Equal(t, 0, result.VectorIndex.Len())
}

func TestInit_WithoutLLM(t *testing.T) {
	server := ollamaServer(t)
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderGemini}

	result, err := Init(context.Background(), &settings, false)

	require.NoError(t, err)
	defer result.Close()
	assert.Nil(t, result.LLMService)
}

func TestInit_UnconfiguredLLM(t *testing.T) {
	server := ollamaServer(t)
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderGemini}

	_, err := Init(context.Background(), &settings, true)

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestInit_UnconfiguredEmbedding(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI}

	_, err := Init(context.Background(), &settings, false)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
