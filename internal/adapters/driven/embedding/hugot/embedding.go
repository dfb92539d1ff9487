// Package hugot runs sentence-transformers embedding models in-process
// with the pure Go hugot backend. Models are downloaded from Hugging Face
// into a cache directory on first use.
package hugot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultModel matches the multilingual-friendly mpnet sentence encoder.
const DefaultModel = domain.DefaultEmbeddingModel

// Config holds configuration for the hugot embedding service.
type Config struct {
	// Model is the Hugging Face model name (default: sentence-transformers/all-mpnet-base-v2).
	Model string

	// CacheDir holds downloaded models (default: ~/.catalogo/models).
	CacheDir string

	// OnnxFile is the model file inside the repository (default: onnx/model.onnx).
	OnnxFile string
}

// encoder turns texts into vectors. The hugot pipeline is the real one.
type encoder interface {
	encode(texts []string) ([][]float32, error)
	close() error
}

// EmbeddingService generates embeddings with a local hugot pipeline.
type EmbeddingService struct {
	cfg        Config
	dimensions int

	mu      sync.Mutex
	enc     encoder
	open    func(cfg Config) (encoder, error)
	initErr error
}

// NewEmbeddingService creates a new hugot embedding service.
// The model is loaded lazily on the first Embed or Ping.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.OnnxFile == "" {
		cfg.OnnxFile = "onnx/model.onnx"
	}
	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("hugot: determine home directory: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".catalogo", "models")
	}

	dims, ok := domain.EmbeddingDimensions()[cfg.Model]
	if !ok {
		dims = 0
	}

	return &EmbeddingService{
		cfg:        cfg,
		dimensions: dims,
		open:       openPipeline,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one pipeline run.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(); err != nil {
		return nil, err
	}

	vectors, err := s.enc.encode(texts)
	if err != nil {
		return nil, fmt.Errorf("%w: hugot: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: hugot returned %d embeddings for %d texts",
			domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}
	if s.dimensions == 0 && len(vectors[0]) > 0 {
		s.dimensions = len(vectors[0])
	}
	return vectors, nil
}

// ensureLocked opens the pipeline once. Failures are remembered.
func (s *EmbeddingService) ensureLocked() error {
	if s.enc != nil {
		return nil
	}
	if s.initErr != nil {
		return s.initErr
	}

	enc, err := s.open(s.cfg)
	if err != nil {
		s.initErr = fmt.Errorf("%w: hugot: %w", domain.ErrEmbeddingUnavailable, err)
		return s.initErr
	}
	s.enc = enc
	return nil
}

// Dimensions returns the embedding vector size.
// Unknown models report 0 until the first embedding is produced.
func (s *EmbeddingService) Dimensions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.cfg.Model
}

// Ping loads the model, downloading it if needed.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked()
}

// Close destroys the hugot session.
func (s *EmbeddingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc == nil {
		return nil
	}
	err := s.enc.close()
	s.enc = nil
	return err
}

// ModelPath returns where the model is cached.
func ModelPath(cfg Config) string {
	return filepath.Join(cfg.CacheDir, strings.ReplaceAll(cfg.Model, "/", "_"))
}

// prepareModel downloads the model if it is not cached and returns its path.
func prepareModel(cfg Config) (string, error) {
	modelPath := ModelPath(cfg)
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat model: %w", err)
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	logger.Info("Downloading %s to %s", cfg.Model, cfg.CacheDir)
	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = cfg.OnnxFile
	downloaded, err := hugot.DownloadModel(cfg.Model, cfg.CacheDir, opts)
	if err != nil {
		return "", fmt.Errorf("download model: %w", err)
	}
	return downloaded, nil
}

type pipelineEncoder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

func openPipeline(cfg Config) (encoder, error) {
	modelPath, err := prepareModel(cfg)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "catalogo-embedder",
	})
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("create pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	logger.Debug("Loaded embedding model from %s", modelPath)
	return &pipelineEncoder{session: session, pipeline: pipeline}, nil
}

func (p *pipelineEncoder) encode(texts []string) ([][]float32, error) {
	result, err := p.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, err
	}
	return result.Embeddings, nil
}

func (p *pipelineEncoder) close() error {
	return p.session.Destroy()
}
