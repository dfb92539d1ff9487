package postprocessors

import (
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/postprocessors/chunker"
	"github.com/custodia-labs/catalogo-cli/internal/postprocessors/segmenter"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("segmenter", buildSegmenter)
	r.Register("chunker", buildChunker)
}

// buildSegmenter creates a product segmenter from generic config.
// Supported config keys:
//   - pattern (string): Heading regex tried at each marker occurrence
//   - marker (string): Token every heading starts with and every record contains
//   - min_length (int): Records must be longer than this (default: 100)
func buildSegmenter(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []segmenter.Option

	if cfg != nil {
		if pattern, ok := cfg["pattern"].(string); ok {
			opts = append(opts, segmenter.WithPattern(pattern))
		}
		if marker, ok := cfg["marker"].(string); ok {
			opts = append(opts, segmenter.WithMarker(marker))
		}
		if n, ok := getIntFromConfig(cfg, "min_length"); ok {
			opts = append(opts, segmenter.WithMinLength(n))
		}
	}

	s, err := segmenter.New(opts...)
	if err != nil {
		return nil, err
	}
	return segmenter.NewProcessor(s), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 2000)
//   - overlap (int): Overlapping characters between chunks (default: 300)
//   - separators ([]string): Split preferences, highest priority first
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size, ok := getIntFromConfig(cfg, "chunk_size"); ok && size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
		if seps, ok := getStringsFromConfig(cfg, "separators"); ok {
			opts = append(opts, chunker.WithSeparators(seps...))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// getStringsFromConfig extracts a string list, accepting []string or the
// []any produced by TOML decoding.
func getStringsFromConfig(cfg map[string]any, key string) ([]string, bool) {
	switch v := cfg[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
