package loaders

import (
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Availability is implemented by loaders whose extractor may be missing.
type Availability interface {
	// CheckAvailable returns nil if the loader can run on this machine.
	CheckAvailable() error
}

// Registry maps loader types to loaders, with an optional fallback chain.
type Registry struct {
	loaders   map[domain.LoaderType]driven.DocumentLoader
	fallbacks map[domain.LoaderType]domain.LoaderType
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders:   make(map[domain.LoaderType]driven.DocumentLoader),
		fallbacks: make(map[domain.LoaderType]domain.LoaderType),
	}
}

// Register adds a loader under the given type.
func (r *Registry) Register(kind domain.LoaderType, l driven.DocumentLoader) {
	r.loaders[kind] = l
}

// SetFallback makes Select use to when from is unavailable.
func (r *Registry) SetFallback(from, to domain.LoaderType) {
	r.fallbacks[from] = to
}

// Types returns registered loader types, sorted.
func (r *Registry) Types() []domain.LoaderType {
	out := make([]domain.LoaderType, 0, len(r.loaders))
	for k := range r.loaders {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Select returns the loader for kind. If it reports itself unavailable the
// fallback chain is followed. The last availability error is returned when
// nothing in the chain can run.
func (r *Registry) Select(kind domain.LoaderType) (driven.DocumentLoader, error) {
	seen := map[domain.LoaderType]bool{}
	var lastErr error

	for current := kind; current != "" && !seen[current]; current = r.fallbacks[current] {
		seen[current] = true

		l, ok := r.loaders[current]
		if !ok {
			if lastErr == nil {
				lastErr = fmt.Errorf("%w: loader %q", domain.ErrUnsupportedType, current)
			}
			continue
		}

		if a, ok := l.(Availability); ok {
			if err := a.CheckAvailable(); err != nil {
				logger.Warn("loader %s unavailable: %v", current, err)
				lastErr = err
				continue
			}
		}
		if current != kind {
			logger.Info("using %s loader instead of %s", current, kind)
		}
		return l, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no loader configured")
	}
	return nil, lastErr
}
