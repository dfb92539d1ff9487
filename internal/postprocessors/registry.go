package postprocessors

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// BuilderFunc creates a pipeline stage from its [pipeline.<name>] config table.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry maps stage names to builders, remembering registration order.
type Registry struct {
	builders map[string]BuilderFunc
	order    []string
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// Register adds or replaces the builder for name.
// Replacing keeps the original position in Names.
func (r *Registry) Register(name string, builder BuilderFunc) {
	if _, exists := r.builders[name]; !exists {
		r.order = append(r.order, name)
	}
	r.builders[name] = builder
}

// Build creates the stage called name. The built stage must report the
// same name so pipeline errors point at the configured stage.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown pipeline stage %q (known: %s)",
			domain.ErrUnsupportedType, name, strings.Join(r.order, ", "))
	}
	proc, err := builder(cfg)
	if err != nil {
		return nil, err
	}
	if proc.Name() != name {
		return nil, fmt.Errorf("%w: stage %q built a %q processor", domain.ErrInvalidInput, name, proc.Name())
	}
	return proc, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered stage names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
