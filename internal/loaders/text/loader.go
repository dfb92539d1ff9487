// Package text loads catalogs that were already converted to plain text.
// Form feeds separate pages, as in pdftotext output.
package text

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/loaders"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads a UTF-8 text file.
type Loader struct{}

// New creates a plain text loader.
func New() *Loader {
	return &Loader{}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return "text"
}

// Load reads the file and splits it into page and paragraph fragments.
func (l *Loader) Load(_ context.Context, path string) ([]domain.RawFragment, error) {
	if err := loaders.CheckFile(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrInvalidInput, path)
	}

	var fragments []domain.RawFragment
	for i, page := range strings.Split(string(data), "\f") {
		fragments = append(fragments, loaders.SplitElements(i+1, page)...)
	}
	return fragments, nil
}
