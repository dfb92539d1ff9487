//go:build cgo

// Package fitz extracts catalog text with MuPDF through go-fitz.
package fitz

import (
	"context"
	"fmt"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/loaders"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads page text from the PDF with MuPDF.
type Loader struct{}

// New creates a MuPDF loader.
func New() *Loader {
	return &Loader{}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return "fitz"
}

// CheckAvailable always succeeds in cgo builds.
func (l *Loader) CheckAvailable() error {
	return nil
}

// Load extracts the text of every page and splits it into elements.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawFragment, error) {
	if err := loaders.CheckFile(path); err != nil {
		return nil, err
	}

	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var fragments []domain.RawFragment
	pages := doc.NumPage()
	for n := 0; n < pages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", n+1, err)
		}
		fragments = append(fragments, loaders.SplitElements(n+1, text)...)
	}
	logger.Debug("fitz: %d pages, %d fragments from %s", pages, len(fragments), path)

	return fragments, nil
}
