//go:build !cgo

// Package fitz extracts catalog text with MuPDF through go-fitz.
// This is a stub for builds without CGO.
package fitz

import (
	"context"
	"fmt"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

var errNoCGO = fmt.Errorf("%w: fitz loader requires a cgo build", domain.ErrExtractorUnavailable)

// Loader reads page text from the PDF with MuPDF.
// This is a stub for builds without CGO.
type Loader struct{}

// New creates a MuPDF loader.
func New() *Loader {
	return &Loader{}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return "fitz"
}

// CheckAvailable reports that MuPDF is not compiled in.
func (l *Loader) CheckAvailable() error {
	return errNoCGO
}

// Load always fails without CGO.
func (l *Loader) Load(_ context.Context, _ string) ([]domain.RawFragment, error) {
	return nil, errNoCGO
}
