//go:build !cgo

// Package ocr reads scanned catalogs by rendering pages with MuPDF and
// running Tesseract over the images.
// This is a stub for builds without CGO.
package ocr

import (
	"context"
	"fmt"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

var errNoCGO = fmt.Errorf("%w: ocr loader requires a cgo build", domain.ErrExtractorUnavailable)

// Loader OCRs every page of the PDF.
// This is a stub for builds without CGO.
type Loader struct{}

// New creates an OCR loader.
func New(_ ...string) *Loader {
	return &Loader{}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return "ocr"
}

// CheckAvailable reports that OCR is not compiled in.
func (l *Loader) CheckAvailable() error {
	return errNoCGO
}

// Load always fails without CGO.
func (l *Loader) Load(_ context.Context, _ string) ([]domain.RawFragment, error) {
	return nil, errNoCGO
}
