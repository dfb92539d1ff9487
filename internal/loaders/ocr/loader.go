//go:build cgo

// Package ocr reads scanned catalogs by rendering pages with MuPDF and
// running Tesseract over the images.
package ocr

import (
	"context"
	"fmt"
	"strings"

	gofitz "github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/loaders"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// DefaultDPI is the render resolution handed to Tesseract.
const DefaultDPI = 200

// Loader OCRs every page of the PDF.
type Loader struct {
	languages []string
	dpi       float64
}

// New creates an OCR loader. Languages default to Portuguese then English.
func New(languages ...string) *Loader {
	if len(languages) == 0 {
		languages = []string{"por", "eng"}
	}
	return &Loader{languages: languages, dpi: DefaultDPI}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return "ocr"
}

// CheckAvailable reports whether Tesseract can be initialised.
func (l *Loader) CheckAvailable() error {
	client := gosseract.NewClient()
	defer client.Close()
	if v := client.Version(); v == "" {
		return fmt.Errorf("%w: tesseract not initialised", domain.ErrExtractorUnavailable)
	}
	return nil
}

// Load renders each page and returns one OCR fragment per element.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawFragment, error) {
	if err := loaders.CheckFile(path); err != nil {
		return nil, err
	}

	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(l.languages...); err != nil {
		return nil, fmt.Errorf("%w: tesseract languages %s: %v",
			domain.ErrExtractorUnavailable, strings.Join(l.languages, "+"), err)
	}

	var fragments []domain.RawFragment
	pages := doc.NumPage()
	for n := 0; n < pages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImagePNG(n, l.dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n+1, err)
		}
		if err := client.SetImageFromBytes(img); err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", n+1, err)
		}
		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", n+1, err)
		}

		for _, f := range loaders.SplitElements(n+1, text) {
			f.ElementType = domain.ElementOCR
			fragments = append(fragments, f)
		}
		logger.Debug("ocr: page %d/%d done", n+1, pages)
	}

	return fragments, nil
}
