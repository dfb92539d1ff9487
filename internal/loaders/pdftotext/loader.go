// Package pdftotext extracts catalog text with poppler's pdftotext command.
package pdftotext

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/loaders"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

const toolName = "pdftotext"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext not found in PATH", domain.ErrExtractorUnavailable)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Loader runs pdftotext over the catalog and splits its output into
// page and paragraph fragments.
type Loader struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a loader that executes the real pdftotext binary.
func New() *Loader {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a loader with a custom command runner.
func NewWithRunner(runner CommandRunner) *Loader {
	return &Loader{
		runner:   runner,
		lookPath: exec.LookPath,
	}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return toolName
}

// CheckAvailable reports whether pdftotext is installed.
func (l *Loader) CheckAvailable() error {
	if _, err := l.lookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// Load extracts fragments from the PDF at path. Pages are separated by
// form feeds in pdftotext output; within a page, blank lines separate
// elements.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawFragment, error) {
	if err := loaders.CheckFile(path); err != nil {
		return nil, err
	}
	if err := l.CheckAvailable(); err != nil {
		return nil, err
	}

	out, err := l.runner.Run(ctx, toolName, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	pages := strings.Split(string(out), "\f")
	var fragments []domain.RawFragment
	for i, page := range pages {
		fragments = append(fragments, loaders.SplitElements(i+1, page)...)
	}
	logger.Debug("pdftotext: %d pages, %d fragments from %s", len(pages), len(fragments), path)

	return fragments, nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read PDF catalogs.

Install poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils
  Windows:        choco install poppler

Alternatively set document.loader = "fitz" to use the built-in MuPDF extractor.`
}
