package loaders

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

var blankLines = regexp.MustCompile(`\n[ \t\r]*\n`)

// SplitElements splits page text into narrative elements at blank lines.
// Whitespace-only elements are skipped; single line breaks are kept.
func SplitElements(page int, text string) []domain.RawFragment {
	var out []domain.RawFragment
	for _, part := range blankLines.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, domain.RawFragment{
			Text:        part,
			Page:        page,
			ElementType: domain.ElementNarrative,
		})
	}
	return out
}

// CheckFile verifies path names a readable regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	return nil
}
