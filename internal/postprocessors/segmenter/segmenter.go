// Package segmenter splits catalog text into product records and exposes
// the split as the first stage of the post-processor pipeline.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure HeadingSegmenter implements the interface.
var _ driven.Segmenter = (*HeadingSegmenter)(nil)

// HeadingSegmenter starts a new record at every product heading.
//
// A heading is an occurrence of the marker word at which the heading
// pattern matches. RE2 has no lookahead, so instead of splitting on a
// zero-width match the pattern is tried anchored at each marker
// occurrence. Headings that overlap on one line each start a record.
type HeadingSegmenter struct {
	heading   *regexp.Regexp
	marker    string
	minLength int
}

// Option configures the segmenter.
type Option func(*config)

type config struct {
	pattern   string
	marker    string
	minLength int
}

// WithPattern sets the heading regex.
func WithPattern(pattern string) Option {
	return func(c *config) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}

// WithMarker sets the literal token headings start with and records must contain.
func WithMarker(marker string) Option {
	return func(c *config) {
		if marker != "" {
			c.marker = marker
		}
	}
}

// WithMinLength sets the exclusive lower bound on record length in characters.
func WithMinLength(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minLength = n
		}
	}
}

// New creates a heading segmenter. It fails only if the pattern does not compile.
func New(opts ...Option) (*HeadingSegmenter, error) {
	cfg := config{
		pattern:   domain.DefaultHeadingPattern,
		marker:    domain.DefaultMarker,
		minLength: domain.DefaultRecordMinLength,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	re, err := regexp.Compile(`\A(?:` + cfg.pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: heading pattern: %v", domain.ErrInvalidInput, err)
	}

	return &HeadingSegmenter{
		heading:   re,
		marker:    cfg.marker,
		minLength: cfg.minLength,
	}, nil
}

// SplitPoints returns the byte offsets where headings begin, ascending.
func (s *HeadingSegmenter) SplitPoints(text string) []int {
	var points []int
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], s.marker)
		if i < 0 {
			break
		}
		pos := from + i
		if s.heading.MatchString(text[pos:]) {
			points = append(points, pos)
		}
		from = pos + len(s.marker)
	}
	return points
}

// Segment splits text at every heading and keeps the spans that look like
// products. Text before the first heading is its own leading span.
func (s *HeadingSegmenter) Segment(text string) []domain.ProductRecord {
	points := s.SplitPoints(text)

	bounds := make([]int, 0, len(points)+2)
	bounds = append(bounds, 0)
	for _, p := range points {
		if p > 0 {
			bounds = append(bounds, p)
		}
	}
	bounds = append(bounds, len(text))

	var records []domain.ProductRecord
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		content := strings.TrimSpace(text[start:end])
		if !s.keep(content) {
			if content != "" {
				logger.Debug("segmenter: dropped span at offset %d (%d chars)", start, utf8.RuneCountInString(content))
			}
			continue
		}
		records = append(records, domain.ProductRecord{
			Content: content,
			Offset:  start,
		})
	}
	return records
}

func (s *HeadingSegmenter) keep(content string) bool {
	return utf8.RuneCountInString(content) > s.minLength && strings.Contains(content, s.marker)
}
