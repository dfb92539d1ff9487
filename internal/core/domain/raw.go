package domain

// Element types reported by document loaders.
const (
	ElementNarrative = "NarrativeText"
	ElementPage      = "Page"
	ElementOCR       = "OCRText"
)

// RawFragment is a piece of extracted text plus its source metadata.
// Loaders produce fragments in reading order; they are discarded once
// concatenated into a Document.
type RawFragment struct {
	// Text is the extracted text.
	Text string

	// Page is the 1-based page number the fragment came from.
	Page int

	// ElementType describes the layout element (narrative text, whole page, OCR).
	ElementType string
}

// FragmentSeparator joins fragments when building document text.
const FragmentSeparator = "\n"

// JoinFragments concatenates fragment texts in order.
func JoinFragments(fragments []RawFragment) string {
	if len(fragments) == 0 {
		return ""
	}
	size := len(FragmentSeparator) * (len(fragments) - 1)
	for _, f := range fragments {
		size += len(f.Text)
	}
	buf := make([]byte, 0, size)
	for i, f := range fragments {
		if i > 0 {
			buf = append(buf, FragmentSeparator...)
		}
		buf = append(buf, f.Text...)
	}
	return string(buf)
}
