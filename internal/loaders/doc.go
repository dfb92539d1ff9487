// Package loaders turns the catalog file into ordered text fragments.
//
// Each sub-package implements driven.DocumentLoader with a different
// extractor:
//
//   - pdftotext: poppler's pdftotext command
//   - fitz: MuPDF text extraction via go-fitz (requires cgo, default)
//   - ocr: MuPDF page rendering plus Tesseract OCR (requires cgo)
//   - text: already extracted plain text
//
// This package holds the helpers they share and the Registry used to pick
// one by name.
package loaders
