// Package extract turns stored PDFs and images into searchable text.
//
// Every failure degrades to empty text; callers treat empty text as
// "nothing extracted" and never see an error.
package extract

import (
	"context"
	"log"
	"strings"
)

const (
	MIMEPDF     = "application/pdf"
	imagePrefix = "image/"
	ocrLanguage = "eng"
)

// Recognizer runs OCR over an image file.
type Recognizer interface {
	Recognize(ctx context.Context, path, language string) (string, error)
}

// PDFReader returns the plain text content of a PDF file.
type PDFReader func(path string) (string, error)

type Extractor struct {
	ocr Recognizer
	pdf PDFReader
}

func New(ocr Recognizer) *Extractor {
	return &Extractor{ocr: ocr, pdf: ReadPDF}
}

// WithPDFReader replaces the PDF backend.
func (e *Extractor) WithPDFReader(r PDFReader) *Extractor {
	e.pdf = r
	return e
}

// Extract returns the text of the file at path according to mimeType.
func (e *Extractor) Extract(ctx context.Context, path, mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case mimeType == MIMEPDF:
		text, err := e.pdf(path)
		if err != nil {
			log.Printf("[Extract] PDF parse failed for %s: %v", path, err)
			return ""
		}
		return text
	case strings.HasPrefix(mimeType, imagePrefix):
		if e.ocr == nil {
			return ""
		}
		text, err := e.ocr.Recognize(ctx, path, ocrLanguage)
		if err != nil {
			log.Printf("[Extract] OCR failed for %s: %v", path, err)
			return ""
		}
		return text
	}
	return ""
}

// HasText reports whether text holds anything besides whitespace.
func HasText(text string) bool {
	return strings.TrimSpace(text) != ""
}
