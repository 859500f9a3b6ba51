package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"doc-summarizer-platform/internal/telemetry"

	"github.com/ledongthuc/pdf"
)

// TextExtractor pulls plain text out of uploaded files. PDFs go through
// the go-pdf reader page by page; text files pass through unchanged.
type TextExtractor struct {
	metrics *telemetry.Metrics // optional
}

// NewTextExtractor creates a text extractor.
func NewTextExtractor(metrics *telemetry.Metrics) *TextExtractor {
	return &TextExtractor{metrics: metrics}
}

// Extract returns the plain text of the file. The extension decides the
// method; unsupported extensions are rejected at the route layer but are
// double-checked here.
func (e *TextExtractor) Extract(filename string, content []byte) (string, error) {
	start := time.Now()

	var text string
	var method string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		method = "go-pdf"
		text, err = e.extractPDF(content)
	case ".txt":
		method = "plaintext"
		text, err = e.extractPlainText(content)
	default:
		return "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}

	if err != nil {
		return "", err
	}

	if e.metrics != nil {
		e.metrics.RecordExtraction(time.Since(start).Seconds(), method)
	}

	return text, nil
}

func (e *TextExtractor) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// A single bad page should not sink the whole document.
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(text)
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if extracted == "" {
		return "", fmt.Errorf("no text extracted from PDF")
	}

	return extracted, nil
}

func (e *TextExtractor) extractPlainText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", fmt.Errorf("text file is empty")
	}

	return text, nil
}
