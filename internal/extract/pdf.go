package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"policyrag/internal/domain"
)

// PageMarker formats the inline marker inserted at each page boundary. The
// chunker parses these markers back out to attribute chunks to pages.
func PageMarker(page int) string {
	return fmt.Sprintf("[Page %d]", page)
}

// LoadPDF extracts the text of every page of the PDF at path into a single
// string, preceding each page's text with its 1-based page marker. A missing
// or unreadable file, or a PDF with no extractable text (for example a pure
// image scan), yields a DocumentLoadError.
func LoadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &domain.DocumentLoadError{Path: path, Err: err}
	}
	defer f.Close()

	var sb strings.Builder
	extracted := false
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &domain.DocumentLoadError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		sb.WriteString("\n")
		sb.WriteString(PageMarker(i))
		sb.WriteString("\n")
		sb.WriteString(text)
		if strings.TrimSpace(text) != "" {
			extracted = true
		}
	}
	if !extracted {
		return "", &domain.DocumentLoadError{Path: path}
	}
	return sb.String(), nil
}
