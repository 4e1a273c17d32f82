package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the plain text of every readable page. Pages that fail to
// decode are skipped; the call only fails when no page yields text.
func ExtractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	var unreadable int
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			unreadable++
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := cleanText(sb.String())
	if text == "" {
		if unreadable > 0 {
			return "", fmt.Errorf("no text could be extracted from PDF (%d unreadable pages)", unreadable)
		}
		return "", fmt.Errorf("no text could be extracted from PDF")
	}

	return text, nil
}
