package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const htmlBlocks = "p, div, li, tr, table, h1, h2, h3, h4, h5, h6, section, article"

// ExtractHTML returns the visible text of an HTML statement export. Each block
// element becomes a line and table cells are separated by " | ".
func ExtractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td:not(:last-child), th:not(:last-child)").AppendHtml(" | ")
	doc.Find(htmlBlocks).AppendHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	lines := strings.Split(body.Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	text := cleanText(strings.Join(lines, "\n"))
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from HTML")
	}
	return text, nil
}
