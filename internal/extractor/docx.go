package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func (p docxParagraph) text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Financial statements exported from Word usually keep their figures in tables.
type docxTable struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []docxParagraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

const docxMainPart = "word/document.xml"

func ExtractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("%s not found in DOCX", docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", docxMainPart, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", docxMainPart, err)
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", docxMainPart, err)
	}

	var lines []string
	for _, p := range doc.Body.Paragraphs {
		lines = append(lines, p.text())
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, c := range row.Cells {
				var parts []string
				for _, p := range c.Paragraphs {
					parts = append(parts, p.text())
				}
				cells = append(cells, strings.TrimSpace(strings.Join(parts, " ")))
			}
			lines = append(lines, strings.Join(cells, " | "))
		}
	}

	text := cleanText(strings.Join(lines, "\n"))
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from DOCX")
	}
	return text, nil
}
