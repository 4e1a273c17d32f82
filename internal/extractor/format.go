package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the container format of an uploaded file, derived from its extension.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatText        Format = "txt"
	FormatCSV         Format = "csv"
	FormatHTML        Format = "html"
	FormatSpreadsheet Format = "spreadsheet"
	FormatImage       Format = "image"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

var formatsByExtension = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".txt":  FormatText,
	".csv":  FormatCSV,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".xls":  FormatSpreadsheet,
	".xlsx": FormatSpreadsheet,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
}

// AllowedExtensions returns the accepted upload extensions without the leading dot.
func AllowedExtensions() []string {
	return []string{"pdf", "docx", "txt", "csv", "html", "htm", "xls", "xlsx", "png", "jpg", "jpeg"}
}

func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := formatsByExtension[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// HasText reports whether text can be pulled out of the format.
func (f Format) HasText() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatText, FormatCSV, FormatHTML:
		return true
	}
	return false
}

// ExtractText dispatches to the extractor for the format. Formats without a
// text layer return an empty string and no error.
func ExtractText(f Format, data []byte) (string, error) {
	if !f.HasText() {
		switch f {
		case FormatSpreadsheet, FormatImage:
			return "", nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}

	switch f {
	case FormatPDF:
		return ExtractPDF(data)
	case FormatDOCX:
		return ExtractDOCX(data)
	case FormatHTML:
		return ExtractHTML(data)
	default:
		return ExtractTXT(data)
	}
}

// Preview truncates extracted text to at most limit runes.
func Preview(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
