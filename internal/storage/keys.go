package storage

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DocumentKey is the object key of an uploaded document:
// companies/{company_id}/documents/{document_id}/{filename}.
func DocumentKey(companyID, documentID, filename string) string {
	return path.Join("companies", companyID, "documents", documentID, SafeFilename(filename))
}

// SafeFilename strips directories and accents and keeps only ASCII letters,
// digits, '.', '-' and '_'.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), name); err == nil {
		name = folded
	}

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('_')
		}
	}

	safe := strings.Trim(sb.String(), "._")
	if safe == "" {
		return "document"
	}
	return safe
}
