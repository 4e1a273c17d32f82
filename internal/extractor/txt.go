package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExtractTXT decodes plain text and CSV exports. Accounting systems in Brazil
// still emit Windows-1252 files, so non UTF-8 input is transcoded.
func ExtractTXT(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty text file")
	}

	text, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text file: %w", err)
	}
	if !looksLikeText(text) {
		return "", fmt.Errorf("file does not appear to be text")
	}

	text = cleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from file")
	}
	return text, nil
}

func decodeText(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:]), nil
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return transcode(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), data)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return transcode(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), data)
	case utf8.Valid(data):
		return string(data), nil
	}

	if s, err := transcode(charmap.Windows1252.NewDecoder(), data); err == nil {
		return s, nil
	}
	return transcode(charmap.ISO8859_1.NewDecoder(), data)
}

func transcode(t transform.Transformer, data []byte) (string, error) {
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// looksLikeText rejects binary payloads: at least 80% of the first 512 runes
// must be printable or whitespace.
func looksLikeText(s string) bool {
	var total, printable int
	for _, r := range s {
		if total == 512 {
			break
		}
		total++
		if r == '\t' || r == '\n' || r == '\r' || (r >= 32 && r != utf8.RuneError && r != 0x7f) {
			printable++
		}
	}
	return total > 0 && float64(printable)/float64(total) >= 0.8
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
