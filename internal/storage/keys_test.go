package storage

import "testing"

func TestDocumentKey(t *testing.T) {
	got := DocumentKey("c1", "d1", "Balanço 2024.pdf")
	if got != "companies/c1/documents/d1/Balanco_2024.pdf" {
		t.Errorf("DocumentKey = %q", got)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := map[string]string{
		"dre.pdf":              "dre.pdf",
		"../../etc/passwd":     "passwd",
		`C:\docs\fluxo.csv`:    "fluxo.csv",
		"relatório final.docx": "relatorio_final.docx",
		"...":                  "document",
		"":                     "document",
	}
	for in, want := range tests {
		if got := SafeFilename(in); got != want {
			t.Errorf("SafeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
