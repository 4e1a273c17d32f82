package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
)

type typeKeywords struct {
	docType  analyzer.DocumentType
	keywords []string
}

// Checked in order; the first type with a matching keyword wins.
var documentKeywords = []typeKeywords{
	{analyzer.DocumentBalanceSheet, []string{"balanco patrimonial", "ativo circulante", "passivo circulante"}},
	{analyzer.DocumentIncomeStatement, []string{"demonstracao do resultado", "dre", "receita liquida"}},
	{analyzer.DocumentCashFlow, []string{"fluxo de caixa", "caixa operacional"}},
	{analyzer.DocumentAccountsReport, []string{"contas a receber", "contas a pagar"}},
}

// InferDocumentType guesses the statement type from extracted text and falls
// back to analyzer.DocumentOther. Matching ignores case and accents.
func InferDocumentType(text string) analyzer.DocumentType {
	normalized := foldText(text)
	if normalized == "" {
		return analyzer.DocumentOther
	}

	words := " " + strings.Join(strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ") + " "

	for _, tk := range documentKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(words, " "+kw+" ") {
				return tk.docType
			}
		}
	}
	return analyzer.DocumentOther
}

func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
