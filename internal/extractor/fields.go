package extractor

import (
	"context"
	"maps"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
)

// Input is what a FieldExtractor sees of an uploaded document.
type Input struct {
	Filename     string
	DocumentType analyzer.DocumentType
	Format       Format
	Size         int64
	Text         string
}

// FieldExtractor turns a document into the named figures the analyzer reads
// (receita_liquida, ativo_circulante, ...).
type FieldExtractor interface {
	ExtractFields(ctx context.Context, in Input) (map[string]float64, error)
}

// SimulatedExtractor returns fixed figures per document type. It stands in for
// a real OCR or parsing backend.
type SimulatedExtractor struct{}

func NewSimulatedExtractor() *SimulatedExtractor {
	return &SimulatedExtractor{}
}

var simulatedFields = map[analyzer.DocumentType]map[string]float64{
	analyzer.DocumentBalanceSheet: {
		"ativo_total":        1500000,
		"passivo_total":      900000,
		"patrimonio_liquido": 600000,
		"ativo_circulante":   800000,
		"passivo_circulante": 500000,
		"estoques":           300000,
	},
	analyzer.DocumentIncomeStatement: {
		"receita_liquida":       2000000,
		"custo_produtos":        1200000,
		"lucro_bruto":           800000,
		"despesas_operacionais": 500000,
		"lucro_operacional":     300000,
		"lucro_liquido":         250000,
	},
	analyzer.DocumentCashFlow: {
		"caixa_operacional":    350000,
		"caixa_investimentos":  -150000,
		"caixa_financiamentos": -50000,
		"variacao_liquida":     150000,
	},
	analyzer.DocumentAccountsReport: {
		"contas_receber":          400000,
		"prazo_medio_recebimento": 45,
		"contas_pagar":            300000,
		"prazo_medio_pagamento":   30,
	},
}

func (s *SimulatedExtractor) ExtractFields(ctx context.Context, in Input) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fields, ok := simulatedFields[in.DocumentType]; ok {
		return maps.Clone(fields), nil
	}
	return map[string]float64{"tamanho_arquivo": float64(in.Size)}, nil
}
