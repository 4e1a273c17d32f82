package analyzer

import (
	"math"
	"strings"
)

type breakpoint struct {
	bound float64
	score float64
}

// Score tables, highest score first.
var (
	marginTable = []breakpoint{
		{30, 10}, {25, 9}, {20, 8}, {15, 7}, {10, 6}, {5, 5},
	}

	liquidityTable = []breakpoint{
		{2.0, 10}, {1.8, 9}, {1.5, 8}, {1.3, 7}, {1.1, 6}, {1.0, 5}, {0.8, 4}, {0.6, 3}, {0.4, 2},
	}

	// compared with <=
	debtRatioTable = []breakpoint{
		{0.3, 10}, {0.4, 9}, {0.5, 8}, {0.6, 7}, {0.7, 6}, {0.8, 5}, {0.9, 4}, {1.0, 3}, {1.2, 2},
	}

	// compared with <=
	growthRiskTable = []breakpoint{
		{0.2, 8}, {0.5, 6}, {1.0, 4},
	}

	revenuePerEmployeeTable = []breakpoint{
		{500000, 10}, {400000, 9}, {300000, 8}, {250000, 7}, {200000, 6},
		{150000, 5}, {100000, 4}, {75000, 3}, {50000, 2},
	}

	// compared with <=
	financialCycleTable = []breakpoint{
		{0, 10}, {15, 8}, {30, 6}, {45, 4},
	}

	cagrTable = []breakpoint{
		{100, 10}, {80, 9}, {60, 8}, {40, 7}, {30, 6}, {20, 5}, {15, 4}, {10, 3}, {5, 2},
	}
)

func scoreAtLeast(table []breakpoint, v float64) (float64, bool) {
	for _, b := range table {
		if v >= b.bound {
			return b.score, true
		}
	}
	return 0, false
}

func scoreAtMost(table []breakpoint, v float64) (float64, bool) {
	for _, b := range table {
		if v <= b.bound {
			return b.score, true
		}
	}
	return 0, false
}

func marginScore(marginPct float64) float64 {
	if s, ok := scoreAtLeast(marginTable, marginPct); ok {
		return s
	}
	return clamp(marginPct, 0, 4)
}

func liquidityScore(ratio float64) float64 {
	if s, ok := scoreAtLeast(liquidityTable, ratio); ok {
		return s
	}
	return 1
}

func debtRatioScore(ratio float64) float64 {
	if s, ok := scoreAtMost(debtRatioTable, ratio); ok {
		return s
	}
	return 1
}

func growthRiskScore(rate float64) float64 {
	if s, ok := scoreAtMost(growthRiskTable, rate); ok {
		return s
	}
	return 2
}

func revenuePerEmployeeScore(v float64) float64 {
	if s, ok := scoreAtLeast(revenuePerEmployeeTable, v); ok {
		return s
	}
	return 1
}

func financialCycleScore(days float64) float64 {
	if s, ok := scoreAtMost(financialCycleTable, days); ok {
		return s
	}
	return 2
}

func cagrScore(cagrPct float64) float64 {
	if s, ok := scoreAtLeast(cagrTable, cagrPct); ok {
		return s
	}
	if cagrPct > 0 {
		return 1
	}
	return 0
}

// Valuation tables keyed by the questionnaire's sector and business model options.
var (
	sectorMultiples = map[string]float64{
		"Tecnologia": 5.0,
		"SaaS":       6.0,
		"Saúde":      4.0,
		"Varejo":     1.0,
		"Indústria":  1.5,
		"Serviços":   2.0,
		"Agro":       1.2,
		"Construção": 1.0,
		"Educação":   2.5,
		"Outros":     2.0,
	}

	businessModelAdjustments = map[string]float64{
		"Assinatura":    1.5,
		"Venda direta":  1.0,
		"Licenciamento": 1.3,
		"Intermediação": 1.2,
		"Freemium":      1.4,
		"Outro":         1.0,
	}

	sectorDiscountRates = map[string]float64{
		"Tecnologia": 0.20,
		"SaaS":       0.18,
		"Saúde":      0.15,
		"Varejo":     0.12,
		"Indústria":  0.14,
		"Serviços":   0.15,
		"Agro":       0.13,
		"Construção": 0.14,
		"Educação":   0.16,
		"Outros":     0.15,
	}
)

const (
	defaultSectorMultiple     = 2.0
	defaultModelAdjustment    = 1.0
	defaultSectorDiscountRate = 0.15
)

// lookup matches key case-insensitively and falls back to def.
func lookup(table map[string]float64, key string, def float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	for k, v := range table {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return def
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
