package analyzer

import (
	"math"
	"testing"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

func newTestEngine() *Engine {
	return NewEngine(utils.NewNopLogger())
}

// growthCompany is the five year projection used across the engine tests.
func growthCompany() Answers {
	return Answers{
		"receita_ano1":     1000000,
		"receita_ano2":     1200000,
		"receita_ano3":     1500000,
		"receita_ano4":     1800000,
		"receita_ano5":     2200000,
		"custos_ano1":      700000,
		"custos_ano2":      800000,
		"custos_ano3":      1000000,
		"custos_ano4":      1200000,
		"custos_ano5":      1400000,
		"num_funcionarios": 10,
		"setor_atuacao":    "Tecnologia",
		"modelo_negocios":  "Assinatura",
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func requireScore(t *testing.T, name string, r IndicatorResult, want float64) {
	t.Helper()
	got, ok := r.Scored()
	if !ok {
		t.Fatalf("%s: expected a score, got nil (%s)", name, r.Evaluation)
	}
	if !almostEqual(got, want) {
		t.Errorf("%s: score = %v, want %v", name, got, want)
	}
}

func requireNoScore(t *testing.T, name string, r IndicatorResult) {
	t.Helper()
	if r.Score != nil {
		t.Fatalf("%s: expected nil score, got %v", name, *r.Score)
	}
	if r.Evaluation != EvaluationInsufficient {
		t.Errorf("%s: evaluation = %q, want %q", name, r.Evaluation, EvaluationInsufficient)
	}
}
