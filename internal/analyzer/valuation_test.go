package analyzer

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestCalculateValuation(t *testing.T) {
	v := newTestEngine().CalculateValuation(nil, growthCompany())

	if !v.Computed() {
		t.Fatalf("status = %q, message = %q", v.Status, v.Message)
	}
	if v.Valuation != "R$ 9.94 milhões" {
		t.Errorf("valuation = %q", v.Valuation)
	}
	if v.RangeMin != "R$ 7.95 milhões" || v.RangeMax != "R$ 11.93 milhões" {
		t.Errorf("range = %q - %q", v.RangeMin, v.RangeMax)
	}
	if v.Details == nil || v.Details.Multiples != "R$ 16.50 milhões" || v.Details.DCF != "R$ 3.38 milhões" {
		t.Errorf("details = %+v", v.Details)
	}
	if !reflect.DeepEqual(v.MethodsUsed, valuationMethods) {
		t.Errorf("methods_used = %v", v.MethodsUsed)
	}
	if !strings.Contains(v.Assumptions, "3%") || !strings.Contains(v.Assumptions, "depreciação") {
		t.Errorf("assumptions = %q", v.Assumptions)
	}
	if *v.DiscountRate != 0.20 || !almostEqual(*v.Multiple, 7.5) {
		t.Errorf("rate = %v, multiple = %v", *v.DiscountRate, *v.Multiple)
	}
	if !almostEqual(*v.MinValue, *v.Value*0.8) || !almostEqual(*v.MaxValue, *v.Value*1.2) {
		t.Errorf("range values %v..%v do not match %v", *v.MinValue, *v.MaxValue, *v.Value)
	}
}

func TestCalculateValuationInsufficientData(t *testing.T) {
	answers := growthCompany()
	answers["receita_ano5"] = 0

	v := newTestEngine().CalculateValuation(nil, answers)
	if v.Status != StatusValuationInsufficient {
		t.Fatalf("status = %q", v.Status)
	}
	if v.Message == "" {
		t.Error("expected a guidance message")
	}
	if v.Computed() || v.Valuation != "" || v.RangeMin != "" || v.RangeMax != "" || v.Value != nil {
		t.Error("insufficient data must not carry a range")
	}
}

func TestCalculateValuationLossMakingRangeIsOrdered(t *testing.T) {
	answers := growthCompany()
	for i := 1; i <= 5; i++ {
		year := string(rune('0' + i))
		answers["receita_ano"+year] = 100000
		answers["custos_ano"+year] = 1000000
	}

	v := newTestEngine().CalculateValuation(nil, answers)
	if !v.Computed() {
		t.Fatalf("status = %q", v.Status)
	}
	if *v.Value >= 0 {
		t.Fatalf("expected a negative valuation, got %v", *v.Value)
	}
	if *v.MinValue > *v.MaxValue {
		t.Errorf("range inverted: %v..%v", *v.MinValue, *v.MaxValue)
	}
	if !almostEqual(*v.MinValue, *v.Value*1.2) || !almostEqual(*v.MaxValue, *v.Value*0.8) {
		t.Errorf("range values %v..%v do not match %v", *v.MinValue, *v.MaxValue, *v.Value)
	}
	if v.RangeMin != FormatCurrency(*v.MinValue) || v.RangeMax != FormatCurrency(*v.MaxValue) {
		t.Errorf("range = %q - %q", v.RangeMin, v.RangeMax)
	}
}

func TestCalculateValuationIsDeterministic(t *testing.T) {
	e := newTestEngine()
	first := e.CalculateValuation(nil, growthCompany())
	for i := 0; i < 5; i++ {
		if next := e.CalculateValuation(nil, growthCompany()); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %+v vs %+v", i, next, first)
		}
	}
}

func TestCalculateValuationIgnoresDocuments(t *testing.T) {
	e := newTestEngine()
	docs := []DocumentRecord{{
		DocumentType:  DocumentIncomeStatement,
		ExtractedData: map[string]float64{"receita_liquida": 5000000, "custo_produtos": 100},
	}}
	if !reflect.DeepEqual(e.CalculateValuation(docs, growthCompany()), e.CalculateValuation(nil, growthCompany())) {
		t.Error("documents must not change the valuation")
	}
}

func TestValuationDefaultsForUnknownSectorAndModel(t *testing.T) {
	answers := growthCompany()
	answers["setor_atuacao"] = "Mineração"
	answers["modelo_negocios"] = ""

	v := newTestEngine().CalculateValuation(nil, answers)
	if *v.DiscountRate != defaultSectorDiscountRate || *v.Multiple != defaultSectorMultiple*defaultModelAdjustment {
		t.Errorf("rate = %v, multiple = %v", *v.DiscountRate, *v.Multiple)
	}
}

func TestDiscountedCashFlow(t *testing.T) {
	revenues := []float64{1000000, 1200000, 1500000, 1800000, 2200000}
	costs := []float64{700000, 800000, 1000000, 1200000, 1400000}

	got, err := discountedCashFlow(revenues, costs, 0.20)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 3375907.770515614) {
		t.Errorf("dcf = %v", got)
	}

	losses := []float64{100, 100, 100, 100, 100}
	got, err = discountedCashFlow(losses, []float64{200, 200, 200, 200, 200}, 0.15)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.0
	for i := 1; i <= 5; i++ {
		want -= 100 / math.Pow(1.15, float64(i))
	}
	if !almostEqual(got, want) {
		t.Errorf("negative last flow must not add a terminal value: got %v, want %v", got, want)
	}

	if _, err := discountedCashFlow(revenues, costs, 0.03); err == nil {
		t.Error("expected an error when the discount rate does not exceed perpetual growth")
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "R$ 0"},
		{1500000000, "R$ 1.50 bilhões"},
		{2500000, "R$ 2.50 milhões"},
		{1500, "R$ 1.50 mil"},
		{999.5, "R$ 999.50"},
		{-2000000, "R$ -2.00 milhões"},
		{math.NaN(), "R$ 0"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.value); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
