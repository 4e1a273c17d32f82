package analyzer

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	StatusValuationComputed     = "Valuation calculado com base nas projeções financeiras"
	StatusValuationInsufficient = "Dados insuficientes"
	StatusValuationError        = "Erro no cálculo"

	messageValuationInsufficient = "É necessário fornecer projeções de receita para calcular o valuation."

	perpetualGrowthRate = 0.03
	valuationRangeLow   = 0.8
	valuationRangeHigh  = 1.2
)

var (
	valuationMethods = []string{"Múltiplos de Receita", "Fluxo de Caixa Descontado (DCF)"}

	valuationAssumptions = []string{
		"Projeções de receita e custos conforme informado no questionário",
		"Taxa de crescimento na perpetuidade de 3%",
		"Múltiplos de receita ajustados por setor e modelo de negócio",
		"Horizonte de projeção de 5 anos",
		"Fluxo de caixa anual igual a receita menos custos, assumindo depreciação equivalente ao capex",
	}
)

// CalculateValuation averages a revenue multiple valuation and a discounted
// cash flow valuation of the questionnaire projections and returns a ±20%
// range. Documents do not influence the result.
func (e *Engine) CalculateValuation(documents []DocumentRecord, answers Answers) (result *ValuationResult) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("Valuation panicked", "panic", rec)
			result = valuationError(fmt.Errorf("%v", rec))
		}
	}()

	p := e.readProfile(answers)
	if p.Revenue[projectionYears-1] <= 0 {
		e.logger.Info("Valuation skipped: no year five revenue", "documents", len(documents))
		return &ValuationResult{Status: StatusValuationInsufficient, Message: messageValuationInsufficient}
	}

	multiple := lookup(sectorMultiples, p.Sector, defaultSectorMultiple) *
		lookup(businessModelAdjustments, p.BusinessModel, defaultModelAdjustment)
	byMultiples := p.Revenue[projectionYears-1] * multiple

	rate := lookup(sectorDiscountRates, p.Sector, defaultSectorDiscountRate)
	byDCF, err := discountedCashFlow(p.Revenue[:], p.Costs[:], rate)
	if err != nil {
		e.logger.Error("Valuation failed", "error", err, "sector", p.Sector)
		return valuationError(err)
	}

	final := (byMultiples + byDCF) / 2
	// A negative valuation would otherwise invert the range
	low := math.Min(final*valuationRangeLow, final*valuationRangeHigh)
	high := math.Max(final*valuationRangeLow, final*valuationRangeHigh)
	if !finite(byMultiples, final, low, high) {
		e.logger.Error("Valuation failed", "error", errNonFinite, "sector", p.Sector)
		return valuationError(errNonFinite)
	}

	e.logger.Info("Valuation calculated",
		"sector", p.Sector,
		"business_model", p.BusinessModel,
		"multiples", byMultiples,
		"dcf", byDCF,
		"valuation", final)

	return &ValuationResult{
		Status:      StatusValuationComputed,
		Valuation:   FormatCurrency(final),
		RangeMin:    FormatCurrency(low),
		RangeMax:    FormatCurrency(high),
		MethodsUsed: append([]string(nil), valuationMethods...),
		Assumptions: strings.Join(valuationAssumptions, "; ") + ".",
		Details: &ValuationDetails{
			Multiples:      FormatCurrency(byMultiples),
			DCF:            FormatCurrency(byDCF),
			MultiplesValue: byMultiples,
			DCFValue:       byDCF,
		},
		Value:        ptr(final),
		MinValue:     ptr(low),
		MaxValue:     ptr(high),
		DiscountRate: ptr(rate),
		Multiple:     ptr(multiple),
	}
}

// discountedCashFlow sums the discounted yearly flows (revenue minus costs)
// plus a Gordon growth terminal value. The terminal value only counts when the
// last flow is positive.
func discountedCashFlow(revenues, costs []float64, rate float64) (float64, error) {
	if len(revenues) == 0 {
		return 0, errors.New("no revenue projections")
	}
	if rate <= perpetualGrowthRate {
		return 0, fmt.Errorf("discount rate %.2f must exceed perpetual growth %.2f", rate, perpetualGrowthRate)
	}

	var pv, last float64
	for i, revenue := range revenues {
		flow := revenue
		if i < len(costs) {
			flow -= costs[i]
		}
		pv += flow / math.Pow(1+rate, float64(i+1))
		last = flow
	}

	if last > 0 {
		terminal := last * (1 + perpetualGrowthRate) / (rate - perpetualGrowthRate)
		pv += terminal / math.Pow(1+rate, float64(len(revenues)))
	}

	if !finite(pv) {
		return 0, errNonFinite
	}
	return pv, nil
}

func valuationError(err error) *ValuationResult {
	return &ValuationResult{
		Status:  StatusValuationError,
		Message: "Ocorreu um erro ao calcular o valuation: " + err.Error(),
	}
}
