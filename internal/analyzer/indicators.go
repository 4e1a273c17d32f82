package analyzer

import (
	"math"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

const (
	EvaluationInsufficient = "Dados insuficientes para análise"
	EvaluationLimitedData  = "Médio (dados limitados)"

	TrendGrowing   = "crescente"
	TrendDeclining = "decrescente"
	TrendStable    = "estável"
	TrendDocuments = "baseado em documentos"

	SourceBalanceSheet     = "balanço patrimonial"
	SourceRevenueCostProxy = "estimativa baseada em receitas/custos"

	neutralDebtScore = 5
)

// Dimension names, in the order they are scored and reported.
const (
	DimensionProfitability = "rentabilidade"
	DimensionLiquidity     = "liquidez"
	DimensionDebt          = "endividamento"
	DimensionEfficiency    = "eficiencia"
	DimensionGrowth        = "crescimento"
)

type scorerFunc func(p profile, view *IntegratedView) (IndicatorResult, error)

var scorers = []struct {
	dimension string
	score     scorerFunc
}{
	{DimensionProfitability, scoreProfitability},
	{DimensionLiquidity, scoreLiquidity},
	{DimensionDebt, scoreDebt},
	{DimensionEfficiency, scoreEfficiency},
	{DimensionGrowth, scoreGrowth},
}

func evaluationText(score float64) string {
	switch {
	case score >= 9:
		return "Excelente"
	case score >= 7:
		return "Muito Bom"
	case score >= 5:
		return "Bom"
	case score >= 3:
		return "Regular"
	default:
		return "Atenção"
	}
}

func insufficient() IndicatorResult {
	return IndicatorResult{Evaluation: EvaluationInsufficient}
}

func scored(score float64) IndicatorResult {
	return IndicatorResult{Score: ptr(score), Evaluation: evaluationText(score)}
}

func marginPct(revenue, costs float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return (revenue - costs) / revenue * 100
}

// cagrPercent is the compound growth rate over the four periods between the
// first and fifth year, in percent. The rate is rounded to nine decimals so
// exact table breakpoints are not lost to floating point noise.
func cagrPercent(first, last float64) float64 {
	return utils.Round((math.Pow(last/first, 1.0/(projectionYears-1))-1)*100, 9)
}

func scoreProfitability(p profile, view *IntegratedView) (IndicatorResult, error) {
	if ratio, ok := view.Ratio(RatioNetMargin); ok {
		margin := ratio * 100
		if !finite(margin) {
			return IndicatorResult{}, errNonFinite
		}
		r := scored(marginScore(margin))
		r.AverageMargin = ptr(utils.Round(margin, 2))
		r.Trend = TrendDocuments
		return r, nil
	}

	if p.Revenue[0] <= 0 && p.Revenue[1] <= 0 {
		return insufficient(), nil
	}

	m1 := marginPct(p.Revenue[0], p.Costs[0])
	m2 := marginPct(p.Revenue[1], p.Costs[1])
	if !finite(m1, m2) {
		return IndicatorResult{}, errNonFinite
	}

	trend := TrendStable
	switch {
	case m2 > m1*1.1:
		trend = TrendGrowing
	case m2 < m1*0.9:
		trend = TrendDeclining
	}

	score := 0.0
	if m1 > 0 || m2 > 0 {
		score = marginScore((m1 + m2) / 2)
		switch trend {
		case TrendGrowing:
			score = math.Min(10, score+1)
		case TrendDeclining:
			score = math.Max(0, score-1)
		}
	}

	r := scored(score)
	r.Trend = trend
	if m1 != 0 || m2 != 0 {
		r.AverageMargin = ptr(utils.Round((m1+m2)/2, 2))
	}
	return r, nil
}

// scoreLiquidity uses the balance sheet current ratio when available. Without
// it, year-one revenue over costs stands in for the ratio.
func scoreLiquidity(p profile, view *IntegratedView) (IndicatorResult, error) {
	ratio, ok := view.Ratio(RatioCurrentLiquidity)
	source := SourceBalanceSheet
	if !ok {
		if p.Revenue[0] <= 0 || p.Costs[0] <= 0 {
			return insufficient(), nil
		}
		ratio = p.Revenue[0] / p.Costs[0]
		source = SourceRevenueCostProxy
	}
	if !finite(ratio) {
		return IndicatorResult{}, errNonFinite
	}

	r := scored(liquidityScore(ratio))
	r.LiquidityIndex = ptr(utils.Round(ratio, 2))
	r.Source = source
	return r, nil
}

// scoreDebt scores liabilities over assets when a balance sheet was supplied.
// Otherwise the average growth of years two and three is read as a proxy for
// leverage: the faster the projected growth, the lower the score.
func scoreDebt(p profile, view *IntegratedView) (IndicatorResult, error) {
	if ratio, ok := view.Ratio(RatioGeneralDebt); ok {
		if !finite(ratio) {
			return IndicatorResult{}, errNonFinite
		}
		r := scored(debtRatioScore(ratio))
		r.DebtIndex = ptr(utils.Round(ratio*100, 2))
		r.Source = SourceBalanceSheet
		return r, nil
	}

	r1, r2, r3 := p.Revenue[0], p.Revenue[1], p.Revenue[2]
	if r1 > 0 && r2 > 0 && r3 > 0 {
		growth := ((r2-r1)/r1 + (r3-r2)/r2) / 2
		if !finite(growth) {
			return IndicatorResult{}, errNonFinite
		}
		r := scored(growthRiskScore(growth))
		r.AverageGrowthRate = ptr(utils.Round(growth*100, 2))
		return r, nil
	}

	if r1 > 0 {
		return IndicatorResult{Score: ptr(neutralDebtScore), Evaluation: EvaluationLimitedData}, nil
	}
	return insufficient(), nil
}

func scoreEfficiency(p profile, view *IntegratedView) (IndicatorResult, error) {
	revenue := p.revenueYear1(view)
	costs := p.costsYear1(view)
	if revenue <= 0 || p.Employees <= 0 {
		return insufficient(), nil
	}

	perEmployee := revenue / p.Employees
	margin := marginPct(revenue, costs)
	if ratio, ok := view.Ratio(RatioNetMargin); ok {
		margin = ratio * 100
	}
	if !finite(perEmployee, margin) {
		return IndicatorResult{}, errNonFinite
	}

	parts := []float64{revenuePerEmployeeScore(perEmployee), marginScore(margin)}

	receivable, hasReceivable := view.Ratio(RatioReceivableDays)
	payable, hasPayable := view.Ratio(RatioPayableDays)
	var cycle float64
	if hasReceivable && hasPayable {
		cycle = receivable - payable
		parts = append(parts, financialCycleScore(cycle))
	}

	sum := 0.0
	for _, s := range parts {
		sum += s
	}
	score := utils.Round(sum/float64(len(parts)), 1)

	r := scored(score)
	r.RevenuePerEmployee = ptr(utils.Round(perEmployee, 2))
	r.OperatingMargin = ptr(utils.Round(margin, 2))
	if hasReceivable && hasPayable {
		r.FinancialCycle = ptr(cycle)
		r.ReceivableDays = ptr(receivable)
		r.PayableDays = ptr(payable)
	}
	return r, nil
}

func scoreGrowth(p profile, view *IntegratedView) (IndicatorResult, error) {
	first := p.revenueYear1(view)
	last := p.Revenue[projectionYears-1]
	if first <= 0 || last <= 0 {
		return insufficient(), nil
	}

	cagr := cagrPercent(first, last)
	if !finite(cagr) {
		return IndicatorResult{}, errNonFinite
	}

	r := scored(cagrScore(cagr))
	r.CAGR = ptr(utils.Round(cagr, 2))
	return r, nil
}
