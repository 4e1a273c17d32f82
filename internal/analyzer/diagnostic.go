package analyzer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

const (
	StatusQuestionnaireOnly     = "Baseado apenas nas respostas do questionário"
	StatusQuestionnaireAndFiles = "Baseado nas respostas do questionário e documentos enviados"

	HealthHealthy = "Saudável"
	HealthStable  = "Estável"
	HealthAlert   = "Atenção"

	notInformed = "Não informado"
)

var (
	chartYears = []string{"Ano 1", "Ano 2", "Ano 3", "Ano 4", "Ano 5"}

	exampleRevenues = []float64{1000000, 1200000, 1500000, 1750000, 2000000}
	exampleCosts    = []float64{800000, 900000, 1100000, 1200000, 1300000}

	genericRecommendations = []string{
		"Manter monitoramento constante dos indicadores financeiros.",
		"Considerar análise mais detalhada com dados financeiros completos.",
	}
)

// GenerateDiagnostic scores the five financial dimensions and assembles the
// dashboard. It always returns a complete Diagnostic.
func (e *Engine) GenerateDiagnostic(documents []DocumentRecord, answers Answers) *Diagnostic {
	p := e.readProfile(answers)
	view := e.integrate(documents, p)

	indicators := e.scoreAll(p, view)
	overall := overallScore(indicators)
	status, color := healthStatus(overall)
	kpis := buildKPIs(p, view)

	d := &Diagnostic{
		Status:          StatusQuestionnaireOnly,
		Summary:         summary(overall, view.HasDocumentData),
		Recommendations: recommendations(indicators, view),
		Indicators:      indicators,
		OverallScore:    overall,
		HasDocumentData: view.HasDocumentData,
		Dashboard: Dashboard{
			HealthStatus:  status,
			HealthColor:   color,
			KPIs:          kpis,
			ChartData:     buildChartData(p, view),
			BusinessInfo:  buildBusinessInfo(p, kpis),
			MarketData:    buildMarketData(p),
			CostStructure: CostStructure{FixedPct: p.FixedCostsPct, VariablePct: 100 - p.FixedCostsPct},
		},
	}
	if view.HasDocumentData {
		d.Status = StatusQuestionnaireAndFiles
	}

	e.logger.Info("Diagnostic generated",
		"overall_score", overall,
		"health_status", status,
		"has_document_data", view.HasDocumentData)

	return d
}

func (e *Engine) scoreAll(p profile, view *IntegratedView) Indicators {
	results := make(map[string]IndicatorResult, len(scorers))
	for _, s := range scorers {
		results[s.dimension] = e.runScorer(s.dimension, s.score, p, view)
	}
	return Indicators{
		Profitability: results[DimensionProfitability],
		Liquidity:     results[DimensionLiquidity],
		Debt:          results[DimensionDebt],
		Efficiency:    results[DimensionEfficiency],
		Growth:        results[DimensionGrowth],
	}
}

// runScorer converts a failed or panicking scorer into an insufficient-data result.
func (e *Engine) runScorer(dimension string, fn scorerFunc, p profile, view *IntegratedView) (result IndicatorResult) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("Indicator scorer panicked", "dimension", dimension, "panic", rec)
			result = insufficient()
		}
	}()

	r, err := fn(p, view)
	if err != nil {
		cerr := &ComputationError{Dimension: dimension, Err: err}
		e.logger.Error("Indicator computation failed", "dimension", dimension, "error", cerr)
		return insufficient()
	}
	if s, ok := r.Scored(); ok && (s < 0 || s > 10) {
		e.logger.Error("Indicator score out of range", "dimension", dimension, "score", s)
		r.Score = ptr(clamp(s, 0, 10))
	}
	return r
}

// overallScore averages the non-nil scores, rounded to one decimal. It is 0
// when no dimension could be scored.
func overallScore(ind Indicators) float64 {
	var sum float64
	var n int
	for _, r := range ind.all() {
		if s, ok := r.Scored(); ok {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return utils.Round(sum/float64(n), 1)
}

func healthStatus(score float64) (string, string) {
	switch {
	case score >= 7:
		return HealthHealthy, "success"
	case score >= 4:
		return HealthStable, "warning"
	default:
		return HealthAlert, "danger"
	}
}

func buildKPIs(p profile, view *IntegratedView) KPIs {
	revenue := p.revenueYear1(view)
	costs := p.costsYear1(view)

	margin := utils.Round(marginPct(revenue, costs), 1)
	if ratio, ok := view.Ratio(RatioNetMargin); ok {
		margin = utils.Round(ratio*100, 2)
	}

	growth := 0.0
	if last := p.Revenue[projectionYears-1]; revenue > 0 && last > 0 {
		growth = utils.Round(cagrPercent(revenue, last), 1)
	}

	productivity := 0.0
	if p.Employees > 0 {
		productivity = math.Round(revenue / p.Employees)
	}

	k := KPIs{
		AnnualRevenue:                revenue,
		AnnualRevenueFormatted:       FormatCurrency(revenue),
		OperatingMargin:              margin,
		ProjectedGrowth:              growth,
		CostStructure:                p.FixedCostsPct,
		AverageProductivity:          productivity,
		AverageProductivityFormatted: FormatCurrency(productivity),
	}
	if !finite(k.OperatingMargin, k.ProjectedGrowth, k.AverageProductivity) {
		k.OperatingMargin, k.ProjectedGrowth, k.AverageProductivity = 0, 0, 0
		k.AverageProductivityFormatted = FormatCurrency(0)
	}
	return k
}

func buildChartData(p profile, view *IntegratedView) ChartData {
	revenues := make([]float64, projectionYears)
	costs := make([]float64, projectionYears)
	copy(revenues, p.Revenue[:])
	copy(costs, p.Costs[:])
	revenues[0] = p.revenueYear1(view)
	costs[0] = p.costsYear1(view)

	total := 0.0
	for _, r := range revenues {
		total += r
	}
	if total == 0 {
		revenues = append([]float64(nil), exampleRevenues...)
		costs = append([]float64(nil), exampleCosts...)
	}

	return ChartData{
		Revenues:         revenues,
		Costs:            costs,
		Years:            append([]string(nil), chartYears...),
		FixedCostsPct:    p.FixedCostsPct,
		VariableCostsPct: 100 - p.FixedCostsPct,
	}
}

func buildBusinessInfo(p profile, kpis KPIs) BusinessInfo {
	info := BusinessInfo{
		BusinessModel:       p.BusinessModel,
		MainProducts:        p.MainProducts,
		MainRisks:           p.MainRisks,
		Sector:              p.Sector,
		Employees:           int(math.Max(0, p.Employees)),
		AverageProductivity: kpis.AverageProductivity,
	}
	if info.BusinessModel == "" {
		info.BusinessModel = "Venda direta"
	}
	if info.MainProducts == "" {
		info.MainProducts = "Vendas de produtos"
	}
	return info
}

func buildMarketData(p profile) MarketData {
	return MarketData{
		TAM:    marketValue(p.TAM),
		SAM:    marketValue(p.SAM),
		SOM:    marketValue(p.SOM),
		TAMPct: 100,
		SAMPct: marketShare(p.SAM, p.TAM, 60),
		SOMPct: marketShare(p.SOM, p.TAM, 30),
	}
}

func marketValue(v float64) string {
	if v <= 0 {
		return notInformed
	}
	return FormatCurrency(v)
}

func marketShare(part, total, def float64) float64 {
	if total <= 0 || part <= 0 {
		return def
	}
	return math.Round(part / total * 100)
}

// recommendations lists dimension messages in scoring order, then messages
// derived from document ratios, falling back to the generic pair.
func recommendations(ind Indicators, view *IntegratedView) []string {
	var recs []string

	if s, ok := ind.Profitability.Scored(); ok {
		if s < 5 {
			recs = append(recs, "Revisar estrutura de custos e política de preços para melhorar margens.")
		}
		if ind.Profitability.Trend == TrendDeclining {
			recs = append(recs, "Investigar causas da queda de rentabilidade e implementar ações corretivas.")
		}
	}
	if s, ok := ind.Liquidity.Scored(); ok && s < 5 {
		recs = append(recs, "Melhorar gestão de capital de giro e revisar prazos de pagamento e recebimento.")
	}
	if s, ok := ind.Debt.Scored(); ok && s < 5 {
		recs = append(recs, "Revisar estratégia de crescimento para garantir sustentabilidade financeira.")
	}
	if s, ok := ind.Efficiency.Scored(); ok && s < 5 {
		recs = append(recs, "Otimizar processos operacionais e revisar produtividade por funcionário.")
	}

	receivable, hasReceivable := view.Ratio(RatioReceivableDays)
	payable, hasPayable := view.Ratio(RatioPayableDays)
	if hasReceivable && hasPayable {
		if cycle := receivable - payable; cycle > 30 {
			recs = append(recs, fmt.Sprintf(
				"Reduzir o ciclo financeiro atual de %s dias, negociando melhores prazos com fornecedores ou clientes.",
				strconv.FormatFloat(cycle, 'f', -1, 64)))
		}
	}
	if ratio, ok := view.Ratio(RatioCurrentLiquidity); ok && ratio < 1.0 {
		recs = append(recs, "Aumentar o capital de giro para melhorar a liquidez corrente que está abaixo do ideal.")
	}
	if ratio, ok := view.Ratio(RatioGeneralDebt); ok && ratio > 0.7 {
		recs = append(recs, "Reduzir o nível de endividamento geral que está acima do recomendado.")
	}

	if len(recs) == 0 {
		recs = append(recs, genericRecommendations...)
	}
	return recs
}

func summary(overall float64, hasDocuments bool) string {
	var base string
	switch {
	case overall >= 8:
		base = "A empresa apresenta indicadores financeiros sólidos, com boas perspectivas de crescimento sustentável."
	case overall >= 6:
		base = "A empresa apresenta indicadores financeiros satisfatórios, com potencial para melhorias em algumas áreas."
	case overall >= 4:
		base = "A empresa apresenta indicadores financeiros regulares, com necessidade de atenção em áreas específicas."
	case overall > 0:
		base = "A empresa apresenta indicadores financeiros preocupantes, necessitando de ações corretivas imediatas."
	default:
		return "Não foi possível gerar um diagnóstico completo devido à insuficiência de dados."
	}

	if hasDocuments {
		return base + " Este diagnóstico considera tanto as respostas do questionário quanto os documentos financeiros enviados."
	}
	return base + " Este diagnóstico é baseado apenas nas respostas do questionário."
}
