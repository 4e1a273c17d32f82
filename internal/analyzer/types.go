package analyzer

import (
	"errors"
	"fmt"
)

type DocumentType string

const (
	DocumentBalanceSheet    DocumentType = "balanco_patrimonial"
	DocumentIncomeStatement DocumentType = "dre"
	DocumentCashFlow        DocumentType = "fluxo_caixa"
	DocumentAccountsReport  DocumentType = "relatorio_contas"
	DocumentOther           DocumentType = "other"
)

// DocumentTypes lists every document type the engine understands, in display order.
var DocumentTypes = []DocumentType{
	DocumentBalanceSheet,
	DocumentIncomeStatement,
	DocumentCashFlow,
	DocumentAccountsReport,
	DocumentOther,
}

func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DocumentRecord is one processed upload: its type and the numeric fields extracted from it.
type DocumentRecord struct {
	DocumentType  DocumentType       `json:"document_type"`
	ExtractedData map[string]float64 `json:"extracted_data"`
}

// IntegratedView merges every document record into statement sections and ratios.
type IntegratedView struct {
	HasDocumentData bool               `json:"has_document_data"`
	BalanceSheet    map[string]float64 `json:"balance_sheet"`
	IncomeStatement map[string]float64 `json:"income_statement"`
	CashFlow        map[string]float64 `json:"cash_flow"`
	FinancialRatios map[string]float64 `json:"financial_ratios"`
	AdjustedRevenue *float64           `json:"adjusted_revenue,omitempty"`
	AdjustedCosts   *float64           `json:"adjusted_costs,omitempty"`
}

func newIntegratedView() *IntegratedView {
	return &IntegratedView{
		BalanceSheet:    map[string]float64{},
		IncomeStatement: map[string]float64{},
		CashFlow:        map[string]float64{},
		FinancialRatios: map[string]float64{},
	}
}

// Ratio returns a document derived ratio. Ratios are only trusted when documents were supplied.
func (v *IntegratedView) Ratio(name string) (float64, bool) {
	if v == nil || !v.HasDocumentData {
		return 0, false
	}
	r, ok := v.FinancialRatios[name]
	return r, ok
}

// IndicatorResult is the score of one financial dimension. Score is nil when the
// inputs needed to compute it are missing.
type IndicatorResult struct {
	Score      *float64 `json:"score"`
	Evaluation string   `json:"avaliacao"`

	AverageMargin      *float64 `json:"margem_media,omitempty"`
	Trend              string   `json:"tendencia,omitempty"`
	LiquidityIndex     *float64 `json:"indice_liquidez,omitempty"`
	Source             string   `json:"fonte,omitempty"`
	DebtIndex          *float64 `json:"indice_endividamento,omitempty"`
	AverageGrowthRate  *float64 `json:"taxa_crescimento_media,omitempty"`
	RevenuePerEmployee *float64 `json:"receita_por_funcionario,omitempty"`
	OperatingMargin    *float64 `json:"margem_operacional,omitempty"`
	FinancialCycle     *float64 `json:"ciclo_financeiro,omitempty"`
	ReceivableDays     *float64 `json:"prazo_recebimento,omitempty"`
	PayableDays        *float64 `json:"prazo_pagamento,omitempty"`
	CAGR               *float64 `json:"cagr,omitempty"`
}

// Scored reports whether the indicator has a score and returns it.
func (r IndicatorResult) Scored() (float64, bool) {
	if r.Score == nil {
		return 0, false
	}
	return *r.Score, true
}

type Indicators struct {
	Profitability IndicatorResult `json:"rentabilidade"`
	Liquidity     IndicatorResult `json:"liquidez"`
	Debt          IndicatorResult `json:"endividamento"`
	Efficiency    IndicatorResult `json:"eficiencia"`
	Growth        IndicatorResult `json:"crescimento"`
}

func (i *Indicators) all() []IndicatorResult {
	return []IndicatorResult{i.Profitability, i.Liquidity, i.Debt, i.Efficiency, i.Growth}
}

type Diagnostic struct {
	Status          string     `json:"status"`
	Summary         string     `json:"summary"`
	Recommendations []string   `json:"recommendations"`
	Indicators      Indicators `json:"indicators"`
	OverallScore    float64    `json:"overall_score"`
	HasDocumentData bool       `json:"has_document_data"`
	Dashboard       Dashboard  `json:"dashboard"`
}

type Dashboard struct {
	HealthStatus  string        `json:"health_status"`
	HealthColor   string        `json:"health_color"`
	KPIs          KPIs          `json:"kpis"`
	ChartData     ChartData     `json:"chart_data"`
	BusinessInfo  BusinessInfo  `json:"business_info"`
	MarketData    MarketData    `json:"market_data"`
	CostStructure CostStructure `json:"cost_structure"`
}

type KPIs struct {
	AnnualRevenue                float64 `json:"faturamento_anual"`
	AnnualRevenueFormatted       string  `json:"faturamento_anual_formatado"`
	OperatingMargin              float64 `json:"margem_operacional"`
	ProjectedGrowth              float64 `json:"crescimento_projetado"`
	CostStructure                float64 `json:"estrutura_custos"`
	AverageProductivity          float64 `json:"produtividade_media"`
	AverageProductivityFormatted string  `json:"produtividade_media_formatada"`
}

type ChartData struct {
	Revenues         []float64 `json:"receitas"`
	Costs            []float64 `json:"custos"`
	Years            []string  `json:"anos"`
	FixedCostsPct    float64   `json:"custos_fixos_pct"`
	VariableCostsPct float64   `json:"custos_variaveis_pct"`
}

type BusinessInfo struct {
	BusinessModel       string  `json:"modelo_negocios"`
	MainProducts        string  `json:"principais_produtos"`
	MainRisks           string  `json:"principais_riscos"`
	Sector              string  `json:"setor_atuacao"`
	Employees           int     `json:"num_funcionarios"`
	AverageProductivity float64 `json:"produtividade_media"`
}

type MarketData struct {
	TAM    string  `json:"tam_valor"`
	SAM    string  `json:"sam_valor"`
	SOM    string  `json:"som_valor"`
	TAMPct float64 `json:"tam_pct"`
	SAMPct float64 `json:"sam_pct"`
	SOMPct float64 `json:"som_pct"`
}

type CostStructure struct {
	FixedPct    float64 `json:"fixos_pct"`
	VariablePct float64 `json:"variaveis_pct"`
}

// ValuationResult carries either a computed range or, when Status is one of the
// insufficient-data or error statuses, only Message.
type ValuationResult struct {
	Status      string            `json:"status"`
	Message     string            `json:"message,omitempty"`
	Valuation   string            `json:"valuation,omitempty"`
	RangeMin    string            `json:"range_min,omitempty"`
	RangeMax    string            `json:"range_max,omitempty"`
	MethodsUsed []string          `json:"methods_used,omitempty"`
	Assumptions string            `json:"assumptions,omitempty"`
	Details     *ValuationDetails `json:"details,omitempty"`

	Value        *float64 `json:"valor,omitempty"`
	MinValue     *float64 `json:"valor_minimo,omitempty"`
	MaxValue     *float64 `json:"valor_maximo,omitempty"`
	DiscountRate *float64 `json:"taxa_desconto,omitempty"`
	Multiple     *float64 `json:"multiplo,omitempty"`
}

type ValuationDetails struct {
	Multiples      string  `json:"multiplos"`
	DCF            string  `json:"dcf"`
	MultiplesValue float64 `json:"valor_multiplos"`
	DCFValue       float64 `json:"valor_dcf"`
}

// Computed reports whether the result carries a valuation range.
func (v *ValuationResult) Computed() bool {
	return v != nil && v.Status == StatusValuationComputed
}

var errNonFinite = errors.New("non-finite intermediate value")

// ComputationError reports an arithmetic failure inside one dimension of the analysis.
type ComputationError struct {
	Dimension string
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dimension, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

func ptr(v float64) *float64 {
	return &v
}
