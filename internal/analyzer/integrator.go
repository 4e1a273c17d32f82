package analyzer

import (
	"math"
	"strings"
)

// Ratio names written to IntegratedView.FinancialRatios.
const (
	RatioCurrentLiquidity = "liquidez_corrente"
	RatioQuickLiquidity   = "liquidez_seca"
	RatioGeneralDebt      = "endividamento_geral"
	RatioNetMargin        = "margem_liquida"
	RatioGrossMargin      = "margem_bruta"
	RatioReceivableDays   = "prazo_medio_recebimento"
	RatioPayableDays      = "prazo_medio_pagamento"
)

// reconciliationTolerance is the relative divergence above which questionnaire
// and document figures are averaged.
const reconciliationTolerance = 0.20

// Integrate merges the document records into one view and reconciles year-one
// revenue and costs against the questionnaire.
func (e *Engine) Integrate(documents []DocumentRecord, answers Answers) *IntegratedView {
	return e.integrate(documents, e.readProfile(answers))
}

func (e *Engine) integrate(documents []DocumentRecord, p profile) *IntegratedView {
	view := newIntegratedView()

	for _, doc := range documents {
		if len(doc.ExtractedData) == 0 {
			continue
		}
		view.HasDocumentData = true

		fields := doc.ExtractedData
		switch DocumentType(strings.ToLower(string(doc.DocumentType))) {
		case DocumentBalanceSheet:
			mergeInto(view.BalanceSheet, fields)
			ac, hasAC := fields["ativo_circulante"]
			pc, hasPC := fields["passivo_circulante"]
			if hasAC && hasPC && pc > 0 {
				e.setRatio(view, RatioCurrentLiquidity, ac/pc)
				if stock, ok := fields["estoques"]; ok {
					e.setRatio(view, RatioQuickLiquidity, (ac-stock)/pc)
				}
			}
			liabilities, hasL := fields["passivo_total"]
			if assets, ok := fields["ativo_total"]; ok && hasL && assets > 0 {
				e.setRatio(view, RatioGeneralDebt, liabilities/assets)
			}

		case DocumentIncomeStatement:
			mergeInto(view.IncomeStatement, fields)
			if revenue, ok := fields["receita_liquida"]; ok && revenue > 0 {
				if profit, ok := fields["lucro_liquido"]; ok {
					e.setRatio(view, RatioNetMargin, profit/revenue)
				}
				if gross, ok := fields["lucro_bruto"]; ok {
					e.setRatio(view, RatioGrossMargin, gross/revenue)
				}
			}

		case DocumentCashFlow:
			mergeInto(view.CashFlow, fields)

		case DocumentAccountsReport:
			for _, key := range []string{RatioReceivableDays, RatioPayableDays} {
				if v, ok := fields[key]; ok {
					e.setRatio(view, key, v)
				}
			}
		}
	}

	if !view.HasDocumentData {
		return view
	}

	if revenue, ok := view.IncomeStatement["receita_liquida"]; ok {
		view.AdjustedRevenue = ptr(reconcile(p.Revenue[0], revenue))
	}
	if costs, ok := view.IncomeStatement["custo_produtos"]; ok {
		view.AdjustedCosts = ptr(reconcile(p.Costs[0], costs))
	}

	e.logger.Debug("Integrated document data",
		"documents", len(documents),
		"ratios", len(view.FinancialRatios),
		"adjusted_revenue", view.AdjustedRevenue != nil,
		"adjusted_costs", view.AdjustedCosts != nil)

	return view
}

// reconcile picks the figure used for year one when the questionnaire and a
// document disagree: the questionnaire value unless it diverges by more than
// the tolerance, in which case the mean of both.
func reconcile(questionnaire, document float64) float64 {
	if questionnaire <= 0 {
		return document
	}
	if math.Abs(questionnaire-document)/questionnaire > reconciliationTolerance {
		return (questionnaire + document) / 2
	}
	return questionnaire
}

func (e *Engine) setRatio(view *IntegratedView, name string, v float64) {
	if !finite(v) {
		e.logger.Error("Skipping non-finite ratio", "ratio", name, "value", v)
		return
	}
	view.FinancialRatios[name] = v
}

func mergeInto(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] = v
	}
}
