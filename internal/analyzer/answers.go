package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

// Questionnaire keys read by the engine.
const (
	KeyEmployees     = "num_funcionarios"
	KeySector        = "setor_atuacao"
	KeyBusinessModel = "modelo_negocios"
	KeyMainProducts  = "principais_produtos"
	KeyMainRisks     = "principais_riscos"
	KeyFixedCostsPct = "custos_fixos_pct"
	KeyTAM           = "tam_valor"
	KeySAM           = "sam_valor"
	KeySOM           = "som_valor"
)

const projectionYears = 5

func RevenueKey(year int) string { return fmt.Sprintf("receita_ano%d", year) }
func CostsKey(year int) string   { return fmt.Sprintf("custos_ano%d", year) }

const defaultFixedCostsPct = 60.0

// Answers is a flat questionnaire submission. Values are strings or numbers as
// collected by the form; the engine never mutates it.
type Answers map[string]any

// Text returns the trimmed textual answer for key, or def when it is missing or blank.
func (a Answers) Text(key, def string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return def
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return def
	}
	return s
}

// profile is the typed view of Answers used by every scorer.
type profile struct {
	Revenue       [projectionYears]float64
	Costs         [projectionYears]float64
	Employees     float64
	Sector        string
	BusinessModel string
	MainProducts  string
	MainRisks     string
	FixedCostsPct float64
	TAM, SAM, SOM float64
}

func (e *Engine) readProfile(a Answers) profile {
	var p profile
	for i := 0; i < projectionYears; i++ {
		p.Revenue[i] = e.number(a, RevenueKey(i+1), 0)
		p.Costs[i] = e.number(a, CostsKey(i+1), 0)
	}

	p.Employees = e.number(a, KeyEmployees, 0)
	p.Sector = a.Text(KeySector, "")
	p.BusinessModel = a.Text(KeyBusinessModel, "")
	p.MainProducts = a.Text(KeyMainProducts, "")
	p.MainRisks = a.Text(KeyMainRisks, "Concorrência")

	p.FixedCostsPct = e.number(a, KeyFixedCostsPct, defaultFixedCostsPct)
	if p.FixedCostsPct == 0 {
		p.FixedCostsPct = defaultFixedCostsPct
	}
	p.FixedCostsPct = clamp(p.FixedCostsPct, 0, 100)

	p.TAM = e.number(a, KeyTAM, 0)
	p.SAM = e.number(a, KeySAM, 0)
	p.SOM = e.number(a, KeySOM, 0)
	return p
}

// number reads a numeric answer. Missing and blank answers yield def silently;
// malformed ones yield def and a warning.
func (e *Engine) number(a Answers, key string, def float64) float64 {
	raw, ok := a[key]
	if !ok {
		return def
	}
	f, err := utils.ParseNumber(raw)
	if err != nil {
		if !errors.Is(err, utils.ErrEmptyNumber) {
			e.logger.Warn("Ignoring malformed numeric answer", "key", key, "value", raw, "error", err)
		}
		return def
	}
	return f
}

// revenueYear1 prefers the reconciled document figure over the questionnaire one.
func (p profile) revenueYear1(view *IntegratedView) float64 {
	if view != nil && view.HasDocumentData && view.AdjustedRevenue != nil {
		return *view.AdjustedRevenue
	}
	return p.Revenue[0]
}

func (p profile) costsYear1(view *IntegratedView) float64 {
	if view != nil && view.HasDocumentData && view.AdjustedCosts != nil {
		return *view.AdjustedCosts
	}
	return p.Costs[0]
}
