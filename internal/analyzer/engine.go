package analyzer

import (
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

// Analyzer turns questionnaire answers and processed documents into a health
// diagnostic and a valuation estimate.
type Analyzer interface {
	GenerateDiagnostic(documents []DocumentRecord, answers Answers) *Diagnostic
	CalculateValuation(documents []DocumentRecord, answers Answers) *ValuationResult
}

// Engine is the stateless Analyzer implementation. A single Engine is safe for
// concurrent use.
type Engine struct {
	logger *utils.Logger
}

func NewEngine(logger *utils.Logger) *Engine {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Engine{logger: logger.With("component", "analyzer")}
}

var _ Analyzer = (*Engine)(nil)
