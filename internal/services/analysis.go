package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
	"github.com/BerylCAtieno/cfo-service/internal/cache"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type AnalysisService interface {
	// Diagnostic reports whether the result came from the cache.
	Diagnostic(ctx context.Context, companyID string) (*analyzer.Diagnostic, bool, error)
	Valuation(ctx context.Context, companyID string) (*analyzer.ValuationResult, bool, error)
}

// ResultCache is the subset of *cache.Cache the analysis service needs.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any) error
}

type analysisService struct {
	engine         analyzer.Analyzer
	cache          ResultCache
	companies      repository.CompanyRepository
	questionnaires repository.QuestionnaireRepository
	documents      repository.DocumentRepository
	logger         *utils.Logger
}

func NewAnalysisService(engine analyzer.Analyzer, results ResultCache, repos *repository.Repositories, logger *utils.Logger) AnalysisService {
	return &analysisService{
		engine:         engine,
		cache:          results,
		companies:      repos.Companies,
		questionnaires: repos.Questionnaires,
		documents:      repos.Documents,
		logger:         logger.With("service", "analysis"),
	}
}

type analysisInput struct {
	Answers   analyzer.Answers          `json:"answers"`
	Documents []analyzer.DocumentRecord `json:"documents"`
}

// fingerprint identifies an input set; json.Marshal sorts map keys so equal
// inputs hash equally.
func (in *analysisInput) fingerprint() (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (s *analysisService) loadInput(ctx context.Context, companyID string) (*analysisInput, error) {
	if _, err := loadCompany(ctx, s.companies, s.logger, companyID); err != nil {
		return nil, err
	}

	in := &analysisInput{Answers: analyzer.Answers{}, Documents: []analyzer.DocumentRecord{}}

	q, err := s.questionnaires.GetByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to get questionnaire", "error", err, "company_id", companyID)
		return nil, utils.WrapInternal("Failed to load questionnaire", err)
	}
	if q != nil {
		in.Answers = analyzer.Answers(q.Answers)
	}

	docs, err := s.documents.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err, "company_id", companyID)
		return nil, utils.WrapInternal("Failed to load documents", err)
	}
	for i := range docs {
		in.Documents = append(in.Documents, docs[i].Record())
	}
	return in, nil
}

func (s *analysisService) Diagnostic(ctx context.Context, companyID string) (*analyzer.Diagnostic, bool, error) {
	in, err := s.loadInput(ctx, companyID)
	if err != nil {
		return nil, false, err
	}

	var result analyzer.Diagnostic
	hit, key := s.lookup(ctx, "diagnostic", companyID, in, &result)
	if hit {
		return &result, true, nil
	}

	diag := s.engine.GenerateDiagnostic(in.Documents, in.Answers)
	s.store(ctx, key, diag)

	s.logger.Info("Diagnostic generated", "company_id", companyID, "overall_score", diag.OverallScore, "status", diag.Status)
	return diag, false, nil
}

func (s *analysisService) Valuation(ctx context.Context, companyID string) (*analyzer.ValuationResult, bool, error) {
	in, err := s.loadInput(ctx, companyID)
	if err != nil {
		return nil, false, err
	}

	var result analyzer.ValuationResult
	hit, key := s.lookup(ctx, "valuation", companyID, in, &result)
	if hit {
		return &result, true, nil
	}

	val := s.engine.CalculateValuation(in.Documents, in.Answers)
	if val.Computed() {
		s.store(ctx, key, val)
	}

	s.logger.Info("Valuation calculated", "company_id", companyID, "status", val.Status)
	return val, false, nil
}

// lookup returns the cache key for the input and whether dst was filled from it.
func (s *analysisService) lookup(ctx context.Context, kind, companyID string, in *analysisInput, dst any) (bool, string) {
	sum, err := in.fingerprint()
	if err != nil {
		s.logger.Warn("Failed to fingerprint analysis input", "error", err, "company_id", companyID)
		return false, ""
	}
	key := kind + ":" + companyID + ":" + sum

	err = s.cache.GetJSON(ctx, key, dst)
	switch {
	case err == nil:
		return true, key
	case !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("Failed to read cached result", "error", err, "key", key)
	}
	return false, key
}

func (s *analysisService) store(ctx context.Context, key string, v any) {
	if key == "" {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v); err != nil {
		s.logger.Warn("Failed to cache result", "error", err, "key", key)
	}
}
