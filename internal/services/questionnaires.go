package services

import (
	"context"
	"errors"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/questionnaire"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type QuestionnaireService interface {
	Schema() *questionnaire.Template
	SaveAnswers(ctx context.Context, companyID string, raw map[string]any) (*models.QuestionnaireResponse, error)
	GetAnswers(ctx context.Context, companyID string) (*models.Questionnaire, error)
}

type questionnaireService struct {
	template       *questionnaire.Template
	companies      repository.CompanyRepository
	questionnaires repository.QuestionnaireRepository
	logger         *utils.Logger
}

func NewQuestionnaireService(tpl *questionnaire.Template, repos *repository.Repositories, logger *utils.Logger) QuestionnaireService {
	return &questionnaireService{
		template:       tpl,
		companies:      repos.Companies,
		questionnaires: repos.Questionnaires,
		logger:         logger.With("service", "questionnaires"),
	}
}

func (s *questionnaireService) Schema() *questionnaire.Template {
	return s.template
}

// SaveAnswers replaces the stored answers with the cleaned submission.
func (s *questionnaireService) SaveAnswers(ctx context.Context, companyID string, raw map[string]any) (*models.QuestionnaireResponse, error) {
	if _, err := loadCompany(ctx, s.companies, s.logger, companyID); err != nil {
		return nil, err
	}

	sub, err := s.template.Normalize(raw)
	if err != nil {
		var verr *questionnaire.ValidationError
		if errors.As(err, &verr) {
			return nil, utils.NewUnprocessableError("Some answers are invalid").WithDetails(verr.Fields)
		}
		return nil, utils.NewBadRequestError(err.Error())
	}

	now := time.Now().UTC()
	q := &models.Questionnaire{
		CompanyID: companyID,
		Answers:   models.JSONMap(sub.Answers),
		Status:    sub.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.questionnaires.Upsert(ctx, q); err != nil {
		s.logger.Error("Failed to save questionnaire", "error", err, "company_id", companyID)
		return nil, utils.WrapInternal("Failed to save questionnaire", err)
	}

	stored, err := s.questionnaires.GetByCompany(ctx, companyID)
	if err != nil || stored == nil {
		s.logger.Warn("Failed to reload questionnaire", "error", err, "company_id", companyID)
		stored = q
	}

	if len(sub.IgnoredKeys) > 0 {
		s.logger.Debug("Ignored unknown questionnaire keys", "company_id", companyID, "keys", sub.IgnoredKeys)
	}
	s.logger.Info("Questionnaire saved", "company_id", companyID, "status", sub.Status, "answers", len(sub.Answers))

	return &models.QuestionnaireResponse{Questionnaire: *stored, IgnoredKeys: sub.IgnoredKeys}, nil
}

func (s *questionnaireService) GetAnswers(ctx context.Context, companyID string) (*models.Questionnaire, error) {
	if _, err := loadCompany(ctx, s.companies, s.logger, companyID); err != nil {
		return nil, err
	}

	q, err := s.questionnaires.GetByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to get questionnaire", "error", err, "company_id", companyID)
		return nil, utils.WrapInternal("Failed to retrieve questionnaire", err)
	}
	if q == nil {
		return nil, utils.NewNotFoundError("Questionnaire not found")
	}
	return q, nil
}
