package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/storage"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type CompanyService interface {
	CreateCompany(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.CompanyDetail, error)
	DeleteCompany(ctx context.Context, id string) error
}

type companyService struct {
	companies      repository.CompanyRepository
	questionnaires repository.QuestionnaireRepository
	documents      repository.DocumentRepository
	storage        storage.Storage
	logger         *utils.Logger
}

func NewCompanyService(repos *repository.Repositories, store storage.Storage, logger *utils.Logger) CompanyService {
	return &companyService{
		companies:      repos.Companies,
		questionnaires: repos.Questionnaires,
		documents:      repos.Documents,
		storage:        store,
		logger:         logger.With("service", "companies"),
	}
}

func (s *companyService) CreateCompany(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewBadRequestError("Company name is required")
	}

	var cnpj *string
	if raw := strings.TrimSpace(req.CNPJ); raw != "" {
		if !utils.IsValidCNPJ(raw) {
			return nil, utils.NewBadRequestError("Invalid CNPJ")
		}
		formatted := utils.FormatCNPJ(raw)
		cnpj = &formatted

		existing, err := s.companies.GetByCNPJ(ctx, formatted)
		if err != nil {
			s.logger.Error("Failed to look up CNPJ", "error", err)
			return nil, utils.WrapInternal("Failed to create company", err)
		}
		if existing != nil {
			return nil, utils.NewConflictError("A company with this CNPJ already exists")
		}
	}

	now := time.Now().UTC()
	company := &models.Company{
		ID:          utils.GenerateID(),
		Name:        name,
		CNPJ:        cnpj,
		Segment:     strings.TrimSpace(req.Segment),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflictError("A company with this CNPJ already exists")
		}
		s.logger.Error("Failed to save company", "error", err)
		return nil, utils.WrapInternal("Failed to create company", err)
	}

	s.logger.Info("Company created", "company_id", company.ID, "name", company.Name)
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list companies", "error", err)
		return nil, utils.WrapInternal("Failed to list companies", err)
	}
	return companies, nil
}

func (s *companyService) GetCompany(ctx context.Context, id string) (*models.CompanyDetail, error) {
	company, err := loadCompany(ctx, s.companies, s.logger, id)
	if err != nil {
		return nil, err
	}

	q, err := s.questionnaires.GetByCompany(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get questionnaire", "error", err, "company_id", id)
		return nil, utils.WrapInternal("Failed to retrieve company", err)
	}
	count, err := s.documents.CountByCompany(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count documents", "error", err, "company_id", id)
		return nil, utils.WrapInternal("Failed to retrieve company", err)
	}

	detail := &models.CompanyDetail{
		Company:          *company,
		HasQuestionnaire: q != nil,
		DocumentCount:    count,
	}
	if detail.HasQuestionnaire {
		detail.Progress += 50
	}
	if count > 0 {
		detail.Progress += 50
	}
	return detail, nil
}

// DeleteCompany removes the company, its records and every stored document object.
func (s *companyService) DeleteCompany(ctx context.Context, id string) error {
	if _, err := loadCompany(ctx, s.companies, s.logger, id); err != nil {
		return err
	}

	docs, err := s.documents.ListByCompany(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err, "company_id", id)
		return utils.WrapInternal("Failed to delete company", err)
	}

	if err := s.companies.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete company", "error", err, "company_id", id)
		return utils.WrapInternal("Failed to delete company", err)
	}

	for _, doc := range docs {
		if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
			s.logger.Warn("Failed to delete stored document", "error", err, "storage_key", doc.StorageKey)
		}
	}

	s.logger.Info("Company deleted", "company_id", id, "documents", len(docs))
	return nil
}
