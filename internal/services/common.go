package services

import (
	"context"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

// loadCompany returns the company or a 404 AppError.
func loadCompany(ctx context.Context, repo repository.CompanyRepository, logger *utils.Logger, id string) (*models.Company, error) {
	if !utils.IsValidID(id) {
		return nil, utils.NewNotFoundError("Company not found")
	}

	company, err := repo.GetByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get company", "error", err, "company_id", id)
		return nil, utils.WrapInternal("Failed to retrieve company", err)
	}
	if company == nil {
		return nil, utils.NewNotFoundError("Company not found")
	}
	return company, nil
}
