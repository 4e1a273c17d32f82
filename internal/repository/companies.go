package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/jmoiron/sqlx"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
	Delete(ctx context.Context, id string) error
}

type companyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, c *models.Company) error {
	query := `
		INSERT INTO companies (id, name, cnpj, segment, description, created_at, updated_at)
		VALUES (:id, :name, :cnpj, :segment, :description, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company cnpj: %w", ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	return r.getOne(ctx, `SELECT * FROM companies WHERE id = ?`, id)
}

func (r *companyRepository) GetByCNPJ(ctx context.Context, cnpj string) (*models.Company, error) {
	return r.getOne(ctx, `SELECT * FROM companies WHERE cnpj = ?`, cnpj)
}

func (r *companyRepository) getOne(ctx context.Context, query string, arg any) (*models.Company, error) {
	var c models.Company
	err := r.db.GetContext(ctx, &c, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context) ([]models.Company, error) {
	companies := []models.Company{}
	if err := r.db.SelectContext(ctx, &companies, `SELECT * FROM companies ORDER BY created_at DESC, name`); err != nil {
		return nil, err
	}
	return companies, nil
}

// Delete removes the company together with its questionnaire and documents.
func (r *companyRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM documents WHERE company_id = ?`,
		`DELETE FROM questionnaires WHERE company_id = ?`,
		`DELETE FROM companies WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
