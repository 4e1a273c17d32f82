package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/jmoiron/sqlx"
)

type QuestionnaireRepository interface {
	Upsert(ctx context.Context, q *models.Questionnaire) error
	GetByCompany(ctx context.Context, companyID string) (*models.Questionnaire, error)
}

type questionnaireRepository struct {
	db *sqlx.DB
}

func NewQuestionnaireRepository(db *sqlx.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

// Upsert stores the answers for a company, keeping the original created_at on updates.
func (r *questionnaireRepository) Upsert(ctx context.Context, q *models.Questionnaire) error {
	query := `
		INSERT INTO questionnaires (company_id, answers, status, created_at, updated_at)
		VALUES (:company_id, :answers, :status, :created_at, :updated_at)
		ON CONFLICT (company_id) DO UPDATE
		SET answers = excluded.answers, status = excluded.status, updated_at = excluded.updated_at
	`

	_, err := r.db.NamedExecContext(ctx, query, q)
	return err
}

func (r *questionnaireRepository) GetByCompany(ctx context.Context, companyID string) (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := r.db.GetContext(ctx, &q, `SELECT * FROM questionnaires WHERE company_id = ?`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}
