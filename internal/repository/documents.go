package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/jmoiron/sqlx"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, companyID, id string) (*models.Document, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Document, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	UpdateProcessing(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, companyID, id string) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, company_id, filename, document_type, file_size, content_type, storage_key,
		                       extracted_text, extracted_data, status, status_message, created_at, processed_at)
		VALUES (:id, :company_id, :filename, :document_type, :file_size, :content_type, :storage_key,
		        :extracted_text, :extracted_data, :status, :status_message, :created_at, :processed_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *documentRepository) GetByID(ctx context.Context, companyID, id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.GetContext(ctx, &doc, `SELECT * FROM documents WHERE id = ? AND company_id = ?`, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByCompany(ctx context.Context, companyID string) ([]models.Document, error) {
	docs := []models.Document{}
	query := `SELECT * FROM documents WHERE company_id = ? ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &docs, query, companyID); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM documents WHERE company_id = ?`, companyID)
	return n, err
}

// UpdateProcessing persists the outcome of (re)processing a document.
func (r *documentRepository) UpdateProcessing(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET document_type = ?, extracted_text = ?, extracted_data = ?, status = ?, status_message = ?, processed_at = ?
		WHERE id = ? AND company_id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		doc.DocumentType,
		doc.ExtractedText,
		doc.ExtractedData,
		doc.Status,
		doc.StatusMessage,
		doc.ProcessedAt,
		doc.ID,
		doc.CompanyID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, companyID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ? AND company_id = ?`, id, companyID)
	return err
}
