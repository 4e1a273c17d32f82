package repository

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Repositories bundles the stores backed by one database.
type Repositories struct {
	Companies      CompanyRepository
	Questionnaires QuestionnaireRepository
	Documents      DocumentRepository
}

func New(db *sqlx.DB) *Repositories {
	return &Repositories{
		Companies:      NewCompanyRepository(db),
		Questionnaires: NewQuestionnaireRepository(db),
		Documents:      NewDocumentRepository(db),
	}
}
