package models

import "time"

type Questionnaire struct {
	CompanyID string    `json:"company_id" db:"company_id"`
	Answers   JSONMap   `json:"answers" db:"answers"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type QuestionnaireResponse struct {
	Questionnaire
	IgnoredKeys []string `json:"ignored_keys"`
}
