package models

import "time"

type Company struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CNPJ        *string   `json:"cnpj,omitempty" db:"cnpj"`
	Segment     string    `json:"segment,omitempty" db:"segment"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCompanyRequest struct {
	Name        string `json:"name"`
	CNPJ        string `json:"cnpj"`
	Segment     string `json:"segment"`
	Description string `json:"description"`
}

// CompanyDetail is a company with its onboarding progress (0, 50 or 100).
type CompanyDetail struct {
	Company
	Progress         int  `json:"progress"`
	HasQuestionnaire bool `json:"has_questionnaire"`
	DocumentCount    int  `json:"document_count"`
}
