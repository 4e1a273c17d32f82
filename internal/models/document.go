package models

import (
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
)

const (
	DocumentStatusProcessed = "Processado"
	DocumentStatusError     = "Erro"
)

type Document struct {
	ID            string     `json:"id" db:"id"`
	CompanyID     string     `json:"company_id" db:"company_id"`
	Filename      string     `json:"filename" db:"filename"`
	DocumentType  string     `json:"document_type" db:"document_type"`
	FileSize      int64      `json:"file_size" db:"file_size"`
	ContentType   string     `json:"content_type" db:"content_type"`
	StorageKey    string     `json:"storage_key" db:"storage_key"`
	ExtractedText string     `json:"extracted_text,omitempty" db:"extracted_text"`
	ExtractedData Figures    `json:"extracted_data" db:"extracted_data"`
	Status        string     `json:"analysis_status" db:"status"`
	StatusMessage string     `json:"message,omitempty" db:"status_message"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty" db:"processed_at"`
}

// Record is the view of the document the analysis engine consumes. Documents
// that failed processing contribute no figures.
func (d *Document) Record() analyzer.DocumentRecord {
	data := map[string]float64{}
	if d.Status == DocumentStatusProcessed {
		for k, v := range d.ExtractedData {
			data[k] = v
		}
	}
	return analyzer.DocumentRecord{
		DocumentType:  analyzer.DocumentType(d.DocumentType),
		ExtractedData: data,
	}
}

type UploadRequest struct {
	CompanyID    string
	File         []byte
	Filename     string
	ContentType  string
	DocumentType string
}
