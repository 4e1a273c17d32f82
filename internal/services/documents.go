package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
	"github.com/BerylCAtieno/cfo-service/internal/extractor"
	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/storage"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

// Characters of extracted text kept with the document record.
const textPreviewLimit = 4000

type DocumentService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.Document, error)
	ListDocuments(ctx context.Context, companyID string) ([]models.Document, error)
	GetDocument(ctx context.Context, companyID, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, companyID, id string) error
	ReprocessDocument(ctx context.Context, companyID, id string) (*models.Document, error)
}

type documentService struct {
	companies   repository.CompanyRepository
	documents   repository.DocumentRepository
	storage     storage.Storage
	fields      extractor.FieldExtractor
	maxFileSize int64
	logger      *utils.Logger
}

func NewDocumentService(repos *repository.Repositories, store storage.Storage, fields extractor.FieldExtractor, maxFileSize int64, logger *utils.Logger) DocumentService {
	return &documentService{
		companies:   repos.Companies,
		documents:   repos.Documents,
		storage:     store,
		fields:      fields,
		maxFileSize: maxFileSize,
		logger:      logger.With("service", "documents"),
	}
}

func (s *documentService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.Document, error) {
	if _, err := loadCompany(ctx, s.companies, s.logger, req.CompanyID); err != nil {
		return nil, err
	}

	if len(req.File) == 0 {
		return nil, utils.NewBadRequestError("The uploaded file is empty")
	}
	if int64(len(req.File)) > s.maxFileSize {
		return nil, utils.NewTooLargeError(fmt.Sprintf("File exceeds the maximum size of %d MB", s.maxFileSize/(1024*1024)))
	}

	format, err := extractor.DetectFormat(req.Filename)
	if err != nil {
		s.logger.Warn("Unsupported file type", "filename", req.Filename)
		return nil, utils.NewBadRequestError("Unsupported file type. Allowed: " + strings.Join(extractor.AllowedExtensions(), ", "))
	}

	docType := analyzer.DocumentType(strings.TrimSpace(req.DocumentType))
	if docType != "" && !docType.Valid() {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unknown document type %q", req.DocumentType))
	}

	text, err := extractor.ExtractText(format, req.File)
	if err != nil {
		s.logger.Warn("Failed to extract text", "error", err, "filename", req.Filename, "format", format)
		return nil, utils.NewBadRequestError("The file could not be read. It may be empty or corrupted")
	}

	if docType == "" {
		docType = extractor.InferDocumentType(text)
		s.logger.Debug("Inferred document type", "filename", req.Filename, "document_type", docType)
	}

	docID := utils.GenerateID()
	key := storage.DocumentKey(req.CompanyID, docID, req.Filename)
	if err := s.storage.Upload(ctx, key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to storage", "error", err, "storage_key", key)
		return nil, utils.WrapInternal("Failed to store document", err)
	}

	doc := &models.Document{
		ID:            docID,
		CompanyID:     req.CompanyID,
		Filename:      req.Filename,
		DocumentType:  string(docType),
		FileSize:      int64(len(req.File)),
		ContentType:   req.ContentType,
		StorageKey:    key,
		ExtractedText: extractor.Preview(text, textPreviewLimit),
		CreatedAt:     time.Now().UTC(),
	}
	s.process(ctx, doc, format, text)

	if err := s.documents.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document", "error", err, "document_id", docID)
		_ = s.storage.Delete(ctx, key)
		return nil, utils.WrapInternal("Failed to save document metadata", err)
	}

	s.logger.Info("Document uploaded",
		"document_id", docID,
		"company_id", req.CompanyID,
		"document_type", doc.DocumentType,
		"status", doc.Status,
		"size", doc.FileSize)

	return doc, nil
}

// process runs field extraction and records the outcome on doc.
func (s *documentService) process(ctx context.Context, doc *models.Document, format extractor.Format, text string) {
	now := time.Now().UTC()
	doc.ProcessedAt = &now

	fields, err := s.fields.ExtractFields(ctx, extractor.Input{
		Filename:     doc.Filename,
		DocumentType: analyzer.DocumentType(doc.DocumentType),
		Format:       format,
		Size:         doc.FileSize,
		Text:         text,
	})
	if err != nil {
		s.logger.Error("Failed to extract fields", "error", err, "document_id", doc.ID)
		doc.Status = models.DocumentStatusError
		doc.StatusMessage = fmt.Sprintf("Erro ao processar documento: %v", err)
		doc.ExtractedData = models.Figures{}
		return
	}

	doc.Status = models.DocumentStatusProcessed
	doc.StatusMessage = fmt.Sprintf("Documento '%s' processado com sucesso.", doc.Filename)
	doc.ExtractedData = models.Figures(fields)
}

func (s *documentService) ListDocuments(ctx context.Context, companyID string) ([]models.Document, error) {
	if _, err := loadCompany(ctx, s.companies, s.logger, companyID); err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err, "company_id", companyID)
		return nil, utils.WrapInternal("Failed to list documents", err)
	}
	return docs, nil
}

func (s *documentService) GetDocument(ctx context.Context, companyID, id string) (*models.Document, error) {
	if _, err := loadCompany(ctx, s.companies, s.logger, companyID); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, companyID, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "document_id", id)
		return nil, utils.WrapInternal("Failed to retrieve document", err)
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}
	return doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, companyID, id string) error {
	doc, err := s.GetDocument(ctx, companyID, id)
	if err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("Failed to delete document", "error", err, "document_id", id)
		return utils.WrapInternal("Failed to delete document", err)
	}
	if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("Failed to delete stored document", "error", err, "storage_key", doc.StorageKey)
	}

	s.logger.Info("Document deleted", "document_id", id, "company_id", companyID)
	return nil
}

// ReprocessDocument downloads the stored file and runs extraction again.
func (s *documentService) ReprocessDocument(ctx context.Context, companyID, id string) (*models.Document, error) {
	doc, err := s.GetDocument(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	format, err := extractor.DetectFormat(doc.Filename)
	if err != nil {
		return nil, utils.NewBadRequestError("Unsupported file type")
	}

	data, err := s.storage.Download(ctx, doc.StorageKey)
	switch {
	case errors.Is(err, storage.ErrObjectNotFound):
		now := time.Now().UTC()
		doc.Status = models.DocumentStatusError
		doc.StatusMessage = "Arquivo não encontrado no armazenamento."
		doc.ExtractedData = models.Figures{}
		doc.ProcessedAt = &now
	case err != nil:
		s.logger.Error("Failed to download document", "error", err, "storage_key", doc.StorageKey)
		return nil, utils.WrapInternal("Failed to read stored document", err)
	default:
		text, err := extractor.ExtractText(format, data)
		if err != nil {
			s.logger.Warn("Failed to extract text", "error", err, "document_id", id)
		}
		doc.ExtractedText = extractor.Preview(text, textPreviewLimit)
		s.process(ctx, doc, format, text)
	}

	if err := s.documents.UpdateProcessing(ctx, doc); err != nil {
		s.logger.Error("Failed to update document", "error", err, "document_id", id)
		return nil, utils.WrapInternal("Failed to save document", err)
	}

	s.logger.Info("Document reprocessed", "document_id", id, "status", doc.Status)
	return doc, nil
}
