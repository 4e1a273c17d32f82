package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

// Room for multipart boundaries and the document_type field on top of the file itself.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	responder
	service     services.DocumentService
	maxFileSize int64
}

func NewDocumentHandler(service services.DocumentService, maxFileSize int64, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		responder:   responder{logger: logger},
		service:     service,
		maxFileSize: maxFileSize,
	}
}

func (h *DocumentHandler) tooLarge() *utils.AppError {
	return utils.NewTooLargeError(fmt.Sprintf("File exceeds the maximum size of %d MB", h.maxFileSize/(1024*1024)))
}

func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	limit := h.maxFileSize + multipartOverhead

	// Reject oversized requests before reading the body
	if r.ContentLength > limit {
		h.respondError(w, r, h.tooLarge())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.respondError(w, r, h.tooLarge())
			return
		}
		h.respondError(w, r, utils.NewBadRequestError("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, r, utils.WrapInternal("Failed to read file", err))
		return
	}

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	h.logger.Info("File upload attempt",
		"company_id", mux.Vars(r)["id"],
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType,
		"size", len(data))

	req := &models.UploadRequest{
		CompanyID:    mux.Vars(r)["id"],
		File:         data,
		Filename:     filepath.Base(header.Filename),
		ContentType:  contentType,
		DocumentType: r.FormValue("document_type"),
	}

	doc, err := h.service.UploadDocument(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListDocuments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     len(docs),
	})
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doc, err := h.service.GetDocument(r.Context(), vars["id"], vars["docID"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteDocument(r.Context(), vars["id"], vars["docID"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) ReprocessDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doc, err := h.service.ReprocessDocument(r.Context(), vars["id"], vars["docID"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

var extensionContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".html": "text/html",
	".htm":  "text/html",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// determineContentType prefers the filename extension over the client's header.
func determineContentType(filename, headerContentType string) string {
	if ct, ok := extensionContentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	if headerContentType != "" {
		return headerContentType
	}
	return "application/octet-stream"
}
