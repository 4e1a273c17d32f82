package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/cfo-service/internal/models"
	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type CompanyHandler struct {
	responder
	service services.CompanyService
}

func NewCompanyHandler(service services.CompanyService, logger *utils.Logger) *CompanyHandler {
	return &CompanyHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCompanyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	company, err := h.service.CreateCompany(r.Context(), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     len(companies),
	})
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.GetCompany(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCompany(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
