package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

const cacheHeader = "X-Cache"

type AnalysisHandler struct {
	responder
	service services.AnalysisService
}

func NewAnalysisHandler(service services.AnalysisService, logger *utils.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

func (h *AnalysisHandler) GetDiagnostic(w http.ResponseWriter, r *http.Request) {
	diag, hit, err := h.service.Diagnostic(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	setCacheHeader(w, hit)
	h.respondJSON(w, http.StatusOK, diag)
}

func (h *AnalysisHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	val, hit, err := h.service.Valuation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	setCacheHeader(w, hit)
	h.respondJSON(w, http.StatusOK, val)
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(cacheHeader, "HIT")
		return
	}
	w.Header().Set(cacheHeader, "MISS")
}
