package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type QuestionnaireHandler struct {
	responder
	service services.QuestionnaireService
}

func NewQuestionnaireHandler(service services.QuestionnaireService, logger *utils.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

func (h *QuestionnaireHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Schema())
}

func (h *QuestionnaireHandler) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeJSON(w, r, &raw); err != nil {
		h.respondError(w, r, err)
		return
	}
	if raw == nil {
		h.respondError(w, r, utils.NewBadRequestError("Answers must be a JSON object"))
		return
	}

	resp, err := h.service.SaveAnswers(r.Context(), mux.Vars(r)["id"], raw)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *QuestionnaireHandler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.GetAnswers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, q)
}
