package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/middleware"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Details   any       `json:"details,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// responder is embedded by every handler for JSON output.
type responder struct {
	logger *utils.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{
		Error:     "Internal server error",
		Code:      "internal_error",
		RequestID: middleware.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
	}
	status := http.StatusInternalServerError

	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		resp.Error = appErr.Message
		resp.Code = appErr.Code
		resp.Details = appErr.Details
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err, "request_id", resp.RequestID)
	} else {
		h.logger.Warn("Request error", "status", status, "error", resp.Error, "request_id", resp.RequestID)
	}

	h.respondJSON(w, status, resp)
}

// decodeJSON reads a JSON body of at most 1 MB into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return utils.NewTooLargeError("Request body too large")
		}
		return utils.NewBadRequestError("Invalid JSON body")
	}
	return nil
}
