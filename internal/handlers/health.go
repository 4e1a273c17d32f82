package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CacheHealth interface {
	Backend() string
	Health(ctx context.Context) (string, error)
}

type StoragePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	responder
	db      Pinger
	cache   CacheHealth
	storage StoragePinger
}

func NewHealthHandler(db Pinger, cache CacheHealth, storage StoragePinger, logger *utils.Logger) *HealthHandler {
	return &HealthHandler{
		responder: responder{logger: logger},
		db:        db,
		cache:     cache,
		storage:   storage,
	}
}

type componentHealth struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]componentHealth `json:"components"`
}

// Check reports each dependency. The database is required; a degraded
// cache or storage still answers 200.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]componentHealth, 3),
	}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("Database health check failed", "error", err)
		resp.Components["database"] = componentHealth{Status: "down", Error: err.Error()}
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		resp.Components["database"] = componentHealth{Status: "up"}
	}

	if h.cache != nil {
		cacheStatus, err := h.cache.Health(ctx)
		component := componentHealth{Status: cacheStatus, Backend: h.cache.Backend()}
		if err != nil {
			h.logger.Warn("Cache health check failed", "error", err)
			component.Error = err.Error()
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		}
		resp.Components["cache"] = component
	}

	if h.storage != nil {
		if err := h.storage.Ping(ctx); err != nil {
			h.logger.Warn("Storage health check failed", "error", err)
			resp.Components["storage"] = componentHealth{Status: "down", Error: err.Error()}
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		} else {
			resp.Components["storage"] = componentHealth{Status: "up"}
		}
	}

	h.respondJSON(w, status, resp)
}
