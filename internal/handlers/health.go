package handlers

import (
	"context"
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		pkghttp.WriteError(w, http.StatusServiceUnavailable, "unavailable", "Database unreachable")
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "ok", map[string]string{"database": "ok"})
}
