package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

const defaultHealthTimeout = 2 * time.Second

// HealthHandlers serves readiness/liveness checks.
type HealthHandlers struct {
	Checks  map[string]HealthCheck
	Timeout time.Duration
	Logger  *slog.Logger
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health runs all checks and answers 200 when every check passes, 503 otherwise.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	body := healthBody{Status: "ok"}
	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if body.Checks == nil {
			body.Checks = make(map[string]string, len(names))
		}
		if err := h.Checks[name](ctx); err != nil {
			body.Status = "unavailable"
			body.Checks[name] = "down"
			if h.Logger != nil {
				h.Logger.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
			}
			continue
		}
		body.Checks[name] = "up"
	}

	code := http.StatusOK
	if body.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, body)
}
