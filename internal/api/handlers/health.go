package handlers

import (
	"encoding/json"
	"net/http"
)

// Readiness is what the readiness probe inspects.
type Readiness interface {
	Backends() map[string]string
	CheckTempDir() error
}

type HealthHandler struct {
	ready Readiness
}

func NewHealthHandler(ready Readiness) *HealthHandler {
	return &HealthHandler{ready: ready}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if err := h.ready.CheckTempDir(); err != nil {
		checks["temp_dir"] = "unhealthy: " + err.Error()
	} else {
		checks["temp_dir"] = "ok"
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"status":   statusStr(status),
		"checks":   checks,
		"backends": h.ready.Backends(),
	})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
