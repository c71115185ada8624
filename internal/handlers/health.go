package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Werneck0live/registro-leads/internal/utils"
)

type BrokerStatus interface {
	Healthy() bool
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	LedgerPath string
	Broker     BrokerStatus // nil = desabilitado
	Store      Pinger       // nil = sessões em memória
}

// GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":   "ok",
		"ledger":   h.LedgerPath,
		"broker":   "disabled",
		"sessions": "memory",
	}
	code := http.StatusOK

	if h.Broker != nil {
		body["broker"] = "up"
		if !h.Broker.Healthy() {
			body["broker"] = "down"
		}
	}
	if h.Store != nil {
		body["sessions"] = "mongo"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["sessions_error"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	utils.WriteJSON(w, code, body)
}
