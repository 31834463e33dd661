package transfer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/pesto/remittance-sync/pkg/app/http"
)

// HTTP wraps the Orchestrator to provide HTTP endpoints
type HTTP struct {
	orchestrator *Orchestrator
	logger       *zap.Logger
}

// RegisterRoutes registers the send-money endpoints on the given chi router
func RegisterRoutes(r chi.Router, o *Orchestrator, logger *zap.Logger) {
	h := &HTTP{
		orchestrator: o,
		logger:       logger,
	}

	r.Post("/transfers", apphttp.HandleError(h.send))
	r.Get("/transfers/state", apphttp.HandleError(h.state))
}

func (h *HTTP) send(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	receipt, err := h.orchestrator.Send(r.Context(), req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, receipt)
	return nil
}

func (h *HTTP) state(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.orchestrator.State())
	return nil
}
