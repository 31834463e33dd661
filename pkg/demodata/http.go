package demodata

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/pesto/remittance-sync/pkg/app/http"
)

// HTTP wraps the Aggregator to provide HTTP endpoints
type HTTP struct {
	aggregator    *Aggregator
	defaultUserID string
	logger        *zap.Logger
}

// RegisterRoutes registers the demo data endpoints on the given chi router.
// GET /demo serves defaultUserID.
func RegisterRoutes(r chi.Router, aggregator *Aggregator, defaultUserID string, logger *zap.Logger) {
	h := &HTTP{
		aggregator:    aggregator,
		defaultUserID: defaultUserID,
		logger:        logger,
	}

	r.Get("/demo", apphttp.HandleError(h.loadDefault))
	r.Get("/demo/{userID}", apphttp.HandleError(h.load))
}

func (h *HTTP) loadDefault(w http.ResponseWriter, r *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.aggregator.LoadAll(r.Context(), h.defaultUserID))
	return nil
}

func (h *HTTP) load(w http.ResponseWriter, r *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.aggregator.LoadAll(r.Context(), chi.URLParam(r, "userID")))
	return nil
}
