package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/pesto/remittance-sync/pkg/app/http"
	"github.com/pesto/remittance-sync/pkg/user"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the identity endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", apphttp.HandleError(h.login))
		r.Post("/oauth", apphttp.HandleError(h.loginWithProvider))
		r.Post("/signup", apphttp.HandleError(h.signup))
		r.Post("/logout", apphttp.HandleError(h.logout))
		r.Post("/forgot-password", apphttp.HandleError(h.forgotPassword))
		r.Get("/session", apphttp.HandleError(h.session))
	})
}

func (h *HTTP) login(w http.ResponseWriter, r *http.Request) error {
	var req user.LoginRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	u, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, u)
	return nil
}

func (h *HTTP) loginWithProvider(w http.ResponseWriter, r *http.Request) error {
	u, err := h.service.LoginWithProvider(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, u)
	return nil
}

func (h *HTTP) signup(w http.ResponseWriter, r *http.Request) error {
	var req user.SignupRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	u, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, u)
	return nil
}

func (h *HTTP) logout(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Logout(r.Context()); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req user.ForgotPasswordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		return err
	}
	w.WriteHeader(http.StatusAccepted)
	return nil
}

func (h *HTTP) session(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.service.State())
	return nil
}
