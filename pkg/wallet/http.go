package wallet

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	apphttp "github.com/pesto/remittance-sync/pkg/app/http"
	"github.com/pesto/remittance-sync/pkg/ledger"
)

// HTTP exposes the wallet and its active account over HTTP
type HTTP struct {
	wallet *Wallet
	logger *zap.Logger
}

// AccountResponse describes the active account without its key material
type AccountResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// RestoreRequest carries the hex private key of an account to restore
type RestoreRequest struct {
	PrivateKey string `json:"privateKey"`
}

// RegisterRoutes registers account and wallet endpoints on the given chi router
func RegisterRoutes(r chi.Router, w *Wallet, logger *zap.Logger) {
	h := &HTTP{
		wallet: w,
		logger: logger,
	}

	r.Get("/account", apphttp.HandleError(h.account))
	r.Post("/account/generate", apphttp.HandleError(h.generate))
	r.Post("/account/restore", apphttp.HandleError(h.restore))
	r.Delete("/account", apphttp.HandleError(h.clear))
	r.Get("/wallet", apphttp.HandleError(h.state))
	r.Post("/wallet/refresh", apphttp.HandleError(h.refresh))
	r.Get("/transactions/{hash}", apphttp.HandleError(h.transaction))
}

func (h *HTTP) account(w http.ResponseWriter, _ *http.Request) error {
	acct := h.wallet.ledger.ActiveAccount()
	if acct == nil {
		return apperrors.ResourceNotFoundError(ledger.ErrNoActiveAccount, "no active account")
	}
	apphttp.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
	return nil
}

func (h *HTTP) generate(w http.ResponseWriter, r *http.Request) error {
	acct, err := h.wallet.GenerateAccount(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, toAccountResponse(acct))
	return nil
}

func (h *HTTP) restore(w http.ResponseWriter, r *http.Request) error {
	var req RestoreRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.PrivateKey == "" {
		return apperrors.BadRequestError(nil, "privateKey is required")
	}

	acct, err := h.wallet.RestoreAccount(r.Context(), req.PrivateKey)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
	return nil
}

func (h *HTTP) clear(w http.ResponseWriter, r *http.Request) error {
	if err := h.wallet.ClearAccount(r.Context()); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) transaction(w http.ResponseWriter, r *http.Request) error {
	hash := chi.URLParam(r, "hash")
	tx, err := h.wallet.Transaction(r.Context(), hash)
	if err != nil {
		return err
	}
	if tx == nil {
		return apperrors.ResourceNotFoundError(nil, "transaction not found")
	}
	apphttp.WriteJSON(w, http.StatusOK, tx)
	return nil
}

func (h *HTTP) state(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.wallet.State())
	return nil
}

// refresh reports the refreshed state even when one of the reloads failed;
// the failure is carried in the state's error field.
func (h *HTTP) refresh(w http.ResponseWriter, r *http.Request) error {
	if h.wallet.ledger.ActiveAccount() == nil {
		return apperrors.BadRequestError(ledger.ErrNoActiveAccount, "no active account")
	}
	if err := h.wallet.Refresh(r.Context()); err != nil {
		h.logger.Warn("wallet refresh failed", zap.Error(err))
	}
	apphttp.WriteJSON(w, http.StatusOK, h.wallet.State())
	return nil
}

func toAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{Address: a.Address, PublicKey: a.PublicKeyHex()}
}
