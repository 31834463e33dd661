package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/pesto/remittance-sync/pkg/app/http"
	"github.com/pesto/remittance-sync/pkg/contacts"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// EligibilityResponse answers whether a transfer to Address is allowed.
type EligibilityResponse struct {
	Address  string `json:"address"`
	IsFriend bool   `json:"isFriend"`
	Eligible bool   `json:"eligible"`
}

// RegisterRoutes registers the friends and contacts endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/friends", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.listFriends))
		r.Post("/", apphttp.HandleError(h.addFriend))
		r.Get("/search", apphttp.HandleError(h.searchFriends))
		r.Patch("/{id}", apphttp.HandleError(h.updateFriend))
		r.Delete("/{id}", apphttp.HandleError(h.removeFriend))
	})
	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.listContacts))
		r.Post("/", apphttp.HandleError(h.addContact))
		r.Get("/search", apphttp.HandleError(h.searchContacts))
		r.Patch("/{id}", apphttp.HandleError(h.updateContact))
		r.Delete("/{id}", apphttp.HandleError(h.removeContact))
	})
	r.Get("/recipients/{address}/eligible", apphttp.HandleError(h.eligible))
}

func (h *HTTP) listFriends(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.service.State().Friends)
	return nil
}

func (h *HTTP) addFriend(w http.ResponseWriter, r *http.Request) error {
	var req contacts.NewFriend
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	f, err := h.service.AddFriend(r.Context(), req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, f)
	return nil
}

func (h *HTTP) searchFriends(w http.ResponseWriter, r *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.service.SearchFriends(r.URL.Query().Get("q")))
	return nil
}

func (h *HTTP) updateFriend(w http.ResponseWriter, r *http.Request) error {
	var patch contacts.FriendPatch
	if err := apphttp.DecodeJSON(r, &patch); err != nil {
		return err
	}
	if err := h.service.UpdateFriend(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) removeFriend(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.RemoveFriend(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) listContacts(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.service.State().Contacts)
	return nil
}

func (h *HTTP) addContact(w http.ResponseWriter, r *http.Request) error {
	var req contacts.NewContact
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	c, err := h.service.AddContact(r.Context(), req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, c)
	return nil
}

func (h *HTTP) searchContacts(w http.ResponseWriter, r *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.service.SearchContacts(r.URL.Query().Get("q")))
	return nil
}

func (h *HTTP) updateContact(w http.ResponseWriter, r *http.Request) error {
	var patch contacts.ContactPatch
	if err := apphttp.DecodeJSON(r, &patch); err != nil {
		return err
	}
	if err := h.service.UpdateContact(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) removeContact(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.RemoveContact(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) eligible(w http.ResponseWriter, r *http.Request) error {
	address := chi.URLParam(r, "address")
	apphttp.WriteJSON(w, http.StatusOK, EligibilityResponse{
		Address:  address,
		IsFriend: h.service.IsFriend(address),
		Eligible: h.service.CanSendMoney(address),
	})
	return nil
}
