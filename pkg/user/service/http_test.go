package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/user"
	"github.com/pesto/remittance-sync/pkg/user/service/mocks"
)

func newAuthTestServer(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, zap.NewNop())
	return r
}

func TestAuthHTTP_Login_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	svc := mocks.NewService(t)
	handler := newAuthTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthHTTP_Login_ResponseCheck(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Login(mock.Anything, "ava@pesto.dev", "pesto123").
		Return(&user.User{ID: "user-ava", Email: "ava@pesto.dev"}, nil)
	handler := newAuthTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"ava@pesto.dev","password":"pesto123"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.ID != "user-ava" {
		t.Fatalf("expected id %q, got %q", "user-ava", got.ID)
	}
}

func TestAuthHTTP_Login_WrongCredential_ReturnsUnauthorized(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Login(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.UnAuthorizedError(ErrInvalidCredential, "invalid credentials"))
	handler := newAuthTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"ava@pesto.dev","password":"x"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	var got struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Error != "invalid credentials" {
		t.Fatalf("expected error %q, got %q", "invalid credentials", got.Error)
	}
}

func TestAuthHTTP_Logout_ReturnsNoContent(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Logout(mock.Anything).Return(nil).Once()
	handler := newAuthTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestAuthHTTP_Session(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().State().Return(user.AuthState{
		User:          &user.User{ID: "user-mason"},
		Authenticated: true,
	})
	handler := newAuthTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var got user.AuthState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if !got.Authenticated || got.User == nil || got.User.ID != "user-mason" {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestAuthHTTP_Signup_Created(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Signup(mock.Anything, "Eric", "eric@pesto.dev", "secret1").
		Return(&user.User{ID: "u-1", Name: "Eric"}, nil)
	handler := newAuthTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		bytes.NewBufferString(`{"name":"Eric","email":"eric@pesto.dev","password":"secret1"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
}
