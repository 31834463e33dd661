package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func TestHandleError_ServiceError(t *testing.T) {
	h := HandleError(func(http.ResponseWriter, *http.Request) error {
		return apperrors.ForbiddenError(errors.New("not a friend"), "recipient not authorized")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/transfers", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != "recipient not authorized" || got.Code != http.StatusForbidden {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestHandleError_UnknownError(t *testing.T) {
	h := HandleError(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Ava"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if dst.Name != "Ava" {
		t.Fatalf("expected Ava, got %q", dst.Name)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{bad`))
	if err := DecodeJSON(req, &dst); !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected bad request, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	if err := DecodeJSON(req, &dst); !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected bad request for empty body, got %v", err)
	}
}
