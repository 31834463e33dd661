package transfer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

func TestHTTP_Transfers(t *testing.T) {
	fl := &fakeLedger{active: testAccount(t)}
	o := NewOrchestrator(fl, recipientSet{friendAddr: true}, refresherFunc(noRefresh))

	r := chi.NewRouter()
	RegisterRoutes(r, o, zap.NewNop())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/transfers", "application/json",
		strings.NewReader(`{"recipientAddress":"`+strangerAddr+`","amount":10}`))
	if err != nil {
		t.Fatalf("POST /transfers: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-friend, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/transfers", "application/json",
		strings.NewReader(`{"recipientAddress":"`+friendAddr+`","amount":1.25}`))
	if err != nil {
		t.Fatalf("POST /transfers: %v", err)
	}
	var receipt Receipt
	if err := jsoniter.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || receipt.BaseUnits != 125_000_000 {
		t.Fatalf("unexpected response %d %+v", resp.StatusCode, receipt)
	}

	resp, err = http.Get(srv.URL + "/transfers/state")
	if err != nil {
		t.Fatalf("GET /transfers/state: %v", err)
	}
	var st State
	if err := jsoniter.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if st.Phase != PhaseIdle || st.LastHash != "0xabc" {
		t.Fatalf("unexpected state %+v", st)
	}
}
