package demodata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pesto/remittance-sync/pkg/contacts"
	"github.com/pesto/remittance-sync/pkg/ledger"
	"github.com/pesto/remittance-sync/pkg/user"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	return db
}

func TestDatabase_Directory(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	rec, err := db.FindByEmail(ctx, "AVA@pesto.dev")
	if err != nil || rec == nil {
		t.Fatalf("FindByEmail() = %v, %v", rec, err)
	}
	if rec.User.ID != "user-ava" {
		t.Fatalf("expected user-ava, got %s", rec.User.ID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("seeded hash does not match demo credential: %v", err)
	}

	if rec, _ := db.FindByEmail(ctx, "nobody@pesto.dev"); rec != nil {
		t.Fatalf("expected nil for unknown email, got %+v", rec)
	}

	err = db.Create(ctx, &user.Record{User: user.User{ID: "user-x", Email: "Mason@Pesto.dev"}})
	if !errors.Is(err, user.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := db.Create(ctx, &user.Record{User: user.User{ID: "user-new", Email: "new@pesto.dev"}}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec, _ := db.FindByEmail(ctx, "new@pesto.dev"); rec == nil || rec.User.ID != "user-new" {
		t.Fatalf("created user not found: %+v", rec)
	}

	def, _ := db.DefaultUser(ctx)
	if def.ID != "user-ava" {
		t.Fatalf("unexpected default user %s", def.ID)
	}
}

func TestDatabase_DerivedContacts(t *testing.T) {
	db := newTestDatabase(t)
	cs, _ := db.Contacts(context.Background(), "user-ava")
	if len(cs) != 4 {
		t.Fatalf("expected 4 contacts, got %d", len(cs))
	}
	c := cs[0]
	if c.ID != "contact-friend-sherry" || c.Email != "sherry@pesto.dev" || c.Phone != "+1 (415) 555-01ry" {
		t.Fatalf("unexpected contact %+v", c)
	}
	if !c.IsChainUser || !c.IsFriend || c.LastSeenAt == nil {
		t.Fatalf("unexpected contact flags %+v", c)
	}
	for _, c := range cs {
		if !ledger.ValidateAddress(c.ChainAddress) {
			t.Fatalf("contact %s has an invalid address", c.ID)
		}
	}
}

func TestDatabase_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	fs, _ := db.Friends(ctx, "user-ava")
	fs[0].Name = "changed"
	again, _ := db.Friends(ctx, "user-ava")
	if again[0].Name != "Sherry Collins" {
		t.Fatalf("seed was mutated: %s", again[0].Name)
	}
}

func TestAggregator_LoadAll(t *testing.T) {
	agg := NewAggregator(newTestDatabase(t), nil)
	b := agg.LoadAll(context.Background(), "user-ava")

	if len(b.Friends) != 4 || len(b.Contacts) != 4 || len(b.Transactions) != 4 || len(b.Assets) != 4 {
		t.Fatalf("unexpected collection sizes %d/%d/%d/%d", len(b.Friends), len(b.Contacts), len(b.Transactions), len(b.Assets))
	}
	if len(b.PromoCards) != 2 || len(b.SpotlightAssets) != 6 {
		t.Fatalf("unexpected promo/spotlight sizes %d/%d", len(b.PromoCards), len(b.SpotlightAssets))
	}
	if b.Summary == nil || b.Summary.TotalAssetsUSD != 45678.9 {
		t.Fatalf("unexpected summary %+v", b.Summary)
	}
	if len(b.Failed) != 0 {
		t.Fatalf("unexpected failures %v", b.Failed)
	}
	if b.Transactions[1].Type != ledger.TransactionRequest || b.Transactions[1].Status != ledger.StatusPending {
		t.Fatalf("unexpected transaction %+v", b.Transactions[1])
	}
}

func TestAggregator_UnknownUserIsEmpty(t *testing.T) {
	agg := NewAggregator(newTestDatabase(t), nil)
	b := agg.LoadAll(context.Background(), "user-mason")
	if len(b.Friends) != 0 || len(b.Assets) != 0 || b.Summary != nil {
		t.Fatalf("expected empty bundle, got %+v", b)
	}
	if b.Friends == nil || b.SpotlightAssets == nil {
		t.Fatal("empty collections must not be nil")
	}
}

// flakySource fails the friends collection only.
type flakySource struct {
	*Database
}

func (flakySource) Friends(context.Context, string) ([]contacts.Friend, error) {
	return nil, errors.New("friends backend down")
}

func TestAggregator_PartialFailure(t *testing.T) {
	agg := NewAggregator(flakySource{newTestDatabase(t)}, zap.NewNop())
	b := agg.LoadAll(context.Background(), "user-ava")

	if len(b.Failed) != 1 || b.Failed[0] != "friends" {
		t.Fatalf("expected friends failure, got %v", b.Failed)
	}
	if b.Friends == nil || len(b.Friends) != 0 {
		t.Fatalf("failed collection must be empty, got %v", b.Friends)
	}
	if len(b.Contacts) != 4 || len(b.Transactions) != 4 {
		t.Fatal("other collections must still load")
	}
}

func TestHTTP_Demo(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewAggregator(newTestDatabase(t), nil), "user-ava", zap.NewNop())
	srv := httptest.NewServer(r)
	defer srv.Close()

	for _, path := range []string{"/demo", "/demo/user-ava"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		var b Bundle
		if err := jsoniter.NewDecoder(resp.Body).Decode(&b); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || b.UserID != "user-ava" || len(b.Friends) != 4 {
			t.Fatalf("unexpected response for %s: %d %+v", path, resp.StatusCode, b)
		}
	}
}
