package kvstore

import (
	"context"
	"strings"
	"testing"

	"github.com/pesto/remittance-sync/pkg/pgutil"
	mghelper "github.com/pesto/remittance-sync/pkg/pgutil/migrations"
)

func setupPGStore(t *testing.T) (context.Context, Store) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &EntryDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return ctx, NewPGStore(db)
}

func TestPGStore_UpsertAndRemove(t *testing.T) {
	ctx, s := setupPGStore(t)

	if _, found, err := s.Get(ctx, KeyFriends); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, KeyFriends, `[]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, KeyFriends, `[{"id":"f-1"}]`); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	v, found, err := s.Get(ctx, KeyFriends)
	if err != nil || !found {
		t.Fatalf("Get() found=%v err=%v", found, err)
	}
	if v != `[{"id":"f-1"}]` {
		t.Fatalf("expected last write to win, got %q", v)
	}

	if err := s.Remove(ctx, KeyFriends); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, found, _ := s.Get(ctx, KeyFriends); found {
		t.Fatalf("expected key removed")
	}
}

func TestPGStore_JSONHelpers(t *testing.T) {
	ctx, s := setupPGStore(t)

	type account struct {
		Address string `json:"address"`
		Key     string `json:"privateKey"`
	}
	in := account{Address: "0x" + strings.Repeat("22", 32), Key: "0xdeadbeef"}
	if err := SetJSON(ctx, s, KeyChainAccount, in); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var out account
	if found, err := GetJSON(ctx, s, KeyChainAccount, &out); err != nil || !found {
		t.Fatalf("GetJSON() found=%v err=%v", found, err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}
