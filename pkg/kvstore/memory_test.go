package kvstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type friendRecord struct {
	ID        string    `json:"id"`
	Address   string    `json:"chainAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

func TestMemoryStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, found, err := s.Get(ctx, KeyUser); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, KeyUser, `{"id":"user-ava"}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, found, err := s.Get(ctx, KeyUser)
	if err != nil || !found || v != `{"id":"user-ava"}` {
		t.Fatalf("unexpected Get() = %q found=%v err=%v", v, found, err)
	}

	if err := s.Remove(ctx, KeyUser); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(ctx, KeyUser); err != nil {
		t.Fatalf("removing absent key must not fail: %v", err)
	}
	if _, found, _ := s.Get(ctx, KeyUser); found {
		t.Fatalf("expected key to be removed")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created := time.Date(2022, 5, 14, 10, 0, 0, 0, time.UTC)
	in := []friendRecord{
		{ID: "f-1", Address: "0x" + strings.Repeat("11", 32), CreatedAt: created},
		{ID: "f-2", Address: "0x" + strings.Repeat("ab", 32), CreatedAt: created.Add(time.Hour)},
	}
	if err := SetJSON(ctx, s, KeyFriends, in); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var out []friendRecord
	found, err := GetJSON(ctx, s, KeyFriends, &out)
	if err != nil || !found {
		t.Fatalf("GetJSON() found=%v err=%v", found, err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Address != in[i].Address || !out[i].CreatedAt.Equal(in[i].CreatedAt) {
			t.Fatalf("record %d mismatch: got %+v want %+v", i, out[i], in[i])
		}
	}
}

func TestGetJSON_MissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var out []friendRecord
	found, err := GetJSON(ctx, s, KeyContacts, &out)
	if err != nil || found {
		t.Fatalf("expected not found without error, found=%v err=%v", found, err)
	}

	_ = s.Set(ctx, KeyContacts, "{not json")
	if _, err := GetJSON(ctx, s, KeyContacts, &out); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMemoryStore_ConcurrentWritersDistinctKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	keys := []string{KeyUser, KeyChainAccount, KeyFriends, KeyContacts}
	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = s.Set(ctx, k, k)
			}
		}(k)
	}
	wg.Wait()

	for _, k := range keys {
		if v, _, _ := s.Get(ctx, k); v != k {
			t.Fatalf("key %s: expected %q, got %q", k, k, v)
		}
	}
}
