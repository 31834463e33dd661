// Package kvstore persists the app's state blobs under fixed string keys.
//
// Each logical collection owns one key, so writers of different collections
// never race. Writes to the same key are last-write-wins; callers that need
// ordering serialize their own writes.
package kvstore

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fixed keys, one per persisted entity collection.
const (
	KeyUser         = "user"
	KeyChainAccount = "chain_account"
	KeyFriends      = "friends"
	KeyContacts     = "contacts"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the stored value. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// GetJSON decodes the JSON value stored under key into dst.
// It reports false, without touching dst, when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.UnmarshalFromString(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.MarshalToString(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
