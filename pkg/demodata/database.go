// Package demodata serves a seeded, read-only dataset so the app runs offline.
package demodata

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/pesto/remittance-sync/pkg/contacts"
	"github.com/pesto/remittance-sync/pkg/ledger"
	"github.com/pesto/remittance-sync/pkg/user"
)

// Database is the in-memory demo dataset. It also serves as the identity directory,
// so users created through signup are visible to later logins.
type Database struct {
	data *dataset

	mu    sync.RWMutex
	users []user.Record
}

// NewDatabase seeds the dataset. Every seeded user gets DemoPassword hashed with cost.
// A cost of 0 uses bcrypt.DefaultCost.
func NewDatabase(cost int) (*Database, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo credential: %w", err)
	}

	data := seed()
	records := make([]user.Record, 0, len(data.users))
	for _, u := range data.users {
		records = append(records, user.Record{User: u, PasswordHash: string(hash)})
	}
	return &Database{data: data, users: records}, nil
}

// FindByEmail returns the record with email, compared case-insensitively, or nil.
func (d *Database) FindByEmail(_ context.Context, email string) (*user.Record, error) {
	email = user.NormalizeEmail(email)
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, rec := range d.users {
		if user.NormalizeEmail(rec.User.Email) == email {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

// Create registers rec. It returns user.ErrAlreadyExists when the email is taken.
func (d *Database) Create(_ context.Context, rec *user.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	email := user.NormalizeEmail(rec.User.Email)
	for _, existing := range d.users {
		if user.NormalizeEmail(existing.User.Email) == email {
			return user.ErrAlreadyExists
		}
	}
	d.users = append(d.users, *rec)
	return nil
}

// DefaultUser returns the first seeded user.
func (d *Database) DefaultUser(_ context.Context) (*user.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u := d.users[0].User
	return &u, nil
}

func (d *Database) Friends(_ context.Context, userID string) ([]contacts.Friend, error) {
	return clone(d.data.friends[userID]), nil
}

func (d *Database) Contacts(_ context.Context, userID string) ([]contacts.Contact, error) {
	return clone(d.data.contacts[userID]), nil
}

func (d *Database) Transactions(_ context.Context, userID string) ([]ledger.Transaction, error) {
	return clone(d.data.transactions[userID]), nil
}

func (d *Database) Assets(_ context.Context, userID string) ([]ledger.Asset, error) {
	return clone(d.data.assets[userID]), nil
}

// AssetSummary returns nil for users without a summary.
func (d *Database) AssetSummary(_ context.Context, userID string) (*AssetSummary, error) {
	s, ok := d.data.summaries[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (d *Database) PromoCards(_ context.Context, userID string) ([]PromoCard, error) {
	return clone(d.data.promoCards[userID]), nil
}

func (d *Database) SpotlightAssets(_ context.Context, userID string) ([]SpotlightAsset, error) {
	return clone(d.data.spotlight[userID]), nil
}

// clone copies s so callers cannot mutate the seed. A nil slice becomes empty.
func clone[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}
