package demodata

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pesto/remittance-sync/pkg/contacts"
	"github.com/pesto/remittance-sync/pkg/ledger"
)

// Source is a per-user demo data source.
type Source interface {
	Friends(ctx context.Context, userID string) ([]contacts.Friend, error)
	Contacts(ctx context.Context, userID string) ([]contacts.Contact, error)
	Transactions(ctx context.Context, userID string) ([]ledger.Transaction, error)
	Assets(ctx context.Context, userID string) ([]ledger.Asset, error)
	AssetSummary(ctx context.Context, userID string) (*AssetSummary, error)
	PromoCards(ctx context.Context, userID string) ([]PromoCard, error)
	SpotlightAssets(ctx context.Context, userID string) ([]SpotlightAsset, error)
}

// Bundle holds every demo collection of one user.
// Failed lists the collections that could not be loaded and were left empty.
type Bundle struct {
	UserID          string               `json:"userId"`
	Friends         []contacts.Friend    `json:"friends"`
	Contacts        []contacts.Contact   `json:"contacts"`
	Transactions    []ledger.Transaction `json:"transactions"`
	Assets          []ledger.Asset       `json:"assets"`
	Summary         *AssetSummary        `json:"summary"`
	PromoCards      []PromoCard          `json:"promoCards"`
	SpotlightAssets []SpotlightAsset     `json:"spotlightAssets"`
	Failed          []string             `json:"failed,omitempty"`
}

// Aggregator loads all collections of a user in one call.
type Aggregator struct {
	source Source
	logger *zap.Logger
}

// NewAggregator creates an aggregator over source.
func NewAggregator(source Source, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{source: source, logger: logger}
}

// LoadAll fetches the collections concurrently. A failing collection does not
// affect the others: it is logged, left empty and named in Bundle.Failed.
func (a *Aggregator) LoadAll(ctx context.Context, userID string) *Bundle {
	b := &Bundle{
		UserID:          userID,
		Friends:         []contacts.Friend{},
		Contacts:        []contacts.Contact{},
		Transactions:    []ledger.Transaction{},
		Assets:          []ledger.Asset{},
		PromoCards:      []PromoCard{},
		SpotlightAssets: []SpotlightAsset{},
	}

	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed []string
	)
	load := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				a.logger.Warn("failed to load demo collection",
					zap.String("user_id", userID),
					zap.String("collection", name),
					zap.Error(err))
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
			return nil
		})
	}

	load("friends", func() error {
		v, err := a.source.Friends(ctx, userID)
		if err == nil && v != nil {
			b.Friends = v
		}
		return err
	})
	load("contacts", func() error {
		v, err := a.source.Contacts(ctx, userID)
		if err == nil && v != nil {
			b.Contacts = v
		}
		return err
	})
	load("transactions", func() error {
		v, err := a.source.Transactions(ctx, userID)
		if err == nil && v != nil {
			b.Transactions = v
		}
		return err
	})
	load("assets", func() error {
		v, err := a.source.Assets(ctx, userID)
		if err == nil && v != nil {
			b.Assets = v
		}
		return err
	})
	load("summary", func() error {
		v, err := a.source.AssetSummary(ctx, userID)
		if err == nil {
			b.Summary = v
		}
		return err
	})
	load("promoCards", func() error {
		v, err := a.source.PromoCards(ctx, userID)
		if err == nil && v != nil {
			b.PromoCards = v
		}
		return err
	})
	load("spotlightAssets", func() error {
		v, err := a.source.SpotlightAssets(ctx, userID)
		if err == nil && v != nil {
			b.SpotlightAssets = v
		}
		return err
	})

	_ = g.Wait()

	if len(failed) > 0 {
		b.Failed = failed
	}
	return b
}
