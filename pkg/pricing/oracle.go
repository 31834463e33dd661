// Package pricing quotes USD unit prices for ledger assets.
package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/pesto/remittance-sync/internal/metrics"
)

// Quote is the USD unit price of an asset and its 24h movement.
type Quote struct {
	USD           float64 `json:"usd"`
	Change24h     float64 `json:"change24h"`
	ChangePercent float64 `json:"changePercent"`
}

// Oracle quotes assets by symbol.
type Oracle interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// StaticOracle serves quotes from a fixed table. Unknown symbols quote zero.
type StaticOracle struct {
	quotes map[string]Quote
}

// DefaultQuotes are the demo prices shown by the app.
func DefaultQuotes() map[string]Quote {
	return map[string]Quote{
		"APT":  {USD: 4.51, Change24h: 0.12, ChangePercent: 12},
		"USDC": {USD: 1},
		"USDT": {USD: 1},
		"WBTC": {USD: 115000, Change24h: 3789, ChangePercent: 33},
	}
}

// NewStaticOracle returns an oracle over quotes, or DefaultQuotes when nil.
func NewStaticOracle(quotes map[string]Quote) *StaticOracle {
	if quotes == nil {
		quotes = DefaultQuotes()
	}
	normalized := make(map[string]Quote, len(quotes))
	for sym, q := range quotes {
		normalized[strings.ToUpper(sym)] = q
	}
	return &StaticOracle{quotes: normalized}
}

func (o *StaticOracle) Quote(_ context.Context, symbol string) (Quote, error) {
	return o.quotes[strings.ToUpper(symbol)], nil
}

// CachedOracle memoizes another oracle's quotes for a TTL.
type CachedOracle struct {
	next   Oracle
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCachedOracle wraps next with a TTL cache. A non-positive ttl defaults to one minute.
func NewCachedOracle(next Oracle, ttl time.Duration, logger *zap.Logger) *CachedOracle {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedOracle{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.Named("pricing"),
	}
}

func (o *CachedOracle) Quote(ctx context.Context, symbol string) (Quote, error) {
	key := strings.ToUpper(symbol)
	if v, ok := o.cache.Get(key); ok {
		metrics.PriceCacheLookups.WithLabelValues("hit").Inc()
		return v.(Quote), nil
	}
	metrics.PriceCacheLookups.WithLabelValues("miss").Inc()

	q, err := o.next.Quote(ctx, symbol)
	if err != nil {
		o.logger.Warn("price quote failed", zap.String("symbol", symbol), zap.Error(err))
		return Quote{}, err
	}
	o.cache.SetDefault(key, q)
	return q, nil
}

// Flush drops all cached quotes.
func (o *CachedOracle) Flush() {
	o.cache.Flush()
}
