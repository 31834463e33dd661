package pricing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStaticOracle_Quote(t *testing.T) {
	o := NewStaticOracle(nil)
	ctx := context.Background()

	tests := []struct {
		symbol string
		want   Quote
	}{
		{"APT", Quote{USD: 4.51, Change24h: 0.12, ChangePercent: 12}},
		{"usdc", Quote{USD: 1}},
		{"USDT", Quote{USD: 1}},
		{"wBTC", Quote{USD: 115000, Change24h: 3789, ChangePercent: 33}},
		{"DOGE", Quote{}},
	}
	for _, tt := range tests {
		got, err := o.Quote(ctx, tt.symbol)
		if err != nil {
			t.Fatalf("Quote(%s) error = %v", tt.symbol, err)
		}
		if got != tt.want {
			t.Fatalf("Quote(%s) = %+v, want %+v", tt.symbol, got, tt.want)
		}
	}
}

type countingOracle struct {
	calls int
	err   error
}

func (c *countingOracle) Quote(_ context.Context, symbol string) (Quote, error) {
	c.calls++
	if c.err != nil {
		return Quote{}, c.err
	}
	return Quote{USD: float64(len(symbol))}, nil
}

func TestCachedOracle_CachesBySymbol(t *testing.T) {
	next := &countingOracle{}
	o := NewCachedOracle(next, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if q, err := o.Quote(ctx, "apt"); err != nil || q.USD != 3 {
			t.Fatalf("Quote() = %+v, %v", q, err)
		}
	}
	if _, err := o.Quote(ctx, "APT"); err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", next.calls)
	}

	o.Flush()
	_, _ = o.Quote(ctx, "APT")
	if next.calls != 2 {
		t.Fatalf("expected refetch after flush, got %d calls", next.calls)
	}
}

func TestCachedOracle_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("boom")
	next := &countingOracle{err: boom}
	o := NewCachedOracle(next, time.Hour, nil)

	for i := 0; i < 2; i++ {
		if _, err := o.Quote(context.Background(), "APT"); !errors.Is(err, boom) {
			t.Fatalf("expected upstream error, got %v", err)
		}
	}
	if next.calls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", next.calls)
	}
}
