package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersTotal counts send-money attempts by outcome
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pesto_transfers_total",
			Help: "Total number of send-money attempts",
		},
		[]string{"outcome"},
	)

	// TransferDuration tracks time from validation to the end of the post-submit refresh
	TransferDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pesto_transfer_duration_seconds",
			Help:    "Send-money duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// TransferAmount tracks the display amount of submitted transfers
	TransferAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pesto_transfer_amount",
			Help:    "Amount of submitted transfers in display units",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000},
		},
		[]string{"asset"},
	)

	// LedgerRequests counts ledger backend calls by operation and status
	LedgerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pesto_ledger_requests_total",
			Help: "Total number of ledger backend requests",
		},
		[]string{"operation", "status"},
	)

	// LedgerRequestDuration tracks ledger backend latency
	LedgerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pesto_ledger_request_duration_seconds",
			Help:    "Ledger backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// WalletRefreshes counts wallet refreshes by kind (assets, transactions) and outcome
	WalletRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pesto_wallet_refresh_total",
			Help: "Total number of wallet refreshes",
		},
		[]string{"kind", "outcome"},
	)

	// PriceCacheLookups counts price oracle cache lookups by result (hit, miss)
	PriceCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pesto_price_cache_lookups_total",
			Help: "Total number of price cache lookups",
		},
		[]string{"result"},
	)
)
