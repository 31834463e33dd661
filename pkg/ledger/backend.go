package ledger

import (
	"context"
	"errors"
)

var (
	// ErrRemote wraps unexpected responses from a ledger backend.
	ErrRemote = errors.New("ledger backend request failed")
	// ErrSubmissionDisabled is returned when transfer submission is switched off.
	ErrSubmissionDisabled = errors.New("transfer submission is disabled")
)

// Backend is the source of truth for chain state. A missing account or
// resource is not an error: implementations return zero, empty or nil.
type Backend interface {
	// Balance returns the base-unit balance of coinType held by address.
	Balance(ctx context.Context, address, coinType string) (uint64, error)
	Resources(ctx context.Context, address string) ([]Resource, error)
	// Transactions returns up to limit committed transactions sent by address.
	Transactions(ctx context.Context, address string, limit int) ([]RawTransaction, error)
	// TransactionByHash returns nil when the hash is unknown.
	TransactionByHash(ctx context.Context, hash string) (*RawTransaction, error)
	// Submit signs and submits a transfer, returning its hash.
	Submit(ctx context.Context, req SubmitRequest) (string, error)
}
