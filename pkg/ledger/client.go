// Package ledger reads and writes chain state for one active account.
//
// A Client owns the active account session and delegates chain access to a
// Backend chosen at construction time (mock for demo mode, REST for live).
package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pesto/remittance-sync/internal/metrics"
	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/keys"
	"github.com/pesto/remittance-sync/pkg/kvstore"
)

// DefaultTransactionLimit bounds transaction history fetches.
const DefaultTransactionLimit = 25

var (
	// ErrNoActiveAccount is returned when an operation needs an account and none is set.
	ErrNoActiveAccount = errors.New("no active account")
	// ErrInvalidAddress is returned for syntactically malformed addresses.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrAccountMismatch is returned when a persisted key does not derive its stored address.
	ErrAccountMismatch = errors.New("persisted account address does not match its key")
)

type settings struct {
	logger         *zap.Logger
	codec          keys.Codec
	rand           io.Reader
	nativeCoinType string
	txLimit        int
	submitEnabled  bool
}

// Option configures the ledger client.
type Option func(*settings)

// WithLogger sets a custom logger for the ledger client.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithKeyCodec sets how the account key is encoded at rest. Defaults to plain hex.
func WithKeyCodec(c keys.Codec) Option {
	return func(s *settings) { s.codec = c }
}

// WithRandom sets the entropy source for account generation.
func WithRandom(r io.Reader) Option {
	return func(s *settings) { s.rand = r }
}

// WithNativeCoinType overrides the native coin type.
func WithNativeCoinType(coinType string) Option {
	return func(s *settings) { s.nativeCoinType = coinType }
}

// WithTransactionLimit sets the default history size.
func WithTransactionLimit(n int) Option {
	return func(s *settings) { s.txLimit = n }
}

// WithSubmitEnabled switches transfer submission on or off. It is on by default.
func WithSubmitEnabled(enabled bool) Option {
	return func(s *settings) { s.submitEnabled = enabled }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:         zap.NewNop(),
		codec:          keys.HexCodec{},
		rand:           rand.Reader,
		nativeCoinType: NativeCoinType,
		txLimit:        DefaultTransactionLimit,
		submitEnabled:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// storedAccount is the persisted form of the active account.
type storedAccount struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

// Client is the ledger client. Create it with NewClient.
type Client struct {
	backend Backend
	store   kvstore.Store
	cfg     settings

	mu      sync.RWMutex
	account *Account
}

// NewClient creates a ledger client over backend, persisting the active account in store.
func NewClient(backend Backend, store kvstore.Store, opts ...Option) *Client {
	return &Client{
		backend: backend,
		store:   store,
		cfg:     applyOptions(opts),
	}
}

// NativeCoinType returns the coin type used for balances when none is given.
func (c *Client) NativeCoinType() string {
	return c.cfg.nativeCoinType
}

// ActiveAccount returns the active account, or nil.
func (c *Client) ActiveAccount() *Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

// GenerateAccount creates a fresh account, persists it and makes it active.
func (c *Client) GenerateAccount(ctx context.Context) (*Account, error) {
	acct, err := GenerateAccount(c.cfg.rand)
	if err != nil {
		return nil, err
	}
	if err := c.activate(ctx, acct); err != nil {
		return nil, err
	}
	c.cfg.logger.Info("generated chain account", zap.String("address", acct.Address))
	return acct, nil
}

// RestoreAccount restores an account from its hex private key, persists it and makes it active.
func (c *Client) RestoreAccount(ctx context.Context, privateKeyHex string) (*Account, error) {
	seed, err := keys.DecodeHexKey(privateKeyHex)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "invalid private key")
	}
	acct, err := AccountFromSeed(seed)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "invalid private key")
	}
	if err := c.activate(ctx, acct); err != nil {
		return nil, err
	}
	c.cfg.logger.Info("restored chain account", zap.String("address", acct.Address))
	return acct, nil
}

// LoadAccount makes the persisted account active. It returns nil when none is stored.
func (c *Client) LoadAccount(ctx context.Context) (*Account, error) {
	var stored storedAccount
	found, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyChainAccount, &stored)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !found {
		return nil, nil
	}

	seed, err := c.cfg.codec.Decode(stored.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode account key: %w", err)
	}
	acct, err := AccountFromSeed(seed)
	if err != nil {
		return nil, err
	}
	if !SameAddress(acct.Address, stored.Address) {
		return nil, fmt.Errorf("%w: stored %s, derived %s", ErrAccountMismatch, stored.Address, acct.Address)
	}

	c.mu.Lock()
	c.account = acct
	c.mu.Unlock()
	return acct, nil
}

// ClearAccount forgets the active account and removes it from storage.
func (c *Client) ClearAccount(ctx context.Context) error {
	c.mu.Lock()
	c.account = nil
	c.mu.Unlock()
	return c.store.Remove(ctx, kvstore.KeyChainAccount)
}

func (c *Client) activate(ctx context.Context, acct *Account) error {
	encoded, err := c.cfg.codec.Encode(acct.Seed())
	if err != nil {
		return fmt.Errorf("encode account key: %w", err)
	}
	if err := kvstore.SetJSON(ctx, c.store, kvstore.KeyChainAccount, storedAccount{
		Address:    acct.Address,
		PrivateKey: encoded,
	}); err != nil {
		return fmt.Errorf("persist account: %w", err)
	}

	c.mu.Lock()
	c.account = acct
	c.mu.Unlock()
	return nil
}

// ValidateAddress reports whether address is syntactically valid.
func (c *Client) ValidateAddress(address string) bool {
	return ValidateAddress(address)
}

// GetBalance returns the base-unit balance of coinType (native when empty).
// An account or coin store that does not exist has a zero balance.
func (c *Client) GetBalance(ctx context.Context, address, coinType string) (uint64, error) {
	if coinType == "" {
		coinType = c.cfg.nativeCoinType
	}
	var bal uint64
	err := c.observe("balance", func() (err error) {
		bal, err = c.backend.Balance(ctx, address, coinType)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return bal, nil
}

// ListResources returns the raw resources of address, empty when it does not exist.
func (c *Client) ListResources(ctx context.Context, address string) ([]Resource, error) {
	var res []Resource
	err := c.observe("resources", func() (err error) {
		res, err = c.backend.Resources(ctx, address)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return res, nil
}

// ListTransactions returns up to limit most recent transfers involving address, newest first.
// A non-positive limit uses the configured default.
func (c *Client) ListTransactions(ctx context.Context, address string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = c.cfg.txLimit
	}

	var raw []RawTransaction
	err := c.observe("transactions", func() (err error) {
		raw, err = c.backend.Transactions(ctx, address, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]Transaction, 0, len(raw))
	for i := range raw {
		tx, ok := c.normalize(&raw[i], address)
		if !ok {
			continue
		}
		txs = append(txs, tx)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Timestamp.After(txs[j].Timestamp) })
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// GetTransaction looks up a transaction by hash from the point of view of the active account.
// It returns nil when the hash is unknown or the transaction is not a transfer.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*Transaction, error) {
	var raw *RawTransaction
	err := c.observe("transaction_by_hash", func() (err error) {
		raw, err = c.backend.TransactionByHash(ctx, hash)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	viewer := raw.Sender
	if acct := c.ActiveAccount(); acct != nil {
		viewer = acct.Address
	}
	tx, ok := c.normalize(raw, viewer)
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

// SubmitTransfer submits amount base units of coinType (native when empty) from account to toAddress.
// Checks run in order and before any network call: submission enabled, positive amount, recipient syntax.
func (c *Client) SubmitTransfer(ctx context.Context, account *Account, toAddress string, amount uint64, coinType string) (string, error) {
	if !c.cfg.submitEnabled {
		return "", apperrors.DisabledOperationError(ErrSubmissionDisabled, "transfer submission is disabled")
	}
	if amount == 0 {
		return "", apperrors.BadRequestError(ErrInvalidAmount, "amount must be greater than zero")
	}
	if account == nil {
		return "", apperrors.BadRequestError(ErrNoActiveAccount, "no account available")
	}
	if !ValidateAddress(toAddress) {
		return "", apperrors.BadRequestError(ErrInvalidAddress, "invalid recipient address")
	}
	if coinType == "" {
		coinType = c.cfg.nativeCoinType
	}

	var hash string
	err := c.observe("submit", func() (err error) {
		hash, err = c.backend.Submit(ctx, SubmitRequest{
			From:     account,
			To:       toAddress,
			Amount:   amount,
			CoinType: coinType,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSubmissionDisabled) {
			return "", apperrors.DisabledOperationError(err, "transfer submission is disabled")
		}
		return "", apperrors.DependencyError(err, "failed to submit transfer")
	}
	return hash, nil
}

// normalize maps a transfer-shaped transaction involving address into a Transaction.
func (c *Client) normalize(raw *RawTransaction, address string) (Transaction, bool) {
	p := raw.Payload
	if p == nil || len(p.Arguments) < 2 {
		return Transaction{}, false
	}
	switch p.Function {
	case FunctionAccountTransfer, FunctionCoinTransfer, FunctionAccountTransferCoins:
	default:
		return Transaction{}, false
	}

	to, _ := p.Arguments[0].(string)
	amountStr, _ := p.Arguments[1].(string)
	if !SameAddress(raw.Sender, address) && !SameAddress(to, address) {
		return Transaction{}, false
	}
	units, err := parseBaseUnits(amountStr)
	if err != nil {
		return Transaction{}, false
	}

	coinType := c.cfg.nativeCoinType
	if len(p.TypeArguments) > 0 && p.TypeArguments[0] != "" {
		coinType = p.TypeArguments[0]
	}
	token := LookupToken(coinType)

	tx := Transaction{
		ID:          raw.Hash,
		Type:        TransactionReceive,
		Amount:      FromBaseUnits(units, token.Decimals),
		AssetSymbol: token.Symbol,
		FromAddress: raw.Sender,
		ToAddress:   to,
		Status:      StatusFailed,
		Timestamp:   parseMicros(raw.Timestamp),
		Hash:        raw.Hash,
		Fee:         fee(raw.GasUsed, raw.GasUnitPrice),
	}
	if SameAddress(raw.Sender, address) {
		tx.Type = TransactionSend
	}
	if raw.Success {
		tx.Status = StatusCompleted
	}
	return tx, true
}

func (c *Client) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.LedgerRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
		c.cfg.logger.Warn("ledger request failed",
			zap.String("operation", operation),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	}
	metrics.LedgerRequests.WithLabelValues(operation, status).Inc()
	return err
}

func parseMicros(s string) time.Time {
	us, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMicro(us).UTC()
}

// fee returns gas_used * gas_unit_price in native display units.
func fee(gasUsed, gasUnitPrice string) float64 {
	used, err1 := parseBaseUnits(gasUsed)
	price, err2 := parseBaseUnits(gasUnitPrice)
	if err1 != nil || err2 != nil {
		return 0
	}
	// the product can exceed uint64, so it is formed in decimal
	f, _ := decimal.NewFromUint64(used).Mul(decimal.NewFromUint64(price)).Shift(-NativeDecimals).Float64()
	return f
}
