// Package wallet keeps the asset and transaction view of the active ledger account.
package wallet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pesto/remittance-sync/internal/metrics"
	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/ledger"
	"github.com/pesto/remittance-sync/pkg/pricing"
)

const (
	kindAssets       = "assets"
	kindTransactions = "transactions"
)

// Ledger is the subset of the ledger client the wallet needs.
type Ledger interface {
	ActiveAccount() *ledger.Account
	NativeCoinType() string
	GenerateAccount(ctx context.Context) (*ledger.Account, error)
	RestoreAccount(ctx context.Context, privateKeyHex string) (*ledger.Account, error)
	ClearAccount(ctx context.Context) error
	GetTransaction(ctx context.Context, hash string) (*ledger.Transaction, error)
	GetBalance(ctx context.Context, address, coinType string) (uint64, error)
	ListResources(ctx context.Context, address string) ([]ledger.Resource, error)
	ListTransactions(ctx context.Context, address string, limit int) ([]ledger.Transaction, error)
}

// State is a snapshot of the wallet.
type State struct {
	Address               string               `json:"address,omitempty"`
	Assets                []ledger.Asset       `json:"assets"`
	Transactions          []ledger.Transaction `json:"transactions"`
	Loading               bool                 `json:"loading"`
	Error                 string               `json:"error,omitempty"`
	AssetsUpdatedAt       time.Time            `json:"assetsUpdatedAt"`
	TransactionsUpdatedAt time.Time            `json:"transactionsUpdatedAt"`
}

type settings struct {
	logger  *zap.Logger
	txLimit int
	now     func() time.Time
}

// Option configures the wallet.
type Option func(*settings)

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTransactionLimit sets how many transactions a refresh keeps.
func WithTransactionLimit(n int) Option {
	return func(s *settings) { s.txLimit = n }
}

// WithClock overrides the refresh timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Wallet holds the refreshed view of the active account.
type Wallet struct {
	ledger Ledger
	oracle pricing.Oracle
	cfg    settings

	assetSeq atomic.Uint64
	txSeq    atomic.Uint64
	inFlight atomic.Int32

	mu        sync.RWMutex
	state     State
	listeners []func(State)
}

// New creates a wallet over the ledger client, valuing assets with oracle.
func New(l Ledger, oracle pricing.Oracle, opts ...Option) *Wallet {
	s := settings{logger: zap.NewNop(), txLimit: ledger.DefaultTransactionLimit, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &Wallet{
		ledger: l,
		oracle: oracle,
		cfg:    s,
		state: State{
			Assets:       []ledger.Asset{},
			Transactions: []ledger.Transaction{},
		},
	}
}

// OnChange registers fn to receive every new state snapshot.
func (w *Wallet) OnChange(fn func(State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// State returns a copy of the current state.
func (w *Wallet) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked()
}

// AssetBalance returns the refreshed display balance of symbol.
func (w *Wallet) AssetBalance(symbol string) (float64, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, a := range w.state.Assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a.Balance, true
		}
	}
	return 0, false
}

// GenerateAccount creates a new active account and refreshes the wallet for it.
func (w *Wallet) GenerateAccount(ctx context.Context) (*ledger.Account, error) {
	acct, err := w.ledger.GenerateAccount(ctx)
	if err != nil {
		return nil, err
	}
	w.resetFor(acct.Address)
	if err := w.Refresh(ctx); err != nil {
		w.cfg.logger.Warn("refresh after account generation failed", zap.Error(err))
	}
	return acct, nil
}

// RestoreAccount restores the active account from its private key and refreshes the wallet for it.
func (w *Wallet) RestoreAccount(ctx context.Context, privateKeyHex string) (*ledger.Account, error) {
	acct, err := w.ledger.RestoreAccount(ctx, privateKeyHex)
	if err != nil {
		return nil, err
	}
	w.resetFor(acct.Address)
	if err := w.Refresh(ctx); err != nil {
		w.cfg.logger.Warn("refresh after account restore failed", zap.Error(err))
	}
	return acct, nil
}

// ClearAccount forgets the active account and empties the view.
func (w *Wallet) ClearAccount(ctx context.Context) error {
	if err := w.ledger.ClearAccount(ctx); err != nil {
		return apperrors.DependencyError(err, "Failed to clear account")
	}
	w.resetFor("")
	return nil
}

// Transaction looks up a single transaction by hash. Unknown hashes yield nil.
func (w *Wallet) Transaction(ctx context.Context, hash string) (*ledger.Transaction, error) {
	tx, err := w.ledger.GetTransaction(ctx, hash)
	if err != nil {
		return nil, apperrors.DependencyError(err, "Failed to load transaction")
	}
	return tx, nil
}

// Refresh reloads assets and transactions concurrently.
// The two loads are independent: a failing one neither cancels nor hides the other.
func (w *Wallet) Refresh(ctx context.Context) error {
	var (
		g                errgroup.Group
		assetErr, txsErr error
	)
	g.Go(func() error {
		assetErr = w.RefreshAssets(ctx)
		return nil
	})
	g.Go(func() error {
		txsErr = w.RefreshTransactions(ctx)
		return nil
	})
	_ = g.Wait()
	return errors.Join(assetErr, txsErr)
}

// RefreshAssets reloads the holdings of the active account.
// On failure the previous assets are kept and the error is recorded and returned.
func (w *Wallet) RefreshAssets(ctx context.Context) error {
	acct := w.ledger.ActiveAccount()
	if acct == nil {
		w.resetFor("")
		return nil
	}
	seq := w.assetSeq.Add(1)

	// Each call fetches on its own, never joining an in-flight refresh.
	w.begin()
	assets, err := w.loadAssets(ctx, acct.Address)
	w.end()

	if err != nil {
		return w.fail(kindAssets, err)
	}
	if !w.apply(kindAssets, seq, &w.assetSeq, func(s *State) {
		s.Address = acct.Address
		s.Assets = assets
		s.AssetsUpdatedAt = w.cfg.now()
	}) {
		w.cfg.logger.Debug("discarded stale asset refresh", zap.Uint64("seq", seq))
	}
	return nil
}

// RefreshTransactions reloads the recent transfers of the active account.
// On failure the previous transactions are kept and the error is recorded and returned.
func (w *Wallet) RefreshTransactions(ctx context.Context) error {
	acct := w.ledger.ActiveAccount()
	if acct == nil {
		w.resetFor("")
		return nil
	}
	seq := w.txSeq.Add(1)

	w.begin()
	txs, err := w.ledger.ListTransactions(ctx, acct.Address, w.cfg.txLimit)
	w.end()

	if err != nil {
		return w.fail(kindTransactions, err)
	}
	if !w.apply(kindTransactions, seq, &w.txSeq, func(s *State) {
		s.Address = acct.Address
		s.Transactions = txs
		s.TransactionsUpdatedAt = w.cfg.now()
	}) {
		w.cfg.logger.Debug("discarded stale transaction refresh", zap.Uint64("seq", seq))
	}
	return nil
}

func (w *Wallet) loadAssets(ctx context.Context, address string) ([]ledger.Asset, error) {
	native := w.ledger.NativeCoinType()

	bal, err := w.ledger.GetBalance(ctx, address, native)
	if err != nil {
		return nil, err
	}
	resources, err := w.ledger.ListResources(ctx, address)
	if err != nil {
		return nil, err
	}

	assets := make([]ledger.Asset, 0, len(resources)+1)
	if bal > 0 {
		a, err := w.asset(ctx, native, bal)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	for _, r := range resources {
		coinType, ok := ledger.CoinTypeOf(r.Type)
		if !ok || coinType == native {
			continue
		}
		v, ok := ledger.CoinValue(r)
		if !ok || v == 0 {
			continue
		}
		a, err := w.asset(ctx, coinType, v)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func (w *Wallet) asset(ctx context.Context, coinType string, units uint64) (ledger.Asset, error) {
	token := ledger.LookupToken(coinType)
	q, err := w.oracle.Quote(ctx, token.Symbol)
	if err != nil {
		return ledger.Asset{}, err
	}
	id := strings.ToLower(token.Symbol)
	return ledger.Asset{
		ID:            id,
		Symbol:        token.Symbol,
		Name:          token.Name,
		Icon:          id,
		Balance:       ledger.FromBaseUnits(units, token.Decimals),
		USDValue:      q.USD,
		Change24h:     q.Change24h,
		ChangePercent: q.ChangePercent,
		ContractID:    coinType,
		Decimals:      token.Decimals,
	}, nil
}

// apply mutates the state if seq is still the latest call of its kind.
func (w *Wallet) apply(kind string, seq uint64, latest *atomic.Uint64, mutate func(*State)) bool {
	w.mu.Lock()
	if seq != latest.Load() {
		w.mu.Unlock()
		metrics.WalletRefreshes.WithLabelValues(kind, "stale").Inc()
		return false
	}
	mutate(&w.state)
	w.state.Error = ""
	snap, listeners := w.snapshotLocked(), w.listeners
	w.mu.Unlock()

	metrics.WalletRefreshes.WithLabelValues(kind, "ok").Inc()
	notify(listeners, snap)
	return true
}

func (w *Wallet) fail(kind string, err error) error {
	metrics.WalletRefreshes.WithLabelValues(kind, "error").Inc()
	w.cfg.logger.Warn("wallet refresh failed", zap.String("kind", kind), zap.Error(err))

	if errors.Is(err, context.Canceled) {
		return err
	}
	msg := "failed to refresh " + kind
	err = apperrors.DependencyError(err, msg)

	w.mu.Lock()
	w.state.Error = msg
	snap, listeners := w.snapshotLocked(), w.listeners
	w.mu.Unlock()

	notify(listeners, snap)
	return err
}

// resetFor clears the view when the active account changes.
func (w *Wallet) resetFor(address string) {
	w.mu.Lock()
	if w.state.Address == address && address != "" {
		w.mu.Unlock()
		return
	}
	// Bump both sequences so in-flight refreshes for the old account are discarded.
	w.assetSeq.Add(1)
	w.txSeq.Add(1)
	w.state = State{
		Address:      address,
		Assets:       []ledger.Asset{},
		Transactions: []ledger.Transaction{},
		Loading:      w.inFlight.Load() > 0,
	}
	snap, listeners := w.snapshotLocked(), w.listeners
	w.mu.Unlock()
	notify(listeners, snap)
}

func (w *Wallet) begin() {
	w.inFlight.Add(1)
	w.setLoading()
}

func (w *Wallet) end() {
	w.inFlight.Add(-1)
	w.setLoading()
}

func (w *Wallet) setLoading() {
	w.mu.Lock()
	w.state.Loading = w.inFlight.Load() > 0
	w.mu.Unlock()
}

func (w *Wallet) snapshotLocked() State {
	s := w.state
	s.Assets = append([]ledger.Asset(nil), w.state.Assets...)
	s.Transactions = append([]ledger.Transaction(nil), w.state.Transactions...)
	if s.Assets == nil {
		s.Assets = []ledger.Asset{}
	}
	if s.Transactions == nil {
		s.Transactions = []ledger.Transaction{}
	}
	return s
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
