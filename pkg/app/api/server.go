// Package api implements app.Runner for the sync server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	apphttp "github.com/pesto/remittance-sync/pkg/app/http"
	"github.com/pesto/remittance-sync/pkg/config"
	contactsservice "github.com/pesto/remittance-sync/pkg/contacts/service"
	"github.com/pesto/remittance-sync/pkg/demodata"
	"github.com/pesto/remittance-sync/pkg/keys"
	"github.com/pesto/remittance-sync/pkg/kvstore"
	"github.com/pesto/remittance-sync/pkg/ledger"
	"github.com/pesto/remittance-sync/pkg/oauth"
	"github.com/pesto/remittance-sync/pkg/pgutil"
	"github.com/pesto/remittance-sync/pkg/pricing"
	"github.com/pesto/remittance-sync/pkg/transfer"
	userservice "github.com/pesto/remittance-sync/pkg/user/service"
	"github.com/pesto/remittance-sync/pkg/wallet"
)

// Server holds cfg to init the sync server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new sync server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = config.WithLedger(logger, cfg.Ledger)

	logger.Info("Starting sync server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	a, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Initialize(ctx)

	return apphttp.ServeAndWait(ctx, a.Router(), logger, &cfg.Server)
}

// App is the wired set of services behind the HTTP API.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *bun.DB

	Store      kvstore.Store
	Ledger     *ledger.Client
	Wallet     *wallet.Wallet
	Demo       *demodata.Database
	Identity   userservice.Service
	Contacts   contactsservice.Service
	Transfers  *transfer.Orchestrator
	Aggregator *demodata.Aggregator
}

// Build constructs every service in dependency order. The ledger backend is chosen here, once.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	codec, err := keyCodec(cfg.Keys)
	if err != nil {
		a.Close()
		return nil, err
	}

	backend, err := newBackend(cfg.Ledger, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Ledger = ledger.NewClient(backend, store,
		ledger.WithLogger(logger.Named("ledger")),
		ledger.WithKeyCodec(codec),
		ledger.WithNativeCoinType(cfg.Ledger.NativeCoinType),
		ledger.WithTransactionLimit(cfg.Ledger.TransactionLimit),
		ledger.WithSubmitEnabled(cfg.Ledger.SubmitEnabled),
	)

	oracle := pricing.NewCachedOracle(pricing.NewStaticOracle(nil), cfg.Pricing.CacheTTL, logger.Named("pricing"))
	a.Wallet = wallet.New(a.Ledger, oracle,
		wallet.WithLogger(logger.Named("wallet")),
		wallet.WithTransactionLimit(cfg.Ledger.TransactionLimit),
	)

	a.Demo, err = demodata.NewDatabase(0)
	if err != nil {
		a.Close()
		return nil, err
	}

	var provider userservice.ExternalProvider
	if cfg.OAuth.Enabled {
		p, err := newOAuthProvider(cfg.OAuth, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		provider = p
	}
	a.Identity = userservice.NewLog(
		userservice.NewService(store, a.Demo, provider, logger.Named("identity")),
		logger,
	)

	a.Contacts = contactsservice.NewService(store, a.Ledger, logger.Named("contacts"))
	a.Transfers = transfer.NewOrchestrator(a.Ledger, a.Contacts, a.Wallet,
		transfer.WithLogger(logger.Named("transfer")),
		transfer.WithMaxAmount(cfg.Compliance.MaxTransactionAmount),
	)
	a.Aggregator = demodata.NewAggregator(a.Demo, logger.Named("demodata"))

	return a, nil
}

// Initialize restores persisted state: identity, active account, contacts, then the wallet.
// Failures are logged; the server still starts with empty state.
func (a *App) Initialize(ctx context.Context) {
	if err := a.Identity.Initialize(ctx); err != nil {
		a.logger.Warn("Failed to restore identity", zap.Error(err))
	}
	acct, err := a.Ledger.LoadAccount(ctx)
	if err != nil {
		a.logger.Warn("Failed to restore chain account", zap.Error(err))
	}
	if err := a.Contacts.Load(ctx); err != nil {
		a.logger.Warn("Failed to load contacts", zap.Error(err))
	}
	if acct == nil {
		return
	}
	a.logger.Info("Restored chain account", zap.String("address", acct.Address))
	if err := a.Wallet.Refresh(ctx); err != nil {
		a.logger.Warn("Initial wallet refresh failed", zap.Error(err))
	}
}

// Router mounts every endpoint.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	userservice.RegisterRoutes(r, a.Identity, a.logger)
	wallet.RegisterRoutes(r, a.Wallet, a.logger)
	contactsservice.RegisterRoutes(r, a.Contacts, a.logger)
	transfer.RegisterRoutes(r, a.Transfers, a.logger)
	demodata.RegisterRoutes(r, a.Aggregator, a.cfg.Demo.DefaultUserID, a.logger)

	return r
}

// Close releases the database connection, if any.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) openStore(ctx context.Context) (kvstore.Store, error) {
	if a.cfg.Storage.Driver != config.StoragePostgres {
		return kvstore.NewMemoryStore(), nil
	}
	db, err := pgutil.ConnectDB(ctx, &a.cfg.Storage.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	a.db = db
	return kvstore.NewPGStore(db), nil
}

func keyCodec(cfg config.KeysConfig) (keys.Codec, error) {
	if cfg.MasterKeyEnv == "" {
		return keys.HexCodec{}, nil
	}
	encoded := os.Getenv(cfg.MasterKeyEnv)
	if encoded == "" {
		return nil, fmt.Errorf("master key not set: env=%s (hint: openssl rand -base64 32)", cfg.MasterKeyEnv)
	}
	masterKey, err := keys.MasterKeyFromBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid master key: %w", err)
	}
	codec, err := keys.NewSealedCodec(masterKey)
	if err != nil {
		return nil, fmt.Errorf("create key codec: %w", err)
	}
	return codec, nil
}

func newBackend(cfg config.LedgerConfig, logger *zap.Logger) (ledger.Backend, error) {
	if cfg.Mode == config.LedgerModeDemo {
		logger.Info("Using demo ledger backend", zap.Int64("seed", cfg.MockSeed))
		return ledger.NewMockBackend(cfg.MockSeed), nil
	}

	backend, err := ledger.NewHTTPBackend(&ledger.HTTPConfig{
		NodeURL:   cfg.NodeURL,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	}, ledger.WithHTTPLogger(logger.Named("ledger_http")))
	if err != nil {
		return nil, fmt.Errorf("create ledger backend: %w", err)
	}
	logger.Info("Using live ledger backend",
		zap.String("network", cfg.Network),
		zap.String("node_url", cfg.NodeURL),
		zap.Bool("submit_enabled", cfg.SubmitEnabled),
	)
	return backend, nil
}

func newOAuthProvider(cfg config.OAuthConfig, logger *zap.Logger) (*oauth.Provider, error) {
	browser := &oauth.LoopbackBrowser{
		Timeout: cfg.CallbackTimeout,
		Logger:  logger.Named("oauth"),
	}
	p, err := oauth.NewProvider(oauth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		UserInfoURL:  cfg.UserInfoURL,
		RevokeURL:    cfg.RevokeURL,
		Scopes:       cfg.Scopes,
	}, browser, oauth.WithLogger(logger.Named("oauth")))
	if err != nil {
		return nil, fmt.Errorf("create oauth provider: %w", err)
	}
	return p, nil
}
