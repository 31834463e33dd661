package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultHTTPTimeout = 10 * time.Second

	// Limit error-body reads so we don't slurp huge responses.
	maxErrBodyBytes = 4096

	defaultMaxGasAmount = 2000
	defaultTxExpiry     = 60 * time.Second

	// FunctionAccountTransfer moves native coin and creates the recipient account if needed.
	FunctionAccountTransfer = "0x1::aptos_account::transfer"
	// FunctionCoinTransfer moves any registered coin.
	FunctionCoinTransfer = "0x1::coin::transfer"
	// FunctionAccountTransferCoins moves any coin and registers the recipient if needed.
	FunctionAccountTransferCoins = "0x1::aptos_account::transfer_coins"
)

// HTTPConfig configures the node REST backend.
type HTTPConfig struct {
	NodeURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

func (c *HTTPConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if c.NodeURL == "" {
		return errors.New("node_url is required")
	}
	if _, err := url.ParseRequestURI(c.NodeURL); err != nil {
		return fmt.Errorf("invalid node_url: %w", err)
	}
	return nil
}

type httpSettings struct {
	logger       *zap.Logger
	client       *http.Client
	now          func() time.Time
	maxGasAmount uint64
}

// HTTPOption configures the HTTP backend.
type HTTPOption func(*httpSettings)

// WithHTTPLogger sets a custom logger.
func WithHTTPLogger(l *zap.Logger) HTTPOption {
	return func(s *httpSettings) { s.logger = l }
}

// WithHTTPClient overrides the HTTP client. Its timeout wins over HTTPConfig.Timeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *httpSettings) { s.client = c }
}

// WithMaxGasAmount sets the gas ceiling of submitted transfers.
func WithMaxGasAmount(n uint64) HTTPOption {
	return func(s *httpSettings) { s.maxGasAmount = n }
}

// HTTPBackend talks to a fullnode REST API (/v1).
type HTTPBackend struct {
	baseURL      string
	client       *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
	now          func() time.Time
	maxGasAmount uint64
}

// NewHTTPBackend creates a REST backend for cfg.NodeURL.
func NewHTTPBackend(cfg *HTTPConfig, opts ...HTTPOption) (*HTTPBackend, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := httpSettings{logger: zap.NewNop(), now: time.Now, maxGasAmount: defaultMaxGasAmount}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		s.client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPBackend{
		baseURL:      strings.TrimRight(cfg.NodeURL, "/") + "/v1",
		client:       s.client,
		limiter:      rate.NewLimiter(limit, burst),
		logger:       s.logger,
		now:          s.now,
		maxGasAmount: s.maxGasAmount,
	}, nil
}

func (b *HTTPBackend) Balance(ctx context.Context, address, coinType string) (uint64, error) {
	var res Resource
	path := "/accounts/" + url.PathEscape(address) + "/resource/" + url.PathEscape(CoinStoreType(coinType))
	found, err := b.get(ctx, path, &res)
	if err != nil || !found {
		return 0, err
	}
	v, ok := CoinValue(res)
	if !ok {
		return 0, fmt.Errorf("%w: malformed coin store for %s", ErrRemote, coinType)
	}
	return v, nil
}

func (b *HTTPBackend) Resources(ctx context.Context, address string) ([]Resource, error) {
	var res []Resource
	if _, err := b.get(ctx, "/accounts/"+url.PathEscape(address)+"/resources", &res); err != nil {
		return nil, err
	}
	if res == nil {
		res = []Resource{}
	}
	return res, nil
}

func (b *HTTPBackend) Transactions(ctx context.Context, address string, limit int) ([]RawTransaction, error) {
	path := "/accounts/" + url.PathEscape(address) + "/transactions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var txs []RawTransaction
	if _, err := b.get(ctx, path, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []RawTransaction{}
	}
	return txs, nil
}

func (b *HTTPBackend) TransactionByHash(ctx context.Context, hash string) (*RawTransaction, error) {
	var tx RawTransaction
	found, err := b.get(ctx, "/transactions/by_hash/"+url.PathEscape(hash), &tx)
	if err != nil || !found {
		return nil, err
	}
	return &tx, nil
}

type accountInfo struct {
	SequenceNumber string `json:"sequence_number"`
}

type gasEstimate struct {
	GasEstimate uint64 `json:"gas_estimate"`
}

type transactionBody struct {
	Sender                  string     `json:"sender"`
	SequenceNumber          string     `json:"sequence_number"`
	MaxGasAmount            string     `json:"max_gas_amount"`
	GasUnitPrice            string     `json:"gas_unit_price"`
	ExpirationTimestampSecs string     `json:"expiration_timestamp_secs"`
	Payload                 Payload    `json:"payload"`
	Signature               *signature `json:"signature,omitempty"`
}

type signature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

type pendingTransaction struct {
	Hash string `json:"hash"`
}

// Submit builds the transfer, has the node encode its signing message,
// signs it locally and submits the signed transaction.
func (b *HTTPBackend) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if req.From == nil {
		return "", errors.New("submit: nil sender account")
	}

	var acct accountInfo
	found, err := b.get(ctx, "/accounts/"+url.PathEscape(req.From.Address), &acct)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: sender account %s does not exist", ErrRemote, req.From.Address)
	}

	var gas gasEstimate
	if _, err := b.get(ctx, "/estimate_gas_price", &gas); err != nil {
		return "", err
	}

	payload := Payload{
		Type:          "entry_function_payload",
		Function:      FunctionAccountTransfer,
		TypeArguments: []string{},
		Arguments:     []any{req.To, strconv.FormatUint(req.Amount, 10)},
	}
	if req.CoinType != "" && req.CoinType != NativeCoinType {
		payload.Function = FunctionAccountTransferCoins
		payload.TypeArguments = []string{req.CoinType}
	}

	body := transactionBody{
		Sender:                  req.From.Address,
		SequenceNumber:          acct.SequenceNumber,
		MaxGasAmount:            strconv.FormatUint(b.maxGasAmount, 10),
		GasUnitPrice:            strconv.FormatUint(gas.GasEstimate, 10),
		ExpirationTimestampSecs: strconv.FormatInt(b.now().Add(defaultTxExpiry).Unix(), 10),
		Payload:                 payload,
	}

	var signingMessage string
	if err := b.post(ctx, "/transactions/encode_submission", body, &signingMessage); err != nil {
		return "", err
	}
	msg, err := hexutil.Decode(signingMessage)
	if err != nil {
		return "", fmt.Errorf("%w: bad signing message: %v", ErrRemote, err)
	}

	body.Signature = &signature{
		Type:      "ed25519_signature",
		PublicKey: req.From.PublicKeyHex(),
		Signature: hexutil.Encode(req.From.Sign(msg)),
	}

	var pending pendingTransaction
	if err := b.post(ctx, "/transactions", body, &pending); err != nil {
		return "", err
	}
	if pending.Hash == "" {
		return "", fmt.Errorf("%w: submission response missing hash", ErrRemote)
	}

	b.logger.Debug("transfer submitted",
		zap.String("hash", pending.Hash),
		zap.String("sender", req.From.Address),
	)
	return pending.Hash, nil
}

// get decodes the response into dst. A 404 reports found=false with no error.
func (b *HTTPBackend) get(ctx context.Context, path string, dst any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	return b.do(req, dst)
}

func (b *HTTPBackend) post(ctx context.Context, path string, body, dst any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	found, err := b.do(req, dst)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s returned 404", ErrRemote, path)
	}
	return nil
}

func (b *HTTPBackend) do(req *http.Request, dst any) (bool, error) {
	if err := b.limiter.Wait(req.Context()); err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBodyBytes))
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, readHTTPError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrRemote, req.URL.Path, err)
	}
	return true, nil
}

func readHTTPError(resp *http.Response) error {
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: status %d and body read failed: %v", ErrRemote, resp.StatusCode, err)
	}
	return fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, strings.TrimSpace(string(b)))
}
