// Package transfer runs the send-money flow: validate, submit, then refresh the wallet.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pesto/remittance-sync/internal/metrics"
	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/ledger"
)

// Phase is a state of the send-money flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseRefreshing Phase = "refreshing"
	PhaseFailed     Phase = "failed"
)

// Reason explains why a send failed.
type Reason string

const (
	ReasonNoActiveAccount        Reason = "NoActiveAccount"
	ReasonRecipientNotAuthorized Reason = "RecipientNotAuthorized"
	ReasonInvalidAmount          Reason = "InvalidAmount"
	ReasonAmountLimitExceeded    Reason = "AmountLimitExceeded"
	ReasonSubmissionFailed       Reason = "SubmissionFailed"
)

var (
	ErrRecipientNotAuthorized = errors.New("recipient is not a friend or chain user contact")
	ErrAmountLimitExceeded    = errors.New("amount exceeds the per-transaction limit")
)

// Error is a failed send. Err is a ServiceError carrying the HTTP category.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf returns the failure reason of err, if err is a send failure.
func ReasonOf(err error) (Reason, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Reason, true
	}
	return "", false
}

// Ledger is the chain access the orchestrator needs.
type Ledger interface {
	ActiveAccount() *ledger.Account
	SubmitTransfer(ctx context.Context, account *ledger.Account, toAddress string, amount uint64, coinType string) (string, error)
}

// Recipients authorizes transfer recipients.
type Recipients interface {
	CanSendMoney(address string) bool
}

// Refresher reloads balances and history after a submission.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Request is a send-money request. Amount is in display units of the native coin.
type Request struct {
	RecipientAddress string  `json:"recipientAddress"`
	Amount           float64 `json:"amount"`
	Note             string  `json:"note,omitempty"`
}

// Receipt describes a submitted transfer.
type Receipt struct {
	Hash      string  `json:"hash"`
	Amount    float64 `json:"amount"`
	BaseUnits uint64  `json:"baseUnits"`
	Recipient string  `json:"recipient"`
}

// State is the orchestrator's observable state.
type State struct {
	Phase      Phase  `json:"phase"`
	LastReason Reason `json:"lastReason,omitempty"`
	LastError  string `json:"lastError,omitempty"`
	LastHash   string `json:"lastHash,omitempty"`
}

type settings struct {
	logger    *zap.Logger
	maxAmount float64
	now       func() time.Time
}

// Option configures the orchestrator.
type Option func(*settings)

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithMaxAmount caps a single transfer in display units. Zero disables the cap.
func WithMaxAmount(limit float64) Option {
	return func(s *settings) { s.maxAmount = limit }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// Orchestrator sequences one send at a time.
type Orchestrator struct {
	ledger     Ledger
	recipients Recipients
	wallet     Refresher
	cfg        settings

	send sync.Mutex

	mu        sync.RWMutex
	state     State
	observers []func(from, to Phase)
}

// NewOrchestrator creates a send-money orchestrator.
func NewOrchestrator(l Ledger, recipients Recipients, wallet Refresher, opts ...Option) *Orchestrator {
	return &Orchestrator{
		ledger:     l,
		recipients: recipients,
		wallet:     wallet,
		cfg:        applyOptions(opts),
		state:      State{Phase: PhaseIdle},
	}
}

// OnTransition registers fn to be called on every phase change, from the sending goroutine.
func (o *Orchestrator) OnTransition(fn func(from, to Phase)) {
	o.mu.Lock()
	o.observers = append(o.observers, fn)
	o.mu.Unlock()
}

// State returns a snapshot of the orchestrator state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Send validates req, submits the transfer and refreshes the wallet.
// Validation failures happen before any network call. A failed refresh is
// logged and does not fail the send.
func (o *Orchestrator) Send(ctx context.Context, req Request) (*Receipt, error) {
	o.send.Lock()
	defer o.send.Unlock()

	start := o.cfg.now()
	recipient := strings.TrimSpace(req.RecipientAddress)
	logger := o.cfg.logger.With(zap.String("recipient", recipient), zap.Float64("amount", req.Amount))

	o.transition(PhaseValidating, nil)

	account := o.ledger.ActiveAccount()
	if account == nil {
		return nil, o.fail(logger, ReasonNoActiveAccount,
			apperrors.BadRequestError(ledger.ErrNoActiveAccount, "No active account"))
	}
	if !o.recipients.CanSendMoney(recipient) {
		return nil, o.fail(logger, ReasonRecipientNotAuthorized,
			apperrors.ForbiddenError(ErrRecipientNotAuthorized, "Recipient is not in your friends list"))
	}
	units, err := ledger.ToBaseUnits(req.Amount, ledger.NativeDecimals)
	if err != nil {
		return nil, o.fail(logger, ReasonInvalidAmount,
			apperrors.BadRequestError(err, "Invalid amount"))
	}
	if o.cfg.maxAmount > 0 && req.Amount > o.cfg.maxAmount {
		return nil, o.fail(logger, ReasonAmountLimitExceeded,
			apperrors.BadRequestError(ErrAmountLimitExceeded, fmt.Sprintf("Amount exceeds the limit of %g", o.cfg.maxAmount)))
	}

	o.transition(PhaseSubmitting, nil)

	hash, err := o.ledger.SubmitTransfer(ctx, account, recipient, units, "")
	if err != nil {
		var svcErr *apperrors.ServiceError
		if !errors.As(err, &svcErr) {
			err = apperrors.DependencyError(err, "Transaction failed")
		}
		return nil, o.fail(logger, ReasonSubmissionFailed, err)
	}
	metrics.TransferAmount.WithLabelValues(ledger.NativeSymbol).Observe(req.Amount)
	logger.Info("transfer submitted", zap.String("hash", hash), zap.Uint64("base_units", units))

	o.transition(PhaseRefreshing, func(s *State) { s.LastHash = hash })

	if err := o.wallet.Refresh(ctx); err != nil {
		logger.Warn("wallet refresh after transfer failed", zap.String("hash", hash), zap.Error(err))
	}

	o.transition(PhaseIdle, nil)
	metrics.TransfersTotal.WithLabelValues("success").Inc()
	metrics.TransferDuration.Observe(time.Since(start).Seconds())

	return &Receipt{
		Hash:      hash,
		Amount:    req.Amount,
		BaseUnits: units,
		Recipient: recipient,
	}, nil
}

// fail moves through Failed back to Idle and returns the typed error.
func (o *Orchestrator) fail(logger *zap.Logger, reason Reason, err error) error {
	o.transition(PhaseFailed, func(s *State) {
		s.LastReason = reason
		s.LastError = messageOf(err)
	})
	o.transition(PhaseIdle, nil)

	metrics.TransfersTotal.WithLabelValues(string(reason)).Inc()
	if reason == ReasonSubmissionFailed {
		logger.Error("transfer failed", zap.String("reason", string(reason)), zap.Error(err))
	} else {
		logger.Info("transfer rejected", zap.String("reason", string(reason)), zap.Error(err))
	}
	return &Error{Reason: reason, Err: err}
}

func (o *Orchestrator) transition(to Phase, mutate func(*State)) {
	o.mu.Lock()
	from := o.state.Phase
	o.state.Phase = to
	if to == PhaseValidating {
		o.state.LastReason, o.state.LastError = "", ""
	}
	if mutate != nil {
		mutate(&o.state)
	}
	observers := append([]func(from, to Phase){}, o.observers...)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(from, to)
	}
}

func messageOf(err error) string {
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return err.Error()
}
