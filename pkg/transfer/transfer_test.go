package transfer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/ledger"
)

var (
	friendAddr   = "0x" + strings.Repeat("11", 32)
	strangerAddr = "0x" + strings.Repeat("44", 32)
)

type fakeLedger struct {
	active     *ledger.Account
	submits    atomic.Int64
	SubmitFunc func(ctx context.Context, to string, amount uint64) (string, error)
}

func (f *fakeLedger) ActiveAccount() *ledger.Account { return f.active }

func (f *fakeLedger) SubmitTransfer(ctx context.Context, _ *ledger.Account, to string, amount uint64, _ string) (string, error) {
	f.submits.Add(1)
	if f.SubmitFunc == nil {
		return "0xabc", nil
	}
	return f.SubmitFunc(ctx, to, amount)
}

type recipientSet map[string]bool

func (r recipientSet) CanSendMoney(address string) bool { return r[address] }

type refresherFunc func(ctx context.Context) error

func (f refresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

func testAccount(t *testing.T) *ledger.Account {
	t.Helper()
	a, err := ledger.GenerateAccount(bytes.NewReader(bytes.Repeat([]byte{3}, 32)))
	if err != nil {
		t.Fatalf("GenerateAccount() error = %v", err)
	}
	return a
}

func noRefresh(context.Context) error { return nil }

func TestSend_Success(t *testing.T) {
	fl := &fakeLedger{
		active: testAccount(t),
		SubmitFunc: func(_ context.Context, to string, amount uint64) (string, error) {
			if to != friendAddr || amount != 150_000_000 {
				t.Errorf("unexpected submit to=%s amount=%d", to, amount)
			}
			return "0xfeed", nil
		},
	}
	var refreshed int
	o := NewOrchestrator(fl, recipientSet{friendAddr: true}, refresherFunc(func(context.Context) error {
		refreshed++
		return nil
	}))

	var phases []Phase
	o.OnTransition(func(_, to Phase) { phases = append(phases, to) })

	receipt, err := o.Send(context.Background(), Request{RecipientAddress: friendAddr, Amount: 1.5})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if receipt.Hash != "0xfeed" || receipt.BaseUnits != 150_000_000 || receipt.Recipient != friendAddr {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", refreshed)
	}

	want := []Phase{PhaseValidating, PhaseSubmitting, PhaseRefreshing, PhaseIdle}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
	}
	if st := o.State(); st.Phase != PhaseIdle || st.LastHash != "0xfeed" || st.LastReason != "" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSend_ValidationRejectsBeforeSubmit(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		req      Request
		opts     []Option
		reason   Reason
		category apperrors.Category
	}{
		{
			name:     "no account",
			req:      Request{RecipientAddress: friendAddr, Amount: 1},
			reason:   ReasonNoActiveAccount,
			category: apperrors.CategoryDataError,
		},
		{
			name:     "not a friend",
			active:   true,
			req:      Request{RecipientAddress: strangerAddr, Amount: 10},
			reason:   ReasonRecipientNotAuthorized,
			category: apperrors.CategoryForbidden,
		},
		{
			name:     "zero amount",
			active:   true,
			req:      Request{RecipientAddress: friendAddr, Amount: 0},
			reason:   ReasonInvalidAmount,
			category: apperrors.CategoryDataError,
		},
		{
			name:     "negative amount",
			active:   true,
			req:      Request{RecipientAddress: friendAddr, Amount: -3},
			reason:   ReasonInvalidAmount,
			category: apperrors.CategoryDataError,
		},
		{
			name:     "below smallest unit",
			active:   true,
			req:      Request{RecipientAddress: friendAddr, Amount: 0.000000001},
			reason:   ReasonInvalidAmount,
			category: apperrors.CategoryDataError,
		},
		{
			name:     "over limit",
			active:   true,
			req:      Request{RecipientAddress: friendAddr, Amount: 500},
			opts:     []Option{WithMaxAmount(100)},
			reason:   ReasonAmountLimitExceeded,
			category: apperrors.CategoryDataError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fl := &fakeLedger{}
			if tt.active {
				fl.active = testAccount(t)
			}
			o := NewOrchestrator(fl, recipientSet{friendAddr: true}, refresherFunc(noRefresh), tt.opts...)

			var phases []Phase
			o.OnTransition(func(_, to Phase) { phases = append(phases, to) })

			_, err := o.Send(context.Background(), tt.req)
			reason, ok := ReasonOf(err)
			if !ok || reason != tt.reason {
				t.Fatalf("expected reason %s, got %v", tt.reason, err)
			}
			if !apperrors.Is(err, tt.category) {
				t.Fatalf("expected category %s, got %v", tt.category, err)
			}
			if n := fl.submits.Load(); n != 0 {
				t.Fatalf("expected no submit, got %d", n)
			}
			if len(phases) != 3 || phases[1] != PhaseFailed || phases[2] != PhaseIdle {
				t.Fatalf("unexpected phases %v", phases)
			}
			if st := o.State(); st.LastReason != tt.reason || st.LastError == "" {
				t.Fatalf("unexpected state %+v", st)
			}
		})
	}
}

func TestSend_SubmissionFailure(t *testing.T) {
	fl := &fakeLedger{
		active: testAccount(t),
		SubmitFunc: func(context.Context, string, uint64) (string, error) {
			return "", apperrors.DependencyError(errors.New("connection reset"), "failed to submit transfer")
		},
	}
	refreshed := false
	o := NewOrchestrator(fl, recipientSet{friendAddr: true}, refresherFunc(func(context.Context) error {
		refreshed = true
		return nil
	}))

	_, err := o.Send(context.Background(), Request{RecipientAddress: friendAddr, Amount: 2})
	if reason, _ := ReasonOf(err); reason != ReasonSubmissionFailed {
		t.Fatalf("expected SubmissionFailed, got %v", err)
	}
	if !apperrors.Is(err, apperrors.CategoryDependencyFailure) {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if refreshed {
		t.Fatal("wallet must not refresh after a failed submission")
	}
	if st := o.State(); st.Phase != PhaseIdle || st.LastError != "failed to submit transfer" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSend_DisabledSubmission(t *testing.T) {
	fl := &fakeLedger{
		active: testAccount(t),
		SubmitFunc: func(context.Context, string, uint64) (string, error) {
			return "", apperrors.DisabledOperationError(ledger.ErrSubmissionDisabled, "transfer submission is disabled")
		},
	}
	o := NewOrchestrator(fl, recipientSet{friendAddr: true}, refresherFunc(noRefresh))

	_, err := o.Send(context.Background(), Request{RecipientAddress: friendAddr, Amount: 2})
	if !errors.Is(err, ledger.ErrSubmissionDisabled) || !apperrors.Is(err, apperrors.CategoryDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestSend_RefreshFailureStillSucceeds(t *testing.T) {
	fl := &fakeLedger{active: testAccount(t)}
	o := NewOrchestrator(fl, recipientSet{friendAddr: true}, refresherFunc(func(context.Context) error {
		return errors.New("node unavailable")
	}))

	receipt, err := o.Send(context.Background(), Request{RecipientAddress: friendAddr, Amount: 1})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if receipt.Hash != "0xabc" {
		t.Fatalf("unexpected hash %s", receipt.Hash)
	}
}
