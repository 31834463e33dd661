package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/kvstore"
	"github.com/pesto/remittance-sync/pkg/oauth"
	"github.com/pesto/remittance-sync/pkg/user"
	"github.com/pesto/remittance-sync/pkg/user/service/mocks"
)

type fakeProvider struct {
	SignInFunc  func(ctx context.Context) (*oauth.Profile, error)
	SignOutFunc func(ctx context.Context) error
	signOuts    int
}

func (f *fakeProvider) SignIn(ctx context.Context) (*oauth.Profile, error) {
	return f.SignInFunc(ctx)
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.signOuts++
	if f.SignOutFunc == nil {
		return nil
	}
	return f.SignOutFunc(ctx)
}

func avaRecord(t *testing.T) *user.Record {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pesto123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	created := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	return &user.Record{
		User: user.User{
			ID:        "user-ava",
			Email:     "ava@pesto.dev",
			Name:      "Ava Thompson",
			CreatedAt: created,
			UpdatedAt: created,
		},
		PasswordHash: string(hash),
	}
}

func TestIdentityService_Login(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	dir := mocks.NewDirectory(t)
	dir.EXPECT().FindByEmail(mock.Anything, "ava@pesto.dev").Return(avaRecord(t), nil)

	svc := NewService(store, dir, nil, zap.NewNop())

	u, err := svc.Login(ctx, "Ava@Pesto.dev", "pesto123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.ID != "user-ava" {
		t.Fatalf("expected user-ava, got %s", u.ID)
	}
	if st := svc.State(); !st.Authenticated || st.Loading || st.Error != "" {
		t.Fatalf("unexpected state: %+v", st)
	}

	var persisted user.User
	found, err := kvstore.GetJSON(ctx, store, kvstore.KeyUser, &persisted)
	if err != nil || !found || persisted.ID != "user-ava" {
		t.Fatalf("expected persisted user, got %+v (found=%v, err=%v)", persisted, found, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, found, _ := store.Get(ctx, kvstore.KeyUser); found {
		t.Fatalf("expected persisted user key cleared")
	}
	if st := svc.State(); st.Authenticated || st.User != nil {
		t.Fatalf("expected signed-out state, got %+v", st)
	}
}

func TestIdentityService_Login_WrongCredential(t *testing.T) {
	dir := mocks.NewDirectory(t)
	dir.EXPECT().FindByEmail(mock.Anything, "ava@pesto.dev").Return(avaRecord(t), nil)
	svc := NewService(kvstore.NewMemoryStore(), dir, nil, zap.NewNop())

	_, err := svc.Login(context.Background(), "ava@pesto.dev", "nope")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if !apperrors.Is(err, apperrors.CategoryUnauthorized) {
		t.Fatalf("expected CategoryUnauthorized, got %v", err)
	}
	st := svc.State()
	if st.Authenticated || st.Error != "Login failed. Please check your credentials." {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestIdentityService_Login_WithoutCredential(t *testing.T) {
	dir := mocks.NewDirectory(t)
	dir.EXPECT().FindByEmail(mock.Anything, "ava@pesto.dev").Return(avaRecord(t), nil)
	svc := NewService(kvstore.NewMemoryStore(), dir, nil, zap.NewNop())

	if _, err := svc.Login(context.Background(), "ava@pesto.dev", ""); err != nil {
		t.Fatalf("Login() without credential error = %v", err)
	}
}

func TestIdentityService_Login_NotFound(t *testing.T) {
	dir := mocks.NewDirectory(t)
	dir.EXPECT().FindByEmail(mock.Anything, "ghost@pesto.dev").Return(nil, nil)
	svc := NewService(kvstore.NewMemoryStore(), dir, nil, zap.NewNop())

	_, err := svc.Login(context.Background(), "ghost@pesto.dev", "x")
	if !errors.Is(err, ErrNotFound) || !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityService_Initialize(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	svc := NewService(store, mocks.NewDirectory(t), nil, zap.NewNop())

	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if st := svc.State(); st.Authenticated || st.Loading {
		t.Fatalf("expected unauthenticated state, got %+v", st)
	}

	if err := kvstore.SetJSON(ctx, store, kvstore.KeyUser, &user.User{ID: "user-mason", Email: "mason@pesto.dev"}); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if u := svc.CurrentUser(); u == nil || u.ID != "user-mason" {
		t.Fatalf("expected restored user-mason, got %+v", u)
	}
}

func TestIdentityService_LoginWithProvider(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	p := &fakeProvider{SignInFunc: func(context.Context) (*oauth.Profile, error) {
		return &oauth.Profile{ID: "g-1", Email: "Luna@Pesto.dev", GivenName: "Luna", FamilyName: "Park", Picture: "https://img/l.png"}, nil
	}}
	svc := NewService(store, mocks.NewDirectory(t), p, zap.NewNop())

	u, err := svc.LoginWithProvider(ctx)
	if err != nil {
		t.Fatalf("LoginWithProvider() error = %v", err)
	}
	if u.ID != "g-1" || u.Email != "luna@pesto.dev" || u.Name != "Luna Park" || u.Avatar != "https://img/l.png" {
		t.Fatalf("unexpected mapped user: %+v", u)
	}
	if _, found, _ := store.Get(ctx, kvstore.KeyUser); !found {
		t.Fatalf("expected user persisted")
	}
}

func TestIdentityService_LoginWithProvider_Cancelled(t *testing.T) {
	p := &fakeProvider{SignInFunc: func(context.Context) (*oauth.Profile, error) {
		return nil, oauth.ErrCancelled
	}}
	svc := NewService(kvstore.NewMemoryStore(), mocks.NewDirectory(t), p, zap.NewNop())

	_, err := svc.LoginWithProvider(context.Background())
	if !errors.Is(err, ErrExternalAuth) || !errors.Is(err, oauth.ErrCancelled) {
		t.Fatalf("expected external auth error wrapping cancellation, got %v", err)
	}
	if st := svc.State(); st.Error != "Authentication was cancelled by user" {
		t.Fatalf("unexpected state error %q", st.Error)
	}
}

func TestIdentityService_LoginWithProvider_Disabled(t *testing.T) {
	svc := NewService(kvstore.NewMemoryStore(), mocks.NewDirectory(t), nil, zap.NewNop())

	_, err := svc.LoginWithProvider(context.Background())
	if !apperrors.Is(err, apperrors.CategoryDisabled) {
		t.Fatalf("expected disabled operation, got %v", err)
	}
}

func TestIdentityService_Logout_ProviderFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	_ = kvstore.SetJSON(ctx, store, kvstore.KeyUser, &user.User{ID: "user-ava"})

	p := &fakeProvider{SignOutFunc: func(context.Context) error { return errors.New("network down") }}
	svc := NewService(store, mocks.NewDirectory(t), p, zap.NewNop())
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if p.signOuts != 1 {
		t.Fatalf("expected provider sign-out attempt")
	}
	if svc.CurrentUser() != nil {
		t.Fatalf("expected local sign-out")
	}
}

func TestIdentityService_Signup(t *testing.T) {
	ctx := context.Background()
	dir := mocks.NewDirectory(t)
	dir.EXPECT().Create(mock.Anything, mock.MatchedBy(func(rec *user.Record) bool {
		return rec.User.Email == "new@pesto.dev" &&
			bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("secret1")) == nil
	})).Return(nil).Once()

	svc := NewService(kvstore.NewMemoryStore(), dir, nil, zap.NewNop())

	u, err := svc.Signup(ctx, "New User", "New@pesto.dev", "secret1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if u.ID == "" || u.Name != "New User" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !svc.State().Authenticated {
		t.Fatalf("expected signed in after signup")
	}
}

func TestIdentityService_Signup_Validation(t *testing.T) {
	svc := NewService(kvstore.NewMemoryStore(), mocks.NewDirectory(t), nil, zap.NewNop())

	tests := []struct {
		name, email, password string
	}{
		{"", "a@pesto.dev", "secret1"},
		{"A", "not-an-email", "secret1"},
		{"A", "a@pesto.dev", "short"},
	}
	for _, tt := range tests {
		_, err := svc.Signup(context.Background(), tt.name, tt.email, tt.password)
		if !apperrors.Is(err, apperrors.CategoryDataError) {
			t.Fatalf("Signup(%q, %q) expected bad request, got %v", tt.name, tt.email, err)
		}
	}
	if st := svc.State(); st.Error != "Signup failed. Please try again." {
		t.Fatalf("unexpected state error %q", st.Error)
	}
}

func TestIdentityService_Signup_Duplicate(t *testing.T) {
	dir := mocks.NewDirectory(t)
	dir.EXPECT().Create(mock.Anything, mock.Anything).Return(user.ErrAlreadyExists).Once()
	svc := NewService(kvstore.NewMemoryStore(), dir, nil, zap.NewNop())

	_, err := svc.Signup(context.Background(), "Ava", "ava@pesto.dev", "pesto123")
	if !errors.Is(err, ErrUserExists) || !apperrors.Is(err, apperrors.CategoryDataConflict) {
		t.Fatalf("expected ErrUserExists conflict, got %v", err)
	}
}

func TestIdentityService_ForgotPassword(t *testing.T) {
	dir := mocks.NewDirectory(t)
	dir.EXPECT().FindByEmail(mock.Anything, "ghost@pesto.dev").Return(nil, nil).Once()
	svc := NewService(kvstore.NewMemoryStore(), dir, nil, zap.NewNop())

	if err := svc.ForgotPassword(context.Background(), "ghost@pesto.dev"); err != nil {
		t.Fatalf("unknown identifiers must not be revealed, got %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), "nope"); !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected bad request for malformed email, got %v", err)
	}
}
