package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/kvstore"
	"github.com/pesto/remittance-sync/pkg/oauth"
	"github.com/pesto/remittance-sync/pkg/user"
)

// User-facing error texts recorded in State.Error
const (
	msgInitFailed   = "Failed to initialize authentication"
	msgLoginFailed  = "Login failed. Please check your credentials."
	msgSignupFailed = "Signup failed. Please try again."
	msgLogoutFailed = "Logout failed"
	msgResetFailed  = "Failed to send reset email"
	msgOAuthFailed  = "External sign-in failed"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrExternalAuth      = errors.New("external authentication failed")
	ErrUserExists        = errors.New("user already exists")
	ErrProviderDisabled  = errors.New("external sign-in is not configured")
)

// Directory resolves and registers users.
//
//go:generate mockery --name Directory --output mocks --outpkg mocks --filename mock_directory.go --with-expecter
type Directory interface {
	// FindByEmail returns nil when no user has the email.
	FindByEmail(ctx context.Context, email string) (*user.Record, error)
	// Create returns user.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, rec *user.Record) error
}

// ExternalProvider signs users in through a third party.
type ExternalProvider interface {
	SignIn(ctx context.Context) (*oauth.Profile, error)
	SignOut(ctx context.Context) error
}

// Service defines the identity store operations
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, identifier, credential string) (*user.User, error)
	LoginWithProvider(ctx context.Context) (*user.User, error)
	Signup(ctx context.Context, name, identifier, credential string) (*user.User, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, identifier string) error
	CurrentUser() *user.User
	State() user.AuthState
}

type identityService struct {
	store     kvstore.Store
	directory Directory
	provider  ExternalProvider
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	// op serializes operations; mu guards state.
	op    sync.Mutex
	mu    sync.RWMutex
	state user.AuthState
}

// NewService creates the identity service. provider may be nil when external sign-in is off.
func NewService(store kvstore.Store, directory Directory, provider ExternalProvider, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &identityService{
		store:     store,
		directory: directory,
		provider:  provider,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Initialize restores the persisted user. With none stored the state stays unauthenticated.
func (s *identityService) Initialize(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()
	s.begin()

	var u user.User
	found, err := kvstore.GetJSON(ctx, s.store, kvstore.KeyUser, &u)
	if err != nil {
		s.fail(msgInitFailed)
		return fmt.Errorf("failed to load persisted user: %w", err)
	}
	if !found {
		s.set(nil)
		return nil
	}
	s.set(&u)
	return nil
}

// Login resolves identifier in the directory. A non-empty credential must match.
func (s *identityService) Login(ctx context.Context, identifier, credential string) (*user.User, error) {
	s.op.Lock()
	defer s.op.Unlock()
	s.begin()

	u, err := s.login(ctx, identifier, credential)
	if err != nil {
		s.fail(msgLoginFailed)
		return nil, err
	}
	s.set(u)
	return u, nil
}

func (s *identityService) login(ctx context.Context, identifier, credential string) (*user.User, error) {
	email := user.NormalizeEmail(identifier)
	if email == "" {
		return nil, apperrors.BadRequestError(nil, "email is required")
	}

	rec, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if rec == nil {
		return nil, apperrors.ResourceNotFoundError(ErrNotFound, "user not found")
	}
	if credential != "" && rec.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(credential)); err != nil {
			return nil, apperrors.UnAuthorizedError(ErrInvalidCredential, "invalid credentials")
		}
	}

	u := rec.User
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyUser, &u); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	return &u, nil
}

// LoginWithProvider signs in through the external provider and persists the mapped user.
func (s *identityService) LoginWithProvider(ctx context.Context) (*user.User, error) {
	s.op.Lock()
	defer s.op.Unlock()

	if s.provider == nil {
		return nil, apperrors.DisabledOperationError(ErrProviderDisabled, "external sign-in is not configured")
	}
	s.begin()

	profile, err := s.provider.SignIn(ctx)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = msgOAuthFailed
		}
		s.fail(msg)
		return nil, apperrors.UnAuthorizedError(fmt.Errorf("%w: %w", ErrExternalAuth, err), msg)
	}

	now := s.now()
	u := user.New(profile.ID, profile.Email, profile.DisplayName(), now)
	u.Avatar = profile.Picture
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyUser, u); err != nil {
		s.fail(msgOAuthFailed)
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	s.set(u)
	return u, nil
}

// Signup registers a new user in the directory and signs them in.
func (s *identityService) Signup(ctx context.Context, name, identifier, credential string) (*user.User, error) {
	s.op.Lock()
	defer s.op.Unlock()
	s.begin()

	u, err := s.signup(ctx, name, identifier, credential)
	if err != nil {
		s.fail(msgSignupFailed)
		return nil, err
	}
	s.set(u)
	return u, nil
}

func (s *identityService) signup(ctx context.Context, name, identifier, credential string) (*user.User, error) {
	req := user.SignupRequest{
		Name:     strings.TrimSpace(name),
		Email:    user.NormalizeEmail(identifier),
		Password: credential,
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "name, a valid email and a password of at least 6 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	u := user.New(uuid.NewString(), req.Email, req.Name, s.now())
	if err := s.directory.Create(ctx, &user.Record{User: *u, PasswordHash: string(hash)}); err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return nil, apperrors.ConflictError(ErrUserExists, "user already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyUser, u); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	return u, nil
}

// Logout clears the persisted user. The provider sign-out is best-effort.
func (s *identityService) Logout(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()
	s.begin()

	if s.provider != nil {
		if err := s.provider.SignOut(ctx); err != nil {
			s.logger.Warn("external sign-out failed", zap.Error(err))
		}
	}

	if err := s.store.Remove(ctx, kvstore.KeyUser); err != nil {
		s.fail(msgLogoutFailed)
		return fmt.Errorf("failed to clear persisted user: %w", err)
	}
	s.set(nil)
	return nil
}

// ForgotPassword records a reset request. Unknown identifiers are not revealed.
func (s *identityService) ForgotPassword(ctx context.Context, identifier string) error {
	s.op.Lock()
	defer s.op.Unlock()
	s.begin()

	req := user.ForgotPasswordRequest{Email: user.NormalizeEmail(identifier)}
	if err := s.validate.Struct(req); err != nil {
		s.fail(msgResetFailed)
		return apperrors.BadRequestError(err, "a valid email is required")
	}

	rec, err := s.directory.FindByEmail(ctx, req.Email)
	if err != nil {
		s.fail(msgResetFailed)
		return fmt.Errorf("failed to look up user: %w", err)
	}
	s.logger.Info("password reset requested",
		zap.String("email", req.Email),
		zap.Bool("known", rec != nil),
	)

	s.mu.Lock()
	s.state.Loading = false
	s.mu.Unlock()
	return nil
}

func (s *identityService) CurrentUser() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *identityService) State() user.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *identityService) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

// set replaces the user; nil signs out.
func (s *identityService) set(u *user.User) {
	s.mu.Lock()
	s.state = user.AuthState{User: u, Authenticated: u != nil}
	s.mu.Unlock()
}

// fail keeps the current user and records msg.
func (s *identityService) fail(msg string) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = msg
	s.mu.Unlock()
}
