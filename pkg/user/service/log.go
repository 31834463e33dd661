package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pesto/remittance-sync/pkg/user"
)

const serviceName = "IdentityService"

// logService wraps Service with automatic logging of all mutating calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the identity Service.
// Credentials are never logged.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Initialize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		ls.done("Initialize", start, err, zap.Bool("authenticated", ls.svc.State().Authenticated))
	}()
	return ls.svc.Initialize(ctx)
}

func (ls *logService) Login(ctx context.Context, identifier, credential string) (u *user.User, err error) {
	start := time.Now()
	ls.logger.Info("Login started",
		zap.String("service", serviceName),
		zap.String("method", "Login"),
		zap.String("email", user.NormalizeEmail(identifier)),
		zap.Bool("has_credential", credential != ""),
	)
	defer func() { ls.done("Login", start, err, userField(u)) }()
	return ls.svc.Login(ctx, identifier, credential)
}

func (ls *logService) LoginWithProvider(ctx context.Context) (u *user.User, err error) {
	start := time.Now()
	ls.logger.Info("LoginWithProvider started",
		zap.String("service", serviceName),
		zap.String("method", "LoginWithProvider"),
	)
	defer func() { ls.done("LoginWithProvider", start, err, userField(u)) }()
	return ls.svc.LoginWithProvider(ctx)
}

func (ls *logService) Signup(ctx context.Context, name, identifier, credential string) (u *user.User, err error) {
	start := time.Now()
	ls.logger.Info("Signup started",
		zap.String("service", serviceName),
		zap.String("method", "Signup"),
		zap.String("email", user.NormalizeEmail(identifier)),
	)
	defer func() { ls.done("Signup", start, err, userField(u)) }()
	return ls.svc.Signup(ctx, name, identifier, credential)
}

func (ls *logService) Logout(ctx context.Context) (err error) {
	start := time.Now()
	prev := ls.svc.CurrentUser()
	defer func() { ls.done("Logout", start, err, userField(prev)) }()
	return ls.svc.Logout(ctx)
}

func (ls *logService) ForgotPassword(ctx context.Context, identifier string) (err error) {
	start := time.Now()
	defer func() { ls.done("ForgotPassword", start, err) }()
	return ls.svc.ForgotPassword(ctx, identifier)
}

func (ls *logService) CurrentUser() *user.User {
	return ls.svc.CurrentUser()
}

func (ls *logService) State() user.AuthState {
	return ls.svc.State()
}

func (ls *logService) done(method string, start time.Time, err error, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		ls.logger.Error(method+" failed", append(base, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", append(base, fields...)...)
}

func userField(u *user.User) zap.Field {
	if u == nil {
		return zap.Skip()
	}
	return zap.String("user_id", u.ID)
}
