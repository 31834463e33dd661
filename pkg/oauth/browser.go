package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultCallbackTimeout = 2 * time.Minute

// LoopbackBrowser receives the provider redirect on a local listener.
// The operator opens the logged URL; Opener, when set, is called to launch it.
type LoopbackBrowser struct {
	Timeout time.Duration
	Logger  *zap.Logger
	Opener  func(authURL string) error
}

// Open serves redirectURI's host and path until the first callback arrives,
// the timeout passes or ctx is done.
func (b *LoopbackBrowser) Open(ctx context.Context, authURL, redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid redirect uri %q", redirectURI)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultCallbackTimeout
	}

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return "", fmt.Errorf("listen for oauth callback: %w", err)
	}

	callbacks := make(chan string, 1)
	r := chi.NewRouter()
	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		cb := *u
		cb.RawQuery = req.URL.RawQuery
		select {
		case callbacks <- cb.String():
		default:
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Sign-in complete. You can close this window."))
	})

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("oauth callback listener stopped", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("open this URL to sign in", zap.String("url", authURL))
	if b.Opener != nil {
		if err := b.Opener(authURL); err != nil {
			logger.Warn("failed to open browser", zap.Error(err))
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case cb := <-callbacks:
		return cb, nil
	case <-timer.C:
		return "", ErrCancelled
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
