// Package oauth implements the redirect-based authorization-code flow used for
// external sign-in.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

var (
	// ErrCancelled is returned when the user declines or closes the consent screen.
	ErrCancelled = errors.New("Authentication was cancelled by user") //nolint:staticcheck // user-facing text
	// ErrStateMismatch is returned when the redirect carries a state we did not issue.
	ErrStateMismatch = errors.New("oauth state mismatch")
	// ErrMissingCode is returned when the redirect carries neither a code nor an error.
	ErrMissingCode = errors.New("no authorization code received")
	// ErrTokenExchange is returned when the token endpoint rejects the code.
	ErrTokenExchange = errors.New("failed to exchange code for token")
	// ErrUserInfo is returned when the profile cannot be fetched.
	ErrUserInfo = errors.New("failed to get user info")
)

// ProviderError is an error reported by the authorization server in the redirect.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = e.Code
	}
	return "OAuth error: " + msg
}

// Profile is the normalized external user.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// DisplayName returns Name, or given and family name joined.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// Browser opens an authorization URL and returns the URL the provider redirected to.
type Browser interface {
	Open(ctx context.Context, authURL, redirectURI string) (string, error)
}

// BrowserFunc adapts a function to Browser.
type BrowserFunc func(ctx context.Context, authURL, redirectURI string) (string, error)

func (f BrowserFunc) Open(ctx context.Context, authURL, redirectURI string) (string, error) {
	return f(ctx, authURL, redirectURI)
}

// Config holds the client registration and provider endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RevokeURL    string
	Scopes       []string
}

func (c *Config) validate() error {
	switch {
	case c.ClientID == "":
		return errors.New("client_id is required")
	case c.RedirectURI == "":
		return errors.New("redirect_uri is required")
	case c.AuthURL == "" || c.TokenURL == "" || c.UserInfoURL == "":
		return errors.New("auth, token and userinfo urls are required")
	}
	return nil
}

type settings struct {
	logger *zap.Logger
	client *http.Client
}

// Option configures the provider.
type Option func(*settings)

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithHTTPClient overrides the client used for token, userinfo and revoke calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

// Provider runs the authorization-code flow against one provider.
type Provider struct {
	cfg     Config
	browser Browser
	client  *http.Client
	logger  *zap.Logger

	mu          sync.Mutex
	accessToken string
}

// NewProvider creates a provider that drives browser through the consent screen.
func NewProvider(cfg Config, browser Browser, opts ...Option) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid oauth config: %w", err)
	}
	if browser == nil {
		return nil, errors.New("nil browser")
	}
	s := settings{logger: zap.NewNop(), client: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &Provider{
		cfg:     cfg,
		browser: browser,
		client:  s.client,
		logger:  s.logger,
	}, nil
}

// AuthorizationURL builds the consent URL for state.
func (p *Provider) AuthorizationURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(p.cfg.Scopes, " "))
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)

	sep := "?"
	if strings.Contains(p.cfg.AuthURL, "?") {
		sep = "&"
	}
	return p.cfg.AuthURL + sep + q.Encode()
}

// SignIn sends the user through the consent screen and returns their profile.
// The steps run sequentially without retry.
func (p *Provider) SignIn(ctx context.Context) (*Profile, error) {
	state, err := newState()
	if err != nil {
		return nil, err
	}

	redirect, err := p.browser.Open(ctx, p.AuthorizationURL(state), p.cfg.RedirectURI)
	if err != nil {
		return nil, err
	}
	code, err := parseRedirect(redirect, state)
	if err != nil {
		return nil, err
	}

	tok, err := p.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.accessToken = tok.AccessToken
	p.mu.Unlock()

	profile, err := p.userInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" && tok.IDToken != "" {
		if claims, err := profileFromIDToken(tok.IDToken); err == nil {
			mergeProfile(profile, claims)
		} else {
			p.logger.Debug("id_token claims unreadable", zap.Error(err))
		}
	}
	return profile, nil
}

// SignOut revokes the last access token when a revoke endpoint is configured.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.accessToken
	p.accessToken = ""
	p.mu.Unlock()

	if token == "" || p.cfg.RevokeURL == "" {
		return nil
	}

	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revoke token: status %d", resp.StatusCode)
	}
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func (p *Provider) exchange(ctx context.Context, code string) (*tokenResponse, error) {
	form := url.Values{
		"client_id":    {p.cfg.ClientID},
		"code":         {code},
		"grant_type":   {"authorization_code"},
		"redirect_uri": {p.cfg.RedirectURI},
	}
	if p.cfg.ClientSecret != "" {
		form.Set("client_secret", p.cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tok tokenResponse
	if err := p.do(req, &tok); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carries no access token", ErrTokenExchange)
	}
	return &tok, nil
}

type userInfoResponse struct {
	Profile
	Sub string `json:"sub"`
}

func (p *Provider) userInfo(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	var info userInfoResponse
	if err := p.do(req, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	profile := info.Profile
	if profile.ID == "" {
		profile.ID = info.Sub
	}
	return &profile, nil
}

func (p *Provider) do(req *http.Request, dst any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, dst)
}

// parseRedirect extracts the authorization code from the provider redirect.
func parseRedirect(redirect, state string) (string, error) {
	u, err := url.Parse(redirect)
	if err != nil {
		return "", fmt.Errorf("invalid redirect url: %w", err)
	}
	q := u.Query()

	if e := q.Get("error"); e != "" {
		if e == "access_denied" {
			return "", ErrCancelled
		}
		return "", &ProviderError{Code: e, Description: q.Get("error_description")}
	}
	if got := q.Get("state"); got != state {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", ErrMissingCode
	}
	return code, nil
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// profileFromIDToken reads the id_token claims without verifying the signature.
func profileFromIDToken(raw string) (*Profile, error) {
	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}
	return &Profile{
		ID:            claims.Subject,
		Email:         claims.Email,
		VerifiedEmail: claims.EmailVerified,
		Name:          claims.Name,
		GivenName:     claims.GivenName,
		FamilyName:    claims.FamilyName,
		Picture:       claims.Picture,
	}, nil
}

// mergeProfile fills empty fields of dst from src.
func mergeProfile(dst, src *Profile) {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	fill(&dst.ID, src.ID)
	fill(&dst.Email, src.Email)
	fill(&dst.Name, src.Name)
	fill(&dst.GivenName, src.GivenName)
	fill(&dst.FamilyName, src.FamilyName)
	fill(&dst.Picture, src.Picture)
	if !dst.VerifiedEmail {
		dst.VerifiedEmail = src.VerifiedEmail
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
