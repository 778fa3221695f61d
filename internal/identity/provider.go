// Package identity wraps the external identity provider at its
// interface boundary: sign-up, sign-in and social token exchange. The
// storefront never stores credentials itself; it only holds the session
// tokens the provider issues.
package identity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/example/garment-storefront/internal/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// User is the profile the provider reports for a session.
type User struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  auth.Role `json:"role"`
}

// TokenPair is the session token set issued on sign-in.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Session is a signed-in user plus their tokens.
type Session struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Provider is the identity service boundary.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SocialSignIn exchanges a third-party provider token (e.g. Google)
	// for a storefront session.
	SocialSignIn(ctx context.Context, provider, token string) (*Session, error)
}

// HTTPProvider talks to the remote identity service.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	return p.post(ctx, "/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return p.post(ctx, "/signin", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (p *HTTPProvider) SocialSignIn(ctx context.Context, provider, token string) (*Session, error) {
	return p.post(ctx, "/social", map[string]string{
		"provider": provider,
		"token":    token,
	})
}

func (p *HTTPProvider) post(ctx context.Context, path string, body map[string]string) (*Session, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidCredentials
	case http.StatusConflict:
		return nil, ErrEmailTaken
	default:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	return &session, nil
}
