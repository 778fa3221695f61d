package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/example/garment-storefront/internal/auth"
)

type localUser struct {
	User
	passwordHash string
}

// LocalProvider is an in-process stand-in for the identity service so
// the storefront runs without it during development and in tests. New
// sign-ups get the buyer role; manager and admin accounts are seeded.
type LocalProvider struct {
	mu    sync.Mutex
	users map[string]*localUser // keyed by email
	jwt   *auth.JWTService
}

func NewLocalProvider(jwtService *auth.JWTService) *LocalProvider {
	return &LocalProvider{
		users: make(map[string]*localUser),
		jwt:   jwtService,
	}
}

// Seed registers an account with an explicit role, for dev fixtures.
func (p *LocalProvider) Seed(email, password, name string, role auth.Role) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[email] = &localUser{
		User: User{
			ID:    uuid.New().String(),
			Email: email,
			Name:  name,
			Role:  role,
		},
		passwordHash: hash,
	}
	return nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if _, exists := p.users[email]; exists {
		p.mu.Unlock()
		return nil, ErrEmailTaken
	}
	user := &localUser{
		User: User{
			ID:    uuid.New().String(),
			Email: email,
			Name:  name,
			Role:  auth.RoleBuyer,
		},
		passwordHash: hash,
	}
	p.users[email] = user
	p.mu.Unlock()

	return p.issueSession(user)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	user, exists := p.users[email]
	p.mu.Unlock()

	if !exists || !auth.CheckPassword(password, user.passwordHash) {
		return nil, ErrInvalidCredentials
	}

	return p.issueSession(user)
}

// SocialSignIn accepts any non-empty token and derives a buyer account
// from it. Real token verification belongs to the remote provider.
func (p *LocalProvider) SocialSignIn(ctx context.Context, provider, token string) (*Session, error) {
	if provider == "" || token == "" {
		return nil, ErrInvalidCredentials
	}

	email := provider + "-user@social.local"

	p.mu.Lock()
	user, exists := p.users[email]
	if !exists {
		user = &localUser{
			User: User{
				ID:    uuid.New().String(),
				Email: email,
				Name:  "Social User",
				Role:  auth.RoleBuyer,
			},
		}
		p.users[email] = user
	}
	p.mu.Unlock()

	return p.issueSession(user)
}

func (p *LocalProvider) issueSession(user *localUser) (*Session, error) {
	access, accessExp, err := p.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := p.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{
		User: user.User,
		Tokens: TokenPair{
			AccessToken:      access,
			RefreshToken:     refresh,
			AccessExpiresAt:  accessExp,
			RefreshExpiresAt: refreshExp,
		},
	}, nil
}
