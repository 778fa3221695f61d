package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/example/garment-storefront/internal/api/middleware"
	"github.com/example/garment-storefront/internal/auth"
	"github.com/example/garment-storefront/internal/identity"
)

type AuthHandlers struct {
	provider identity.Provider
}

func NewAuthHandlers(provider identity.Provider) *AuthHandlers {
	return &AuthHandlers{provider: provider}
}

func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.provider.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	setSessionCookies(w, session.Tokens)
	respondJSON(w, http.StatusCreated, session)
}

func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	setSessionCookies(w, session.Tokens)
	respondJSON(w, http.StatusOK, session)
}

func (h *AuthHandlers) SocialSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		Token    string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Provider == "" {
		respondError(w, "provider is required", http.StatusBadRequest)
		return
	}

	session, err := h.provider.SocialSignIn(r.Context(), req.Provider, req.Token)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	setSessionCookies(w, session.Tokens)
	respondJSON(w, http.StatusOK, session)
}

func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	clearSessionCookies(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me reports the claims of the current session.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":    claims.UserID,
		"email": claims.Email,
		"role":  claims.Role,
	})
}

func respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		respondError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, identity.ErrEmailTaken):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrPasswordTooShort):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "identity provider unavailable", http.StatusBadGateway)
	}
}

func setSessionCookies(w http.ResponseWriter, tokens identity.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    tokens.RefreshToken,
		Path:     "/auth",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, c := range []struct{ name, path string }{
		{"access_token", "/"},
		{"refresh_token", "/auth"},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
