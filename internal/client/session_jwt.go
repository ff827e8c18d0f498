package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"feedback-board-api/internal/domain"
)

// DefaultSessionCookie is the cookie the identity provider stores its session token in
const DefaultSessionCookie = "session_token"

// SessionClaims is the payload of a provider-issued session token
type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// JWTSessionVerifier verifies HS256 session tokens with a secret shared with
// the identity provider
type JWTSessionVerifier struct {
	secret []byte
	cookie string
}

// NewJWTSessionVerifier creates a verifier. cookie defaults to DefaultSessionCookie.
func NewJWTSessionVerifier(secret, cookie string) *JWTSessionVerifier {
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	return &JWTSessionVerifier{secret: []byte(secret), cookie: cookie}
}

// Resolve reads the token from the session cookie, then from a Bearer header
func (v *JWTSessionVerifier) Resolve(_ context.Context, r *http.Request) (*domain.Session, error) {
	token := sessionToken(r, v.cookie)
	if token == "" {
		return nil, nil
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.Subject == "" {
		return nil, errors.New("session token has no subject")
	}

	return &domain.Session{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Image: claims.Picture,
	}, nil
}

// sessionToken extracts the raw token, preferring the cookie
func sessionToken(r *http.Request, cookie string) string {
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
