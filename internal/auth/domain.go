package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrNoSession    = errors.New("no session")
)

// SessionClaims is the subset of the provider's access token the front end relies on.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session is the authenticated caller of one request.
type Session struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil || s.Email == "" {
		return nil, ErrNoSession
	}
	return s, nil
}
