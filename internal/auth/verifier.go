package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Verifier struct {
	secret   []byte
	devEmail string
	leeway   time.Duration
}

// NewVerifier checks access tokens signed with secret. With an empty secret every token is
// rejected unless devEmail is set, in which case devEmail is the owner of every request.
func NewVerifier(secret, devEmail string) *Verifier {
	return &Verifier{secret: []byte(secret), devEmail: strings.TrimSpace(devEmail), leeway: 30 * time.Second}
}

func (v *Verifier) DevMode() bool { return len(v.secret) == 0 && v.devEmail != "" }

// Verify returns the owner e-mail of the token. All failures wrap ErrTokenInvalid.
func (v *Verifier) Verify(token string) (string, error) {
	if v.DevMode() {
		return v.devEmail, nil
	}
	if len(v.secret) == 0 {
		return "", fmt.Errorf("%w: no verification secret configured", ErrTokenInvalid)
	}
	if token == "" {
		return "", fmt.Errorf("%w: token is empty", ErrTokenInvalid)
	}

	var claims SessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return "", fmt.Errorf("%w: missing email claim", ErrTokenInvalid)
	}
	return email, nil
}
