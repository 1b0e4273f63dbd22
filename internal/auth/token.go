// Package auth issues and verifies the signed bearer tokens handed out at
// login. Tokens are HMAC-signed JWTs carrying the user id as subject.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yukikurage/task-habit-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// IssuedToken is a signed token and the instant it stops being accepted.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies tokens with one secret and one algorithm.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer from the loaded configuration.
func NewTokenIssuer(cfg *config.Config) (*TokenIssuer, error) {
	method, ok := jwt.GetSigningMethod(cfg.JWTAlgorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.JWTAlgorithm)
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("token secret is empty")
	}
	if cfg.JWTAccessTokenExpireMins <= 0 {
		return nil, errors.New("token expiry must be positive")
	}

	return &TokenIssuer{
		secret: []byte(cfg.JWTSecretKey),
		method: method,
		ttl:    time.Duration(cfg.JWTAccessTokenExpireMins) * time.Minute,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source. Used by tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Issue signs a token for subject that expires after the default TTL.
func (i *TokenIssuer) Issue(subject string) (*IssuedToken, error) {
	return i.IssueWithTTL(subject, i.ttl)
}

// IssueWithTTL signs a token for subject that expires after ttl.
func (i *TokenIssuer) IssueWithTTL(subject string, ttl time.Duration) (*IssuedToken, error) {
	if subject == "" {
		return nil, errors.New("token subject is empty")
	}

	issuedAt := i.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// A token is accepted while now is strictly before its expiry.
func (i *TokenIssuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
