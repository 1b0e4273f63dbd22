package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-habit-api/internal/testutil"
)

var issuedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testutil.NewConfig())
	require.NoError(t, err)
	return issuer.WithClock(testutil.FixedClock(now))
}

func TestNewTokenIssuer_RejectsBadConfig(t *testing.T) {
	cfg := testutil.NewConfig()
	cfg.JWTAlgorithm = "RS256"
	_, err := NewTokenIssuer(cfg)
	assert.Error(t, err)

	cfg = testutil.NewConfig()
	cfg.JWTSecretKey = ""
	_, err = NewTokenIssuer(cfg)
	assert.Error(t, err)

	cfg = testutil.NewConfig()
	cfg.JWTAccessTokenExpireMins = 0
	_, err = NewTokenIssuer(cfg)
	assert.Error(t, err)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	issuer := newIssuer(t, issuedAt)

	token, err := issuer.Issue("42")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(60*time.Minute), token.ExpiresAt)

	subject, err := issuer.Verify(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestVerify_Expiry(t *testing.T) {
	issuer := newIssuer(t, issuedAt)
	token, err := issuer.IssueWithTTL("42", time.Minute)
	require.NoError(t, err)

	justBefore := newIssuer(t, issuedAt.Add(59*time.Second))
	subject, err := justBefore.Verify(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)

	atExpiry := newIssuer(t, issuedAt.Add(time.Minute))
	_, err = atExpiry.Verify(token.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	after := newIssuer(t, issuedAt.Add(time.Hour))
	_, err = after.Verify(token.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_RejectsTampering(t *testing.T) {
	issuer := newIssuer(t, issuedAt)
	token, err := issuer.Issue("42")
	require.NoError(t, err)

	cfg := testutil.NewConfig()
	cfg.JWTSecretKey = "another-secret"
	other, err := NewTokenIssuer(cfg)
	require.NoError(t, err)
	other.WithClock(testutil.FixedClock(issuedAt))

	_, err = other.Verify(token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(token.Token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithm(t *testing.T) {
	issuer := newIssuer(t, issuedAt)

	claims := jwt.RegisteredClaims{
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	issuer := newIssuer(t, issuedAt)

	claims := jwt.RegisteredClaims{Subject: "42"}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
