package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, opts ...func(*TokenConfig)) *TokenService {
	t.Helper()

	cfg := TokenConfig{
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
		Issuer:           "desk-test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc, err := NewTokenService(cfg)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresDistinctSecrets(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)

	_, err = NewTokenService(TokenConfig{SessionSecret: "a"})
	require.Error(t, err)

	_, err = NewTokenService(TokenConfig{SessionSecret: "same", ActivationSecret: "same"})
	require.ErrorContains(t, err, "must differ")
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueSessionToken(42, "alice", "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.VerifySessionToken(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.AccountID)
	require.Equal(t, "alice", claims.Name)
	require.Equal(t, "alice@example.com", claims.Email)
}

func TestActivationTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueActivationToken(7)
	require.NoError(t, err)

	claims, err := svc.VerifyActivationToken(token)
	require.NoError(t, err)
	require.Equal(t, uint(7), claims.AccountID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := newTestTokenService(t)

	session, err := svc.IssueSessionToken(1, "alice", "alice@example.com")
	require.NoError(t, err)
	activation, err := svc.IssueActivationToken(1)
	require.NoError(t, err)

	_, err = svc.VerifyActivationToken(session)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifySessionToken(activation)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	issuer := newTestTokenService(t)
	verifier := newTestTokenService(t, func(cfg *TokenConfig) {
		cfg.ActivationSecret = "a-different-secret"
	})

	token, err := issuer.IssueActivationToken(9)
	require.NoError(t, err)

	_, err = verifier.VerifyActivationToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	svc := newTestTokenService(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.VerifySessionToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	issuer := newTestTokenService(t, func(cfg *TokenConfig) {
		cfg.Clock = func() time.Time { return past }
	})
	verifier := newTestTokenService(t)

	token, err := issuer.IssueActivationToken(3)
	require.NoError(t, err)

	_, err = verifier.VerifyActivationToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	issuer := newTestTokenService(t, func(cfg *TokenConfig) {
		cfg.Issuer = "someone-else"
	})
	verifier := newTestTokenService(t)

	token, err := issuer.IssueSessionToken(5, "bob", "bob@example.com")
	require.NoError(t, err)

	_, err = verifier.VerifySessionToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRequiresAccountID(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.IssueSessionToken(0, "x", "x@example.com")
	require.Error(t, err)

	_, err = svc.IssueActivationToken(0)
	require.Error(t, err)
}
