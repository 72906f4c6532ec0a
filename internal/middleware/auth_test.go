package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/sajjaddev-web/desk/internal/auth"
	"github.com/sajjaddev-web/desk/internal/database/testutil"
	"github.com/sajjaddev-web/desk/internal/services"
)

func newAuthFixture(t *testing.T) (*iauth.TokenService, *services.AccountService, gin.HandlerFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
	})
	require.NoError(t, err)

	accounts, err := services.NewAccountService(db, tokens, nil)
	require.NoError(t, err)

	return tokens, accounts, Auth(tokens, accounts)
}

func performProtected(t *testing.T, handler gin.HandlerFunc, authz string) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.GET("/protected", handler, func(c *gin.Context) {
		account, ok := AccountFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"name": account.Name})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	_, _, handler := newAuthFixture(t)

	for _, authz := range []string{"", "Basic abc", "Bearer", "Bearer "} {
		rec := performProtected(t, handler, authz)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "authz %q", authz)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	_, _, handler := newAuthFixture(t)

	rec := performProtected(t, handler, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAuthRejectsUnverifiedAccount(t *testing.T) {
	_, accounts, handler := newAuthFixture(t)

	result, err := accounts.Register(context.Background(), services.RegisterInput{
		Name: "alice", Email: "a@x.com", Password: "Aa1!aa",
	})
	require.NoError(t, err)

	rec := performProtected(t, handler, "Bearer "+result.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAcceptsVerifiedAccount(t *testing.T) {
	_, accounts, handler := newAuthFixture(t)

	result, err := accounts.Register(context.Background(), services.RegisterInput{
		Name: "alice", Email: "a@x.com", Password: "Aa1!aa",
	})
	require.NoError(t, err)

	_, err = accounts.Activate(context.Background(), result.ActivationToken)
	require.NoError(t, err)

	rec := performProtected(t, handler, "Bearer "+result.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice")
}

func TestAuthRejectsDeletedAccount(t *testing.T) {
	_, accounts, handler := newAuthFixture(t)

	result, err := accounts.Register(context.Background(), services.RegisterInput{
		Name: "alice", Email: "a@x.com", Password: "Aa1!aa",
	})
	require.NoError(t, err)

	_, err = accounts.Activate(context.Background(), result.ActivationToken)
	require.NoError(t, err)

	claims, err := mustTokens(t).VerifySessionToken(result.Token)
	require.NoError(t, err)
	require.NoError(t, accounts.Delete(context.Background(), claims.AccountID))

	rec := performProtected(t, handler, "Bearer "+result.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func mustTokens(t *testing.T) *iauth.TokenService {
	t.Helper()

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
	})
	require.NoError(t, err)
	return tokens
}
