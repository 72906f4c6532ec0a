package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/sajjaddev-web/desk/internal/auth"
	"github.com/sajjaddev-web/desk/internal/models"
	"github.com/sajjaddev-web/desk/internal/services"
	"github.com/sajjaddev-web/desk/pkg/errors"
	"github.com/sajjaddev-web/desk/pkg/response"
)

const (
	// CtxAccountKey holds the authenticated *models.Account.
	CtxAccountKey = "authAccount"
	// CtxClaimsKey holds the verified *auth.SessionClaims.
	CtxClaimsKey = "authClaims"
)

// Auth enforces session-token authentication. The token identifies the
// account, but the store is still queried so revoked (deleted) and
// not-yet-activated accounts are rejected with current data.
func Auth(tokens *iauth.TokenService, accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.VerifySessionToken(strings.TrimSpace(authz[7:]))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		account, err := accounts.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil || !account.Verified {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxAccountKey, account)

		c.Next()
	}
}

// AccountFromContext returns the authenticated account stashed by Auth.
func AccountFromContext(c *gin.Context) (*models.Account, bool) {
	v, ok := c.Get(CtxAccountKey)
	if !ok {
		return nil, false
	}

	account, ok := v.(*models.Account)
	return account, ok && account != nil
}
