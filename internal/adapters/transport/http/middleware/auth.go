package middleware

import (
	"net/http"
	"strings"

	appsvc "github.com/campushq/account-service/internal/app/account/service"
	accountErrors "github.com/campushq/account-service/internal/domain/account/errors"
	"github.com/campushq/account-service/internal/domain/account/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accountKey = "auth.account"

// Authenticated resolves the bearer access token to an account once per
// request and stashes it in the context for handlers. Every failure mode
// (missing header, bad signature, expired, wrong kind, unknown subject,
// revoked version) produces the same 401 body; the reason only reaches the
// log.
func Authenticated(svc appsvc.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthenticated(c)
			return
		}

		acct, err := svc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			// a repository outage is not the caller's fault; keep it out
			// of the unauthenticated bucket
			if accountErrors.IsInternal(err) {
				log.Error("authentication lookup failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			log.Warn("authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			unauthenticated(c)
			return
		}

		c.Set(accountKey, acct)
		c.Next()
	}
}

// CurrentAccount returns the account resolved by Authenticated.
func CurrentAccount(c *gin.Context) (model.Account, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return model.Account{}, false
	}
	acct, ok := v.(model.Account)
	return acct, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
}
