package server

import (
	"crypto/subtle"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/token"
)

const (
	headerServiceSecret = "X-Service-Secret"

	contextUserIDKey  = "auth.user_id"
	contextIsAdminKey = "auth.is_admin"
)

// ServiceSecretMiddleware rejects any request that does not carry the
// shared service secret. Health, metrics, docs, and the banner stay open
// so probes keep working without credentials.
func ServiceSecretMiddleware(cfg config.Config) gin.HandlerFunc {
	secret := []byte(cfg.ServiceSecret)
	return func(c *gin.Context) {
		if len(secret) == 0 || isExemptPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		got := []byte(c.GetHeader(headerServiceSecret))
		if subtle.ConstantTimeCompare(got, secret) != 1 {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Next()
	}
}

func isExemptPath(path string) bool {
	switch path {
	case "/", "/health", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/api-docs")
}

// AuthRequired verifies the bearer token and stashes the caller identity
// on the request context for the handlers behind it.
func AuthRequired(verifier *token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Set(contextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func callerID(c *gin.Context) (snowflake.ID, bool) {
	raw, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := raw.(int64)
	if !ok || id == 0 {
		return 0, false
	}
	return snowflake.ID(id), true
}
