package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerAuth guards the API with a single static token. An empty configured
// token disables the check, which is only sensible in local development.
func BearerAuth(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		presented := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			Error(c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CronSecret guards the externally triggered cron endpoints with the
// X-Cron-Secret header.
func CronSecret(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		if secret == "" {
			Error(c, http.StatusForbidden, "cron trigger disabled", nil)
			c.Abort()
			return
		}
		presented := strings.TrimSpace(c.GetHeader("X-Cron-Secret"))
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			Error(c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
