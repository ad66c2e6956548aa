// file: internal/server/middleware/admin.go
// version: 1.1.0
// guid: 83c42ecb-1df2-4baf-9890-3f91ab4db6fe

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials holds the secret guarding cache-mutating routes. When
// TokenHash (bcrypt) is set it takes precedence over the plaintext Token.
type AdminCredentials struct {
	Token     string
	TokenHash string
}

// Enabled reports whether any credential is configured.
func (a AdminCredentials) Enabled() bool {
	return a.Token != "" || a.TokenHash != ""
}

// Verify checks a presented bearer token.
func (a AdminCredentials) Verify(got string) bool {
	if got == "" {
		return false
	}
	if a.TokenHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.TokenHash), []byte(got)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(a.Token)) == 1
}

// HashToken returns the bcrypt hash to store as server.admin_token_hash.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(authHeader) > len("bearer ") && strings.EqualFold(authHeader[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(authHeader[len("bearer "):])
	}
	return ""
}

// RequireAdminToken guards cache-mutating routes. Credentials are read per
// request so they can be rotated by a config reload. No credentials disables
// the check.
func RequireAdminToken(creds func() AdminCredentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := creds()
		if !current.Enabled() {
			c.Next()
			return
		}

		if !current.Verify(BearerToken(c.Request)) {
			c.Header("WWW-Authenticate", `Bearer realm="apicache"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "admin token required",
				"code":   "UNAUTHORIZED",
				"status": http.StatusUnauthorized,
			})
			return
		}
		c.Next()
	}
}
