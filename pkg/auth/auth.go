// Package auth validates the shared-secret bearer credential.
package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duynguyendang/cca/pkg/common/errors"
)

const bearerPrefix = "Bearer "

// Verifier checks presented tokens against the configured secret.
type Verifier struct {
	secret string
	log    *zap.Logger
}

// NewVerifier creates a Verifier. An empty secret rejects everything.
func NewVerifier(secret string, log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{secret: secret, log: log}
}

// Verify accepts only an exact match of the configured secret.
// Authentication failure is never transient; there are no retries.
func (v *Verifier) Verify(token string) error {
	if v.secret == "" || token != v.secret {
		v.log.Warn("token verification failed")
		return errors.ErrUnauthorized
	}
	return nil
}

// Middleware parses the Authorization header and aborts with 401 before any
// business logic when the credential is missing, malformed, or wrong.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			v.log.Warn("missing or malformed Authorization header")
			c.AbortWithStatusJSON(401, gin.H{"detail": "Missing or invalid Authorization header"})
			return
		}
		if err := v.Verify(strings.TrimPrefix(header, bearerPrefix)); err != nil {
			c.AbortWithStatusJSON(401, gin.H{"detail": "Invalid token"})
			return
		}
		c.Next()
	}
}

// String hides the secret in logs and panics.
func (v *Verifier) String() string {
	return fmt.Sprintf("auth.Verifier(len=%d)", len(v.secret))
}
