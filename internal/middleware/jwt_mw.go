package middleware

import (
	"net/http"
	"strings"

	"crowdsight/internal/authz"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthIdentityKey holds the caller's authz.Identity; read it with IdentityFrom
const AuthIdentityKey = "authIdentity"

// TokenValidator verifies bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*utils.JWTClaims, error)
}

// JWTAuthMiddleware resolves the caller's identity. A request without an
// Authorization header continues as anonymous; a header that is malformed or
// carries an invalid or expired token is rejected.
func JWTAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(AuthIdentityKey, authz.Anonymous())
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "Invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "Invalid or expired token")
			return
		}

		c.Set(AuthIdentityKey, authz.Authenticated(claims.UserID, claims.Email, claims.Role))

		c.Next()
	}
}

// IdentityFrom returns the identity resolved by JWTAuthMiddleware, or
// anonymous when the middleware did not run
func IdentityFrom(c *gin.Context) authz.Identity {
	if v, ok := c.Get(AuthIdentityKey); ok {
		if id, ok := v.(authz.Identity); ok {
			return id
		}
	}
	return authz.Anonymous()
}
