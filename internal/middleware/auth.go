// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/javajoker/keebmarket-backend/internal/i18n"
	"github.com/javajoker/keebmarket-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired rejects requests without a valid identity-provider session token.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			if c.GetHeader("Authorization") == "" {
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			} else {
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			}
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			key := i18n.KeyAuthInvalidToken
			var verr *jwt.ValidationError
			if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
				key = i18n.KeyAuthTokenExpired
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is present so
// public requests are attributed in the request log. Invalid tokens are ignored.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		// Set user info in context if token is valid
		if claims, err := utils.ValidateJWT(token); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// Extract token from "Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func setIdentity(c *gin.Context, claims *utils.IdentityClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("email", claims.Email)
}
