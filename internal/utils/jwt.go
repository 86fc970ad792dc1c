// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// IdentityClaims are the claims carried by identity-provider session tokens.
// The subject is the user's UUID.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var (
	jwtSecret   = []byte("your-secret-key-change-in-production")
	jwtIssuer   string
	jwtAudience string
)

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// SetJWTExpectations sets the issuer and audience a token must carry. Empty
// values disable the corresponding check.
func SetJWTExpectations(issuer, audience string) {
	jwtIssuer = issuer
	jwtAudience = audience
}

// GenerateJWT signs a session token. Production tokens come from the identity
// provider; this is used for local development and tests.
func GenerateJWT(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	claims := IdentityClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    jwtIssuer,
			Subject:   userID.String(),
		},
	}
	if jwtAudience != "" {
		claims.Audience = jwt.ClaimStrings{jwtAudience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateJWT(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if jwtIssuer != "" && !claims.VerifyIssuer(jwtIssuer, true) {
		return nil, errors.New("unexpected token issuer")
	}
	if jwtAudience != "" && !claims.VerifyAudience(jwtAudience, true) {
		return nil, errors.New("unexpected token audience")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errors.New("token subject is not a user id")
	}

	return claims, nil
}
