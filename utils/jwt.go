package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vivaah_server/models"
)

// SessionClaims carries the caller identity. The subject is the user id.
type SessionClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var errMissingSecret = errors.New("JWT secret is not configured")

// GenerateToken signs an HS256 session token for caller. Production tokens
// come from the identity provider sharing JWT_SECRET; this mints them for
// local runs and tests.
func GenerateToken(secret []byte, caller models.Caller, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errMissingSecret
	}
	now := time.Now()
	claims := SessionClaims{
		Role: caller.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken validates an HS256 session token and returns the caller it names
func VerifyToken(secret []byte, raw string) (models.Caller, error) {
	if len(secret) == 0 {
		return models.Caller{}, errMissingSecret
	}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Caller{}, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return models.Caller{}, errors.New("invalid session token")
	}
	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}
	return models.Caller{UserID: claims.Subject, Role: role}, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
