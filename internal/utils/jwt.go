package utils // package utils provides helper functions for token creation and verification

import (
	"errors"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenClaims is the payload embedded in an access token.  The email is
// the lookup key the authentication middleware uses to re-resolve the
// principal from the user reference tables on every request; name and
// username ride along for client display.
type TokenClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned when a bearer token cannot be parsed,
// fails signature verification, or carries no email claim.
var ErrInvalidToken = errors.New("invalid or expired token")

// SignToken builds and signs an HS256 JWT carrying the given identity
// claims.  Tokens are issued without an expiry, matching the sessions
// the browser client holds until the operator logs out.
func SignToken(secret, email, name, username string) (string, error) {
	claims := TokenClaims{Email: email, Name: name, Username: username}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyToken parses and validates an access token, returning its
// claims.  Any signing method other than HMAC is rejected.
func VerifyToken(secret, raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
