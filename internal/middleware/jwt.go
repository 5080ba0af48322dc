package middleware

import (
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer is the iss claim on every access token this service signs.
const TokenIssuer = "AlMubarak"

var tokenParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	jwt.WithIssuer(TokenIssuer),
	jwt.WithExpirationRequired(),
	jwt.WithIssuedAt(),
)

// ValidateToken verifies an RS256 access token. An expired token fails with
// an error wrapping jwt.ErrTokenExpired.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey) (*jwt.Token, error) {
	return tokenParser.Parse(tokenString, func(*jwt.Token) (any, error) {
		return publicKey, nil
	})
}
