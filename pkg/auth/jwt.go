// Package auth issues and verifies the signed identity tokens used by the
// API, and hashes account passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/idlikadai/backend/config"
)

// ErrInvalidToken covers every verification failure: expired, malformed, or
// bad signature. Callers cannot distinguish which.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

func secret() []byte {
	return []byte(config.JWTSecret())
}

func lifetime() time.Duration {
	return time.Duration(config.TokenLifetimeHours()) * time.Hour
}

// GenerateToken creates a signed JWT whose subject is the username.
func GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime())),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// VerifyToken parses and validates a token string and returns its subject.
func VerifyToken(t string) (string, error) {
	token, err := jwt.ParseWithClaims(t, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
