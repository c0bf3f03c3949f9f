package api

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTServiceI issues and checks session tokens. The app is single-user,
// so claims carry only a session id, no account identity.
type JWTServiceI interface {
	GenerateToken() (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}
