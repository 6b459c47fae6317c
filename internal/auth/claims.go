package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. It carries only the username — never the
// password hash, salt, or any other sensitive data.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
