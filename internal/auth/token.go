package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed HS256 tokens.
type TokenService struct {
	cfg Config
}

// NewTokenService creates a token service. It fails when the signing secret
// is missing or the config is otherwise invalid.
func NewTokenService(cfg Config) (*TokenService, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	return &TokenService{cfg: cfg}, nil
}

// Issue creates a signed token for the given username with the configured
// expiry. Issuance is a pure computation with no side effects.
func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.tokenTTL())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token service: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token's signature and expiry and returns its claims.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token service: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token service: invalid token")
	}
	return claims, nil
}

// Decode extracts claims without verifying the signature. Callers must only
// use it on tokens that Parse has already accepted.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("token service: decode token: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether a parse failure was caused by token expiry.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token service: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}
