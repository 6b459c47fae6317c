package auth

// Issuer is the token source a RefreshService rotates through. TokenService
// satisfies it; tests substitute failing implementations.
type Issuer interface {
	Issue(username string) (string, error)
	Decode(token string) (*Claims, error)
	Parse(token string) (*Claims, error)
}

// RefreshService re-issues tokens for rotation. It separates "trust but
// rotate" (Decode + CreateRefreshToken after a request has already been
// authenticated) from "establish trust" (VerifyToken), so rotation never
// needs a second round-trip to the credential store.
//
// Rotation supersedes but does not invalidate the previous token: validity
// is determined purely by signature and expiry, and no revocation list is
// kept.
type RefreshService struct {
	tokens Issuer
}

// NewRefreshService creates a refresh service on top of a token issuer.
func NewRefreshService(tokens Issuer) *RefreshService {
	return &RefreshService{tokens: tokens}
}

// CreateRefreshToken issues a fresh token for the given username.
func (s *RefreshService) CreateRefreshToken(username string) (string, error) {
	return s.tokens.Issue(username)
}

// Decode extracts claims without verification. Only valid after VerifyToken
// (or the auth guard) has accepted the token.
func (s *RefreshService) Decode(token string) (*Claims, error) {
	return s.tokens.Decode(token)
}

// VerifyToken checks signature and expiry and returns the claims.
func (s *RefreshService) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}
