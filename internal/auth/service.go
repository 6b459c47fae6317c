package auth

import (
	"context"

	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/validation"
)

// Service handles the sign-up and sign-in business logic.
type Service struct {
	users  *UserRepository
	tokens *TokenService
	log    *logger.Logger
}

// NewService creates the auth service.
func NewService(users *UserRepository, tokens *TokenService, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		log:    log.WithComponent("auth-service"),
	}
}

// SignUp validates the request and creates the user.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) error {
	if err := validation.Validate(req); err != nil {
		return err
	}
	return s.users.SignUp(ctx, req.Username, req.Email, req.Password)
}

// SignIn validates the credentials and issues a bearer token. The token
// payload carries only the canonical username.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (string, error) {
	if err := validation.Validate(req); err != nil {
		return "", err
	}

	username, err := s.users.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", apperrors.InvalidCredentials()
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		s.log.Error("Token issuance failed", map[string]interface{}{"error": err.Error()})
		return "", apperrors.Internal(err)
	}
	return token, nil
}
