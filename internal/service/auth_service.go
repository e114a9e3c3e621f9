package service

import (
	"context"
	"crypto/subtle"

	"github.com/keycaplendar/api/internal/auth"
	"github.com/keycaplendar/api/internal/repository"
	"github.com/rs/zerolog"
)

// authService is the concrete implementation of AuthService
type authService struct {
	accounts repository.APIUserRepository
	tokens   *auth.Manager
	log      zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(accounts repository.APIUserRepository, tokens *auth.Manager, log zerolog.Logger) *authService {
	return &authService{
		accounts: accounts,
		tokens:   tokens,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// IssueToken exchanges an API key/secret pair for a signed bearer token.
// Unknown keys, wrong secrets and accounts without API access all fail the
// same way so callers cannot tell which part was wrong.
func (s *authService) IssueToken(ctx context.Context, key, secret string) (string, error) {
	account, err := s.accounts.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if account == nil {
		s.log.Warn().Msg("Token request with unknown API key")
		return "", ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(account.APISecret), []byte(secret)) != 1 {
		s.log.Warn().Str("email", account.Email).Msg("Token request with wrong secret")
		return "", ErrUnauthorized
	}
	if !account.APIAccess {
		s.log.Warn().Str("email", account.Email).Msg("Token request for account without API access")
		return "", ErrUnauthorized
	}

	token, err := s.tokens.Issue(account.Email, account.APIAccess)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("email", account.Email).Msg("API token issued")
	return token, nil
}
