package auth

import (
	"log/slog"
	"strconv"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI defines the user lookups the auth service needs.
type RepositoryAPI interface {
	GetByEmail(email string) (*user.User, string, error)
	GetByID(id int64) (*user.User, error)
}

type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if dto.Email == "" || dto.Password == "" {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	u, passwordHash, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		s.logger.Warn("login rejected: inactive account", "user_id", u.ID)
		return AuthTokens{}, internal.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", u.ID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(u)
}

// ValidateAccessToken checks the token and loads the current user record, so
// deactivated accounts lose access immediately.
func (s *Service) ValidateAccessToken(tokenString string) (*user.User, error) {
	claims, err := s.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	return u, nil
}

func (s *Service) issueTokens(u *user.User) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err, "user_id", u.ID)
		return AuthTokens{}, internal.NewInternalError("failed to generate token", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email, u.Role)
	if err != nil {
		s.logger.Error("failed to generate refresh token", "error", err, "user_id", u.ID)
		return AuthTokens{}, internal.NewInternalError("failed to generate token", err)
	}

	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
