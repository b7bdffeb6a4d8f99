package user

import (
	"context"
	"log/slog"

	"github.com/satriohadi/sewateman/internal"
)

// RepositoryAPI defines the data access methods for user profiles.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	ListProviders(ctx context.Context, limit, offset int) ([]*User, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return u, nil
}

// ListProviders is the public directory of active providers renters browse
// before booking.
func (s *Service) ListProviders(ctx context.Context, limit, offset int) ([]*User, error) {
	providers, err := s.repo.ListProviders(ctx, limit, offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list providers", err)
	}
	return providers, nil
}
