package notification

import (
	"context"
	"log/slog"

	"github.com/satriohadi/sewateman/internal"
)

// RepositoryAPI defines the data access methods for notifications.
type RepositoryAPI interface {
	Create(ctx context.Context, n *Notification) error
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify inserts a notification row. Delivery is best effort: a failed insert
// is logged and swallowed so it can never affect the write that triggered it.
func (s *Service) Notify(ctx context.Context, n *Notification) {
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification",
			"error", err,
			"user_id", n.UserID,
			"kind", n.Kind)
		return
	}

	s.logger.Info("notification created",
		"notification_id", n.ID,
		"user_id", n.UserID,
		"kind", n.Kind)
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*Notification, error) {
	rows, err := s.repo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return rows, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	rows, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to mark notification as read", err)
	}
	if rows == 0 {
		return internal.NewNotFoundError("notification not found", internal.ErrCodeNotificationNotFound)
	}
	return nil
}

func (s *Service) CountUnread(ctx context.Context, userID int64) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, internal.NewInternalError("failed to count notifications", err)
	}
	return count, nil
}
