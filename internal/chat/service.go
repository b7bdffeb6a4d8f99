package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/booking"
)

// RepositoryAPI defines the data access methods for chat messages.
type RepositoryAPI interface {
	Create(ctx context.Context, m *Message) error
	GetBetween(ctx context.Context, partyA, partyB int64, limit, offset int) ([]*Message, error)
}

// BookingSource supplies the booking history the eligibility resolver runs
// over.
type BookingSource interface {
	GetBetweenParties(ctx context.Context, partyA, partyB int64) ([]*booking.Booking, error)
}

// Service gates chat access on the pair's most recent booking and stores
// messages once sending is allowed.
type Service struct {
	repo     RepositoryAPI
	bookings BookingSource
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, bookings BookingSource, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		logger:   logger,
	}
}

// Eligibility recomputes the chat permission for the caller and the other
// party. Safe to call on every poll; it is a read-only projection.
func (s *Service) Eligibility(ctx context.Context, userID, otherID int64) (Eligibility, error) {
	pairBookings, err := s.bookings.GetBetweenParties(ctx, userID, otherID)
	if err != nil {
		s.logger.Error("failed to load bookings for eligibility",
			"error", err, "user_id", userID, "other_id", otherID)
		// Fail closed: an unreadable booking history presents as no chat.
		return EligibilityDisabled, nil
	}

	return ResolveEligibility(pairBookings, time.Now()), nil
}

func (s *Service) SendMessage(ctx context.Context, senderID, recipientID int64, dto SendMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	eligibility, err := s.Eligibility(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	switch eligibility {
	case EligibilityDisabled:
		s.logger.Warn("message blocked: chat disabled", "sender_id", senderID, "recipient_id", recipientID)
		return nil, internal.ErrChatDisabled
	case EligibilityReadOnly:
		s.logger.Warn("message blocked: chat read-only", "sender_id", senderID, "recipient_id", recipientID)
		return nil, internal.ErrChatReadOnly
	}

	m := &Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        strings.TrimSpace(dto.Body),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("failed to store message", "error", err, "sender_id", senderID)
		return nil, internal.NewInternalError("failed to store message", err)
	}

	return m, nil
}

// History returns the conversation between the caller and the other party.
// Available while the channel is enabled or read-only; disabled hides it.
func (s *Service) History(ctx context.Context, userID, otherID int64, limit, offset int) ([]*Message, Eligibility, error) {
	eligibility, err := s.Eligibility(ctx, userID, otherID)
	if err != nil {
		return nil, EligibilityDisabled, err
	}

	if eligibility == EligibilityDisabled {
		return nil, eligibility, internal.ErrChatDisabled
	}

	messages, err := s.repo.GetBetween(ctx, userID, otherID, limit, offset)
	if err != nil {
		s.logger.Error("failed to load messages", "error", err, "user_id", userID, "other_id", otherID)
		return nil, eligibility, internal.NewInternalError("failed to load messages", err)
	}

	return messages, eligibility, nil
}
