package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/booking"
	"github.com/satriohadi/sewateman/internal/core/events"
	"github.com/satriohadi/sewateman/internal/paymentgateway"
	"github.com/satriohadi/sewateman/internal/user"
)

// RepositoryAPI defines the data access methods for payments.
type RepositoryAPI interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	GetLatestByBookingID(ctx context.Context, bookingID int64) (*Payment, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]*Payment, error)
	// UpdateStatus is guarded the same way booking transitions are: the write
	// only lands when the stored status still equals from.
	UpdateStatus(ctx context.Context, id int64, from, to Status, notes *string, validatedAt *time.Time, updatedAt time.Time) (int64, error)
	SetProof(ctx context.Context, id int64, proofURL string, from, to Status, updatedAt time.Time) (int64, error)
	SetGatewayRef(ctx context.Context, id int64, token, orderID string, updatedAt time.Time) error
}

// BookingStore is the slice of the booking repository the payment flow needs.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
	AttachPayment(ctx context.Context, bookingID, paymentID int64, updatedAt time.Time) error
}

// TokenClient exchanges a payment for a gateway checkout token.
type TokenClient interface {
	CreateToken(ctx context.Context, req paymentgateway.TokenRequest) (*paymentgateway.TokenResponse, error)
}

type Service struct {
	repo      RepositoryAPI
	bookings  BookingStore
	gateway   TokenClient
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, bookings BookingStore, gateway TokenClient, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		bookings:  bookings,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
	}
}

// Initiate creates a payment attempt for one of the renter's bookings. For
// the gateway method it also performs the token exchange; a gateway failure
// cancels the fresh attempt so the renter can start over.
func (s *Service) Initiate(ctx context.Context, u *user.User, dto InitiatePaymentDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, dto.BookingID)
	if err != nil {
		return nil, internal.ErrBookingNotFound
	}
	if !b.IsRenter(u.ID) {
		s.logger.Warn("payment initiation by non-renter", "booking_id", b.ID, "user_id", u.ID)
		return nil, internal.ErrNotBookingParty
	}

	now := time.Now()
	switch b.EffectiveStatus(now) {
	case booking.StatusPending, booking.StatusApproved:
	default:
		return nil, internal.ErrInvalidTransition
	}

	if latest, err := s.repo.GetLatestByBookingID(ctx, b.ID); err == nil && latest != nil {
		if latest.Status == StatusApproved || !latest.IsSettled() {
			s.logger.Warn("payment already exists for booking",
				"booking_id", b.ID, "payment_id", latest.ID, "status", latest.Status)
			return nil, internal.ErrInvalidPaymentStatus
		}
	}

	p := &Payment{
		BookingID: b.ID,
		Method:    dto.Method,
		AmountIDR: b.TotalAmount,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create payment", "error", err, "booking_id", b.ID)
		return nil, internal.NewInternalError("failed to create payment", err)
	}

	if dto.Method == MethodGateway {
		tokenResp, err := s.gateway.CreateToken(ctx, paymentgateway.TokenRequest{
			PaymentID:     p.ID,
			Amount:        p.AmountIDR,
			CustomerName:  u.Name,
			CustomerEmail: u.Email,
			ItemName:      b.PackageName,
		})
		if err != nil {
			s.logger.Error("gateway token exchange failed", "error", err, "payment_id", p.ID)
			if _, cancelErr := s.repo.UpdateStatus(ctx, p.ID, StatusPending, StatusCancelled, nil, nil, time.Now()); cancelErr != nil {
				s.logger.Error("failed to cancel payment after gateway error",
					"error", cancelErr, "payment_id", p.ID)
			}
			return nil, (&internal.AppError{
				Type:       internal.ErrorTypeExternal,
				Code:       internal.ErrCodeGatewayUnavailable,
				Message:    "payment gateway is unavailable",
				StatusCode: 502,
			}).WithCause(err)
		}

		if err := s.repo.SetGatewayRef(ctx, p.ID, tokenResp.Token, tokenResp.OrderID, time.Now()); err != nil {
			s.logger.Error("failed to store gateway reference", "error", err, "payment_id", p.ID)
			return nil, internal.NewInternalError("failed to store gateway reference", err)
		}
		p.GatewayToken = &tokenResp.Token
		p.GatewayOrderID = &tokenResp.OrderID
	}

	s.logger.Info("payment initiated",
		"payment_id", p.ID,
		"booking_id", b.ID,
		"method", p.Method,
		"amount", p.AmountIDR)

	return p, nil
}

// SubmitProof attaches a proof-of-payment reference to a manual payment and
// queues it for admin validation.
func (s *Service) SubmitProof(ctx context.Context, userID, paymentID int64, dto SubmitProofDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, internal.ErrPaymentNotFound
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, internal.ErrBookingNotFound
	}
	if !b.IsRenter(userID) {
		return nil, internal.ErrNotBookingParty
	}

	now := time.Now()
	rows, err := s.repo.SetProof(ctx, p.ID, strings.TrimSpace(dto.ProofURL), StatusPending, StatusWaitingValidation, now)
	if err != nil {
		s.logger.Error("failed to submit proof", "error", err, "payment_id", p.ID)
		return nil, internal.NewInternalError("failed to submit proof", err)
	}
	if rows == 0 {
		return nil, internal.ErrInvalidPaymentStatus
	}

	s.logger.Info("payment proof submitted", "payment_id", p.ID, "booking_id", p.BookingID)

	return s.repo.GetByID(ctx, p.ID)
}

// Validate is the admin action on a queued payment. Approval attaches the
// payment reference to the booking without touching the booking status; the
// lifecycle engine reads the reference, it never needs a transition here.
func (s *Service) Validate(ctx context.Context, paymentID int64, dto ValidatePaymentDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, internal.ErrPaymentNotFound
	}
	if !p.CanBeValidated() {
		s.logger.Warn("payment cannot be validated in current status",
			"payment_id", p.ID, "status", p.Status)
		return nil, internal.ErrInvalidPaymentStatus
	}

	now := time.Now()
	to := StatusRejected
	if dto.Approve {
		to = StatusApproved
	}

	var notes *string
	if trimmed := strings.TrimSpace(dto.Notes); trimmed != "" {
		notes = &trimmed
	}

	rows, err := s.repo.UpdateStatus(ctx, p.ID, p.Status, to, notes, &now, now)
	if err != nil {
		s.logger.Error("failed to update payment status", "error", err, "payment_id", p.ID)
		return nil, internal.NewInternalError("failed to update payment status", err)
	}
	if rows == 0 {
		return nil, internal.ErrInvalidPaymentStatus
	}

	if dto.Approve {
		if err := s.bookings.AttachPayment(ctx, p.BookingID, p.ID, now); err != nil {
			s.logger.Error("failed to attach payment to booking",
				"error", err, "payment_id", p.ID, "booking_id", p.BookingID)
			return nil, internal.NewInternalError("failed to attach payment to booking", err)
		}
	}

	s.logger.Info("payment validated",
		"payment_id", p.ID,
		"booking_id", p.BookingID,
		"status", to)

	s.publishValidated(ctx, p, to, dto.Notes)

	p.Status = to
	p.AdminNotes = notes
	p.ValidatedAt = &now
	p.UpdatedAt = now
	return p, nil
}

// GetForBooking returns the latest payment attempt for a booking, visible to
// its parties and admins.
func (s *Service) GetForBooking(ctx context.Context, u *user.User, bookingID int64) (*Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, internal.ErrBookingNotFound
	}
	if u.Role != user.RoleAdmin && !b.IsParty(u.ID) {
		return nil, internal.ErrNotBookingParty
	}

	p, err := s.repo.GetLatestByBookingID(ctx, bookingID)
	if err != nil || p == nil {
		return nil, internal.ErrPaymentNotFound
	}
	return p, nil
}

// ListPendingValidation is the admin queue of manual payments awaiting
// review.
func (s *Service) ListPendingValidation(ctx context.Context, limit int) ([]*Payment, error) {
	payments, err := s.repo.ListByStatus(ctx, StatusWaitingValidation, limit)
	if err != nil {
		return nil, internal.NewInternalError("failed to list payments", err)
	}
	return payments, nil
}

// ExpireStale marks unvalidated payments older than ttl as expired. Called by
// the sweeper; the guarded update keeps it safe against concurrent admin
// validation.
func (s *Service) ExpireStale(ctx context.Context, ttl time.Duration, batchSize int) ([]int64, error) {
	now := time.Now()
	cutoff := now.Add(-ttl)

	var expired []int64
	for _, status := range []Status{StatusPending, StatusWaitingValidation} {
		payments, err := s.repo.ListByStatus(ctx, status, batchSize)
		if err != nil {
			return expired, internal.NewInternalError("failed to list payments", err)
		}
		for _, p := range payments {
			if p.CreatedAt.After(cutoff) {
				continue
			}
			rows, err := s.repo.UpdateStatus(ctx, p.ID, p.Status, StatusExpired, nil, nil, now)
			if err != nil {
				s.logger.Error("failed to expire payment", "error", err, "payment_id", p.ID)
				continue
			}
			if rows > 0 {
				expired = append(expired, p.ID)
			}
		}
	}

	return expired, nil
}

func (s *Service) publishValidated(ctx context.Context, p *Payment, status Status, notes string) {
	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		s.logger.Error("failed to load booking for payment event",
			"error", err, "payment_id", p.ID, "booking_id", p.BookingID)
		return
	}

	ev := events.NewPaymentValidatedEvent(p.ID, p.BookingID, b.RenterID, p.AmountIDR, string(status), notes)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish payment validation",
			"error", err, "payment_id", p.ID)
	}
}
