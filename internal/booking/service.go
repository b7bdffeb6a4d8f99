package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/core/events"
	"github.com/satriohadi/sewateman/internal/user"
)

// RepositoryAPI defines the data access methods for bookings.
type RepositoryAPI interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	GetByRenterID(ctx context.Context, renterID int64, limit, offset int) ([]*Booking, error)
	GetByProviderID(ctx context.Context, providerID int64, limit, offset int) ([]*Booking, error)
	GetBetweenParties(ctx context.Context, partyA, partyB int64) ([]*Booking, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]*Booking, error)
	// UpdateStatus performs a guarded update: the row is only written when its
	// current status still equals from. Returns the number of rows matched so
	// callers can detect stale transitions.
	UpdateStatus(ctx context.Context, id int64, from, to Status, note *string, updatedAt time.Time) (int64, error)
	AttachPayment(ctx context.Context, bookingID, paymentID int64, updatedAt time.Time) error
}

// Service is the booking lifecycle engine: it decides whether an attempted
// transition is legal, applies it with a compare-and-set write, and publishes
// the resulting change for best-effort notification delivery.
type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new pending booking for a renter. The payment reference
// stays empty until the renter initiates a payment.
func (s *Service) Create(ctx context.Context, renterID int64, dto CreateBookingDTO) (*Booking, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("booking validation failed", "error", err, "renter_id", renterID)
		return nil, err
	}

	now := time.Now()
	providerID := dto.ProviderID
	b := &Booking{
		RenterID:        renterID,
		ProviderID:      &providerID,
		BookingDate:     dto.ParsedDate(),
		BookingTime:     dto.BookingTime,
		DurationHours:   dto.DurationHours,
		PackageName:     dto.PackageName,
		PackageDuration: dto.PackageDuration,
		TotalAmount:     dto.TotalAmount,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if trimmed := strings.TrimSpace(dto.Notes); trimmed != "" {
		b.Notes = &trimmed
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("failed to create booking", "error", err, "renter_id", renterID)
		return nil, internal.NewInternalError("failed to create booking", err)
	}

	s.logger.Info("booking created",
		"booking_id", b.ID,
		"renter_id", renterID,
		"provider_id", providerID,
		"amount", b.TotalAmount)

	return b, nil
}

// GetByID returns a booking visible to the actor: its renter, its provider,
// or an admin. The returned status is the effective one.
func (s *Service) GetByID(ctx context.Context, id int64, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get booking", "error", err, "booking_id", id)
		return nil, internal.ErrBookingNotFound
	}

	if !actor.IsAdmin() && !b.IsParty(actor.ID) {
		s.logger.Warn("booking access denied", "booking_id", id, "actor_id", actor.ID)
		return nil, internal.ErrNotBookingParty
	}

	b.Status = b.EffectiveStatus(time.Now())
	return b, nil
}

func (s *Service) ListForRenter(ctx context.Context, renterID int64, limit, offset int) ([]*Booking, error) {
	bookings, err := s.repo.GetByRenterID(ctx, renterID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list renter bookings", "error", err, "renter_id", renterID)
		return nil, internal.NewInternalError("failed to list bookings", err)
	}
	applyEffectiveStatus(bookings, time.Now())
	return bookings, nil
}

func (s *Service) ListForProvider(ctx context.Context, providerID int64, limit, offset int) ([]*Booking, error) {
	bookings, err := s.repo.GetByProviderID(ctx, providerID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list provider bookings", "error", err, "provider_id", providerID)
		return nil, internal.NewInternalError("failed to list bookings", err)
	}
	applyEffectiveStatus(bookings, time.Now())
	return bookings, nil
}

// Transition attempts one lifecycle event on a booking. Status guards are
// checked before ownership so that terminal states always answer with an
// invalid-transition error, for every event and every actor.
func (s *Service) Transition(ctx context.Context, bookingID int64, event Event, actor Actor, note string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("booking not found for transition", "error", err, "booking_id", bookingID)
		return nil, internal.ErrBookingNotFound
	}

	now := time.Now()
	note = strings.TrimSpace(note)

	var to Status
	switch event {
	case EventApprove:
		if !b.CanBeApproved(now) {
			return nil, s.invalidTransition(b, event)
		}
		if actor.Role != user.RoleProvider || !b.IsProvider(actor.ID) {
			return nil, s.unauthorized(b, event, actor)
		}
		to = StatusApproved

	case EventReject:
		if !b.CanBeRejected(now) {
			return nil, s.invalidTransition(b, event)
		}
		if actor.Role != user.RoleProvider || !b.IsProvider(actor.ID) {
			return nil, s.unauthorized(b, event, actor)
		}
		if note == "" {
			return nil, internal.ErrNoteRequired
		}
		to = StatusRejected

	case EventCancel:
		if !b.CanBeCancelledByRenter(now) {
			return nil, s.invalidTransition(b, event)
		}
		if actor.Role != user.RoleRenter || !b.IsRenter(actor.ID) {
			return nil, s.unauthorized(b, event, actor)
		}
		to = StatusCancelled

	case EventAdminCancel:
		if !b.CanBeCancelledByAdmin(now) {
			return nil, s.invalidTransition(b, event)
		}
		if !actor.IsAdmin() {
			return nil, s.unauthorized(b, event, actor)
		}
		if note == "" {
			return nil, internal.ErrNoteRequired
		}
		to = StatusCancelled

	case EventComplete:
		// System-evaluated: only legal once the window has elapsed.
		if b.Status != StatusApproved || b.EffectiveStatus(now) != StatusCompleted {
			return nil, s.invalidTransition(b, event)
		}
		to = StatusCompleted

	default:
		return nil, internal.NewValidationError("unknown booking event", internal.ErrCodeValidationFailed)
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	rows, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, to, notePtr, now)
	if err != nil {
		s.logger.Error("failed to update booking status",
			"error", err, "booking_id", b.ID, "from", b.Status, "to", to)
		return nil, internal.NewInternalError("failed to update booking status", err)
	}
	if rows == 0 {
		// Another actor won the race; the stored status no longer matches.
		s.logger.Warn("stale booking transition rejected",
			"booking_id", b.ID, "expected_status", b.Status, "event", event)
		return nil, internal.ErrInvalidTransition
	}

	s.logger.Info("booking status changed",
		"booking_id", b.ID,
		"from", b.Status,
		"to", to,
		"event", event,
		"actor_id", actor.ID,
		"actor_role", actor.Role)

	updated := *b
	updated.Status = to
	updated.UpdatedAt = now
	if notePtr != nil {
		updated.Notes = notePtr
	}

	// Notification emission is best-effort and must never undo the status
	// change; the bus logs and swallows handler failures.
	s.publishStatusChange(ctx, &updated, b.Status, actor, note)

	return &updated, nil
}

// CompleteElapsed flips approved bookings whose window has passed to
// completed, using the same guarded write as user-driven transitions. The
// lazy read-time check stays authoritative for rows not yet swept.
func (s *Service) CompleteElapsed(ctx context.Context, batchSize int) ([]int64, error) {
	bookings, err := s.repo.ListByStatus(ctx, StatusApproved, batchSize)
	if err != nil {
		return nil, internal.NewInternalError("failed to list approved bookings", err)
	}

	now := time.Now()
	var completed []int64
	for _, b := range bookings {
		if b.EffectiveStatus(now) != StatusCompleted {
			continue
		}
		rows, err := s.repo.UpdateStatus(ctx, b.ID, StatusApproved, StatusCompleted, nil, now)
		if err != nil {
			s.logger.Error("failed to complete booking", "error", err, "booking_id", b.ID)
			continue
		}
		if rows == 0 {
			continue
		}
		completed = append(completed, b.ID)

		updated := *b
		updated.Status = StatusCompleted
		updated.UpdatedAt = now
		s.publishStatusChange(ctx, &updated, StatusApproved, Actor{Role: "system"}, "")
	}

	return completed, nil
}

func (s *Service) publishStatusChange(ctx context.Context, b *Booking, from Status, actor Actor, note string) {
	var providerID int64
	if b.ProviderID != nil {
		providerID = *b.ProviderID
	}

	ev := events.NewBookingStatusChangedEvent(
		b.ID,
		b.RenterID,
		providerID,
		string(from),
		string(b.Status),
		actor.Role,
		note,
		b.BookingDate.Format("2006-01-02"),
	)

	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish booking status change",
			"error", err, "booking_id", b.ID)
	}
}

func (s *Service) invalidTransition(b *Booking, event Event) error {
	s.logger.Warn("invalid booking transition",
		"booking_id", b.ID, "status", b.Status, "event", event)
	return internal.ErrInvalidTransition
}

func (s *Service) unauthorized(b *Booking, event Event, actor Actor) error {
	s.logger.Warn("booking transition by wrong actor",
		"booking_id", b.ID, "event", event, "actor_id", actor.ID, "actor_role", actor.Role)
	return internal.ErrNotBookingParty
}

func applyEffectiveStatus(bookings []*Booking, now time.Time) {
	for _, b := range bookings {
		b.Status = b.EffectiveStatus(now)
	}
}
