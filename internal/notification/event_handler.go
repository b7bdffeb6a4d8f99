package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/satriohadi/sewateman/internal/core/events"
	"github.com/satriohadi/sewateman/internal/user"
)

// EventHandler turns bus events into notification rows. It runs after the
// triggering write has already committed, so nothing here can roll that
// write back.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

func (h *EventHandler) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeBookingStatusChanged, h.HandleBookingStatusChanged)
	bus.Subscribe(events.EventTypePaymentValidated, h.HandlePaymentValidated)
}

func (h *EventHandler) HandleBookingStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.BookingStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	for _, recipient := range bookingRecipients(e) {
		kind := bookingKind(e.NewStatus)
		if kind == "" {
			continue
		}
		title, message := BookingMessage(kind, e.BookingDate, e.Note)
		bookingID := e.BookingID
		relatedType := RelatedTypeBooking
		h.service.Notify(ctx, &Notification{
			UserID:      recipient,
			Kind:        kind,
			Title:       title,
			Message:     message,
			RelatedID:   &bookingID,
			RelatedType: &relatedType,
		})
	}

	return nil
}

func (h *EventHandler) HandlePaymentValidated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentValidatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	kind := KindPaymentRejected
	if e.Status == "approved" {
		kind = KindPaymentApproved
	}

	title, message := PaymentMessage(kind, e.Amount, e.Notes)
	paymentID := e.PaymentID
	relatedType := RelatedTypePayment
	h.service.Notify(ctx, &Notification{
		UserID:      e.RenterID,
		Kind:        kind,
		Title:       title,
		Message:     message,
		RelatedID:   &paymentID,
		RelatedType: &relatedType,
	})

	return nil
}

// bookingRecipients picks who hears about a status change: provider actions
// notify the renter, a renter cancellation notifies the provider, an admin
// cancellation notifies both parties, and completion notifies the renter.
func bookingRecipients(e *events.BookingStatusChangedEvent) []int64 {
	switch e.ActorRole {
	case user.RoleProvider:
		return []int64{e.RenterID}
	case user.RoleRenter:
		if e.ProviderID > 0 {
			return []int64{e.ProviderID}
		}
		return nil
	case user.RoleAdmin:
		recipients := []int64{e.RenterID}
		if e.ProviderID > 0 {
			recipients = append(recipients, e.ProviderID)
		}
		return recipients
	default:
		// System transitions (completion sweeps) notify the renter.
		return []int64{e.RenterID}
	}
}

func bookingKind(newStatus string) string {
	switch newStatus {
	case "approved":
		return KindBookingApproved
	case "rejected":
		return KindBookingRejected
	case "cancelled":
		return KindBookingCancelled
	case "completed":
		return KindBookingCompleted
	}
	return ""
}
