package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeBookingStatusChanged = "booking.status_changed"
	EventTypePaymentValidated     = "payment.validated"
)

type BookingStatusChangedEvent struct {
	BaseEvent
	BookingID   int64  `json:"booking_id"`
	RenterID    int64  `json:"renter_id"`
	ProviderID  int64  `json:"provider_id"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ActorRole   string `json:"actor_role"`
	Note        string `json:"note,omitempty"`
	BookingDate string `json:"booking_date"`
}

func NewBookingStatusChangedEvent(bookingID, renterID, providerID int64, oldStatus, newStatus, actorRole, note, bookingDate string) *BookingStatusChangedEvent {
	return &BookingStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"booking_id":   bookingID,
				"renter_id":    renterID,
				"provider_id":  providerID,
				"old_status":   oldStatus,
				"new_status":   newStatus,
				"actor_role":   actorRole,
				"note":         note,
				"booking_date": bookingDate,
			},
		},
		BookingID:   bookingID,
		RenterID:    renterID,
		ProviderID:  providerID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ActorRole:   actorRole,
		Note:        note,
		BookingDate: bookingDate,
	}
}

type PaymentValidatedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	BookingID int64  `json:"booking_id"`
	RenterID  int64  `json:"renter_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

func NewPaymentValidatedEvent(paymentID, bookingID, renterID, amount int64, status, notes string) *PaymentValidatedEvent {
	return &PaymentValidatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentValidated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"booking_id": bookingID,
				"renter_id":  renterID,
				"amount":     amount,
				"status":     status,
				"notes":      notes,
			},
		},
		PaymentID: paymentID,
		BookingID: bookingID,
		RenterID:  renterID,
		Amount:    amount,
		Status:    status,
		Notes:     notes,
	}
}
