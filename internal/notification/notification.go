package notification

import (
	"fmt"
	"time"

	notificationDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/notification"
)

const (
	KindBookingApproved  = "booking_approved"
	KindBookingRejected  = "booking_rejected"
	KindBookingCancelled = "booking_cancelled"
	KindBookingCompleted = "booking_completed"
	KindPaymentApproved  = "payment_approved"
	KindPaymentRejected  = "payment_rejected"
)

const (
	RelatedTypeBooking = "booking"
	RelatedTypePayment = "payment"
)

type Notification struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	RelatedID   *int64    `json:"related_id,omitempty"`
	RelatedType *string   `json:"related_type,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingMessage builds the notification text for a booking status change.
// The wording is deterministic so clients can rely on it.
func BookingMessage(kind, bookingDate, note string) (title, message string) {
	switch kind {
	case KindBookingApproved:
		title = "Booking approved"
		message = fmt.Sprintf("Your booking for %s has been approved.", bookingDate)
	case KindBookingRejected:
		title = "Booking rejected"
		message = fmt.Sprintf("Your booking for %s was rejected. Reason: %s", bookingDate, note)
	case KindBookingCancelled:
		title = "Booking cancelled"
		message = fmt.Sprintf("The booking for %s has been cancelled.", bookingDate)
		if note != "" {
			message = fmt.Sprintf("The booking for %s has been cancelled. Reason: %s", bookingDate, note)
		}
	case KindBookingCompleted:
		title = "Booking completed"
		message = fmt.Sprintf("Your booking for %s is complete. Thank you!", bookingDate)
	}
	return title, message
}

// PaymentMessage builds the notification text for a payment validation
// outcome.
func PaymentMessage(kind string, amount int64, notes string) (title, message string) {
	switch kind {
	case KindPaymentApproved:
		title = "Payment confirmed"
		message = fmt.Sprintf("Your payment of IDR %d has been confirmed.", amount)
	case KindPaymentRejected:
		title = "Payment rejected"
		message = fmt.Sprintf("Your payment of IDR %d was rejected. Reason: %s", amount, notes)
	}
	return title, message
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:          n.ID,
		UserID:      n.UserID,
		Kind:        n.Kind,
		Title:       n.Title,
		Message:     n.Message,
		RelatedID:   n.RelatedID,
		RelatedType: n.RelatedType,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:          n.ID,
		UserID:      n.UserID,
		Kind:        n.Kind,
		Title:       n.Title,
		Message:     n.Message,
		RelatedID:   n.RelatedID,
		RelatedType: n.RelatedType,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
