package booking

import (
	"strings"
	"time"

	"github.com/satriohadi/sewateman/internal"
)

// CreateBookingDTO is the renter-facing request payload for a new booking.
type CreateBookingDTO struct {
	ProviderID      int64  `json:"provider_id"`
	BookingDate     string `json:"booking_date"` // YYYY-MM-DD
	BookingTime     string `json:"booking_time"` // HH:MM or HH:MM:SS
	DurationHours   int    `json:"duration_hours"`
	PackageName     string `json:"package_name"`
	PackageDuration string `json:"package_duration"`
	TotalAmount     int64  `json:"total_amount"`
	Notes           string `json:"notes,omitempty"`
}

func (dto CreateBookingDTO) Validate() error {
	if dto.ProviderID <= 0 {
		return internal.NewValidationError("provider is required", internal.ErrCodeValidationFailed)
	}
	if dto.DurationHours < 1 {
		return internal.NewValidationError("duration must be at least 1 hour", internal.ErrCodeInvalidDuration)
	}
	if dto.TotalAmount < 0 {
		return internal.NewValidationError("total amount cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if _, err := time.Parse("2006-01-02", dto.BookingDate); err != nil {
		return internal.NewValidationError("booking date must be YYYY-MM-DD", internal.ErrCodeInvalidSchedule)
	}
	if !validTimeOfDay(dto.BookingTime) {
		return internal.NewValidationError("booking time must be HH:MM or HH:MM:SS", internal.ErrCodeInvalidSchedule)
	}
	if dto.PackageName == "" {
		return internal.NewValidationError("package name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (dto CreateBookingDTO) ParsedDate() time.Time {
	d, _ := time.Parse("2006-01-02", dto.BookingDate)
	return d
}

func validTimeOfDay(s string) bool {
	if _, err := time.Parse("15:04:05", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// TransitionDTO carries the optional or required note for approve, reject and
// cancel actions.
type TransitionDTO struct {
	Note string `json:"note,omitempty"`
}

// TrimmedNote returns the note with surrounding whitespace removed.
func (dto TransitionDTO) TrimmedNote() string {
	return strings.TrimSpace(dto.Note)
}
