package booking

import (
	"time"

	bookingDatamodel "github.com/satriohadi/sewateman/internal/core/datamodel/booking"
	"github.com/satriohadi/sewateman/internal/user"
)

// Booking is one reservation of a provider's time by a renter.
type Booking struct {
	ID              int64      `json:"id"`
	RenterID        int64      `json:"renter_id"`
	ProviderID      *int64     `json:"provider_id"`
	BookingDate     time.Time  `json:"booking_date"`
	BookingTime     string     `json:"booking_time"`
	DurationHours   int        `json:"duration_hours"`
	PackageName     string     `json:"package_name"`
	PackageDuration string     `json:"package_duration"`
	TotalAmount     int64      `json:"total_amount"`
	Notes           *string    `json:"notes,omitempty"`
	PaymentID       *int64     `json:"payment_id,omitempty"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"

	// legacyStatusConfirmed appears in rows written by an older client and
	// means approved. Normalized at the store boundary, never branched on
	// inside business logic.
	legacyStatusConfirmed = "confirmed"
)

// NormalizeStatus folds legacy spellings into the canonical enum.
func NormalizeStatus(raw string) Status {
	if raw == legacyStatusConfirmed {
		return StatusApproved
	}
	return Status(raw)
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// Event is an attempted lifecycle transition.
type Event string

const (
	EventApprove     Event = "approve"
	EventReject      Event = "reject"
	EventCancel      Event = "cancel"
	EventAdminCancel Event = "admin_cancel"
	EventComplete    Event = "complete"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// Window returns the half-open session interval [start, start+duration).
// The time-of-day field accepts HH:MM and HH:MM:SS. Returns ok=false for
// unparseable schedules; callers must fail closed on that.
func (b *Booking) Window() (start, end time.Time, ok bool) {
	if b.BookingDate.IsZero() || b.DurationHours < 1 {
		return time.Time{}, time.Time{}, false
	}

	tod, err := time.Parse("15:04:05", b.BookingTime)
	if err != nil {
		tod, err = time.Parse("15:04", b.BookingTime)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
	}

	d := b.BookingDate
	start = time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, d.Location())
	end = start.Add(time.Duration(b.DurationHours) * time.Hour)
	return start, end, true
}

// EffectiveStatus applies the lazy completion rule: nothing flips the stored
// status in real time, so an approved booking past its end of window must be
// treated as completed wherever it is read.
func (b *Booking) EffectiveStatus(now time.Time) Status {
	if b.Status != StatusApproved {
		return b.Status
	}
	_, end, ok := b.Window()
	if !ok {
		return b.Status
	}
	if !now.Before(end) {
		return StatusCompleted
	}
	return b.Status
}

func (b *Booking) CanBeApproved(now time.Time) bool {
	return b.EffectiveStatus(now) == StatusPending
}

func (b *Booking) CanBeRejected(now time.Time) bool {
	return b.EffectiveStatus(now) == StatusPending
}

// CanBeCancelledByRenter allows cancellation while pending, or after approval
// but strictly before the session starts.
func (b *Booking) CanBeCancelledByRenter(now time.Time) bool {
	switch b.EffectiveStatus(now) {
	case StatusPending:
		return true
	case StatusApproved:
		start, _, ok := b.Window()
		return ok && now.Before(start)
	default:
		return false
	}
}

func (b *Booking) CanBeCancelledByAdmin(now time.Time) bool {
	s := b.EffectiveStatus(now)
	return s == StatusPending || s == StatusApproved
}

func (b *Booking) IsRenter(userID int64) bool {
	return b.RenterID == userID
}

func (b *Booking) IsProvider(userID int64) bool {
	return b.ProviderID != nil && *b.ProviderID == userID
}

func (b *Booking) IsParty(userID int64) bool {
	return b.IsRenter(userID) || b.IsProvider(userID)
}

func ToDataModel(b *Booking) *bookingDatamodel.Booking {
	return &bookingDatamodel.Booking{
		ID:              b.ID,
		RenterID:        b.RenterID,
		ProviderID:      b.ProviderID,
		BookingDate:     b.BookingDate,
		BookingTime:     b.BookingTime,
		DurationHours:   b.DurationHours,
		PackageName:     b.PackageName,
		PackageDuration: b.PackageDuration,
		TotalAmount:     b.TotalAmount,
		Notes:           b.Notes,
		PaymentID:       b.PaymentID,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func FromDataModel(b *bookingDatamodel.Booking) *Booking {
	return &Booking{
		ID:              b.ID,
		RenterID:        b.RenterID,
		ProviderID:      b.ProviderID,
		BookingDate:     b.BookingDate,
		BookingTime:     b.BookingTime,
		DurationHours:   b.DurationHours,
		PackageName:     b.PackageName,
		PackageDuration: b.PackageDuration,
		TotalAmount:     b.TotalAmount,
		Notes:           b.Notes,
		PaymentID:       b.PaymentID,
		Status:          NormalizeStatus(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*bookingDatamodel.Booking) []*Booking {
	result := make([]*Booking, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
