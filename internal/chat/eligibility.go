package chat

import (
	"sort"
	"time"

	"github.com/satriohadi/sewateman/internal/booking"
)

// Eligibility is the computed permission level for a chat channel between two
// parties.
type Eligibility string

const (
	// EligibilityEnabled allows reading history and sending new messages.
	EligibilityEnabled Eligibility = "enabled"
	// EligibilityReadOnly keeps history visible but blocks new messages.
	EligibilityReadOnly Eligibility = "read_only"
	// EligibilityDisabled hides the channel entirely.
	EligibilityDisabled Eligibility = "disabled"
)

// ResolveEligibility computes the chat permission for a pair of users from
// their bookings. Only the most recent booking decides — latest relationship
// wins, older bookings are ignored even when more favorable.
//
// The function is pure and total: malformed bookings (missing provider,
// unparseable date or time) resolve to disabled rather than erroring, since
// chat gating must fail closed.
func ResolveEligibility(bookings []*booking.Booking, now time.Time) Eligibility {
	if len(bookings) == 0 {
		return EligibilityDisabled
	}

	latest := latestBooking(bookings)

	if latest.ProviderID == nil {
		return EligibilityDisabled
	}

	switch latest.Status {
	case booking.StatusCancelled, booking.StatusRejected:
		return EligibilityDisabled
	}

	// Payment attachment alone counts even before explicit validation; an
	// approved or completed booking is implicitly paid.
	isPaid := latest.Status == booking.StatusApproved ||
		latest.Status == booking.StatusCompleted ||
		latest.PaymentID != nil

	start, end, ok := latest.Window()
	if !ok {
		return EligibilityDisabled
	}

	if latest.Status == booking.StatusCompleted || !now.Before(end) {
		return EligibilityReadOnly
	}

	if !isPaid || now.Before(start) {
		return EligibilityDisabled
	}

	return EligibilityEnabled
}

// latestBooking picks the most recently created booking, breaking created_at
// ties by the higher id so the result is deterministic across stores.
func latestBooking(bookings []*booking.Booking) *booking.Booking {
	sorted := make([]*booking.Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted[0]
}
