package stats

import (
	"time"

	"github.com/satriohadi/sewateman/internal/booking"
)

// RenterStats is the renter dashboard summary.
type RenterStats struct {
	ActiveCount      int     `json:"active_count"`
	CompletedCount   int     `json:"completed_count"`
	TotalSpent       int64   `json:"total_spent"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
}

// ProviderStats is the provider dashboard summary. RevenueEstimate is a
// forward-looking projection over every booking that was not rejected or
// cancelled, not a realized-payment total.
type ProviderStats struct {
	TotalToday       int     `json:"total_today"`
	TotalWeek        int     `json:"total_week"`
	RevenueEstimate  int64   `json:"revenue_estimate"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
	PendingCount     int     `json:"pending_count"`
	ApprovedCount    int     `json:"approved_count"`
	RejectedCount    int     `json:"rejected_count"`
}

// ForRenter folds a renter's bookings into dashboard counters. Pure over its
// inputs: recomputing on the same collection and clock yields identical
// output. Completion is derived from the booking window, not trusted from the
// stored status.
func ForRenter(bookings []*booking.Booking, now time.Time) RenterStats {
	var s RenterStats
	var completedWithDuration int

	for _, b := range bookings {
		switch b.EffectiveStatus(now) {
		case booking.StatusPending, booking.StatusApproved:
			s.ActiveCount++
		case booking.StatusCompleted:
			s.CompletedCount++
			s.TotalSpent += b.TotalAmount
			if b.DurationHours > 0 {
				s.AvgDurationHours += float64(b.DurationHours)
				completedWithDuration++
			}
		}
	}

	if completedWithDuration > 0 {
		s.AvgDurationHours /= float64(completedWithDuration)
	} else {
		s.AvgDurationHours = 0
	}

	return s
}

// ForProvider folds a provider's bookings into dashboard counters. Cancelled
// bookings land in the rejected bucket for display purposes.
func ForProvider(bookings []*booking.Booking, now time.Time) ProviderStats {
	var s ProviderStats
	var completedWithDuration int

	dayStart := startOfDay(now)
	weekStart := startOfWeek(now)

	for _, b := range bookings {
		status := b.EffectiveStatus(now)

		if sameDay(b.BookingDate, dayStart) {
			s.TotalToday++
		}
		if !b.BookingDate.Before(weekStart) && b.BookingDate.Before(weekStart.AddDate(0, 0, 7)) {
			s.TotalWeek++
		}

		switch status {
		case booking.StatusPending:
			s.PendingCount++
		case booking.StatusApproved:
			s.ApprovedCount++
		case booking.StatusRejected, booking.StatusCancelled:
			s.RejectedCount++
		case booking.StatusCompleted:
			if b.DurationHours > 0 {
				s.AvgDurationHours += float64(b.DurationHours)
				completedWithDuration++
			}
		}

		if status != booking.StatusRejected && status != booking.StatusCancelled {
			s.RevenueEstimate += b.TotalAmount
		}
	}

	if completedWithDuration > 0 {
		s.AvgDurationHours /= float64(completedWithDuration)
	} else {
		s.AvgDurationHours = 0
	}

	return s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the current week's Monday.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
