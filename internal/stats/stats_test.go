package stats

import (
	"testing"
	"time"

	"github.com/satriohadi/sewateman/internal/booking"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStats(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stats Suite")
}

// now is a Wednesday; the week under test runs Monday March 9 through Sunday
// March 15, 2026.
var now = time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)

func fixture(status booking.Status, date time.Time, hours int, amount int64) *booking.Booking {
	pid := int64(7)
	return &booking.Booking{
		RenterID:      3,
		ProviderID:    &pid,
		BookingDate:   date,
		BookingTime:   "10:00",
		DurationHours: hours,
		TotalAmount:   amount,
		Status:        status,
	}
}

var _ = Describe("ForRenter", func() {
	It("should return zeroes for an empty collection", func() {
		Expect(ForRenter(nil, now)).To(Equal(RenterStats{}))
	})

	It("should count pending and approved as active", func() {
		future := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		bookings := []*booking.Booking{
			fixture(booking.StatusPending, future, 2, 100),
			fixture(booking.StatusApproved, future, 2, 100),
			fixture(booking.StatusRejected, future, 2, 100),
		}

		s := ForRenter(bookings, now)
		Expect(s.ActiveCount).To(Equal(2))
		Expect(s.CompletedCount).To(BeZero())
	})

	It("should sum spend over completed bookings only", func() {
		past := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
		future := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		bookings := []*booking.Booking{
			fixture(booking.StatusCompleted, past, 2, 150000),
			fixture(booking.StatusApproved, past, 4, 300000), // elapsed: effectively completed
			fixture(booking.StatusApproved, future, 2, 999999),
			fixture(booking.StatusCancelled, past, 2, 500000),
		}

		s := ForRenter(bookings, now)
		Expect(s.CompletedCount).To(Equal(2))
		Expect(s.TotalSpent).To(Equal(int64(450000)))
		Expect(s.AvgDurationHours).To(Equal(3.0))
		Expect(s.ActiveCount).To(Equal(1))
	})

	It("should be deterministic for a fixed collection and clock", func() {
		past := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
		bookings := []*booking.Booking{
			fixture(booking.StatusCompleted, past, 2, 150000),
			fixture(booking.StatusPending, past, 3, 50000),
		}

		first := ForRenter(bookings, now)
		second := ForRenter(bookings, now)
		Expect(second).To(Equal(first))
	})
})

var _ = Describe("ForProvider", func() {
	It("should count today and the Monday-start week by booking date", func() {
		bookings := []*booking.Booking{
			fixture(booking.StatusPending, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), 2, 100), // today
			fixture(booking.StatusPending, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), 2, 100),  // Monday
			fixture(booking.StatusPending, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), 2, 100), // Sunday
			fixture(booking.StatusPending, time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC), 2, 100),  // previous Sunday
			fixture(booking.StatusPending, time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), 2, 100), // next Monday
		}

		s := ForProvider(bookings, now)
		Expect(s.TotalToday).To(Equal(1))
		Expect(s.TotalWeek).To(Equal(3))
	})

	It("should exclude only rejected and cancelled from the revenue estimate", func() {
		future := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		past := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
		bookings := []*booking.Booking{
			fixture(booking.StatusPending, future, 2, 100000),
			fixture(booking.StatusApproved, future, 2, 200000),
			fixture(booking.StatusCompleted, past, 2, 300000),
			fixture(booking.StatusRejected, future, 2, 400000),
			fixture(booking.StatusCancelled, future, 2, 500000),
		}

		s := ForProvider(bookings, now)
		Expect(s.RevenueEstimate).To(Equal(int64(600000)))
	})

	It("should fold cancelled into the rejected bucket", func() {
		future := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		bookings := []*booking.Booking{
			fixture(booking.StatusRejected, future, 2, 100),
			fixture(booking.StatusCancelled, future, 2, 100),
			fixture(booking.StatusCancelled, future, 2, 100),
		}

		s := ForProvider(bookings, now)
		Expect(s.RejectedCount).To(Equal(3))
		Expect(s.PendingCount).To(BeZero())
	})

	It("should count an elapsed approved booking as completed, not approved", func() {
		past := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
		bookings := []*booking.Booking{
			fixture(booking.StatusApproved, past, 3, 100000),
		}

		s := ForProvider(bookings, now)
		Expect(s.ApprovedCount).To(BeZero())
		Expect(s.AvgDurationHours).To(Equal(3.0))
		Expect(s.RevenueEstimate).To(Equal(int64(100000)))
	})

	Describe("startOfWeek", func() {
		It("should treat Sunday as the last day of the week", func() {
			sunday := time.Date(2026, time.March, 15, 23, 0, 0, 0, time.UTC)
			Expect(startOfWeek(sunday)).To(Equal(time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)))
		})

		It("should return the same Monday for every day of one week", func() {
			monday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
			for d := 0; d < 7; d++ {
				Expect(startOfWeek(monday.AddDate(0, 0, d))).To(Equal(monday))
			}
		})
	})
})
