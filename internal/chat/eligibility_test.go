package chat

import (
	"testing"
	"time"

	"github.com/satriohadi/sewateman/internal/booking"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestChat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chat Suite")
}

var _ = Describe("ResolveEligibility", func() {
	var providerID int64

	// sessionBooking is scheduled 2026-03-10 14:00-16:00 UTC.
	sessionBooking := func(id int64, status booking.Status, createdAt time.Time) *booking.Booking {
		pid := providerID
		return &booking.Booking{
			ID:            id,
			RenterID:      3,
			ProviderID:    &pid,
			BookingDate:   time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			BookingTime:   "14:00",
			DurationHours: 2,
			Status:        status,
			CreatedAt:     createdAt,
		}
	}

	during := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	before := time.Date(2026, time.March, 10, 13, 0, 0, 0, time.UTC)
	after := time.Date(2026, time.March, 10, 16, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		providerID = 7
	})

	It("should disable chat when there are no bookings", func() {
		Expect(ResolveEligibility(nil, during)).To(Equal(EligibilityDisabled))
	})

	It("should enable chat during an approved paid session", func() {
		bookings := []*booking.Booking{sessionBooking(1, booking.StatusApproved, during.Add(-48*time.Hour))}
		Expect(ResolveEligibility(bookings, during)).To(Equal(EligibilityEnabled))
	})

	It("should disable chat before the session starts", func() {
		bookings := []*booking.Booking{sessionBooking(1, booking.StatusApproved, before.Add(-48*time.Hour))}
		Expect(ResolveEligibility(bookings, before)).To(Equal(EligibilityDisabled))
	})

	It("should turn read-only once the window ends", func() {
		bookings := []*booking.Booking{sessionBooking(1, booking.StatusApproved, during.Add(-48*time.Hour))}
		Expect(ResolveEligibility(bookings, after)).To(Equal(EligibilityReadOnly))
	})

	It("should be read-only for a completed booking regardless of clock", func() {
		bookings := []*booking.Booking{sessionBooking(1, booking.StatusCompleted, during.Add(-48*time.Hour))}
		Expect(ResolveEligibility(bookings, before)).To(Equal(EligibilityReadOnly))
		Expect(ResolveEligibility(bookings, during)).To(Equal(EligibilityReadOnly))
		Expect(ResolveEligibility(bookings, after)).To(Equal(EligibilityReadOnly))
	})

	It("should disable chat for cancelled and rejected bookings", func() {
		for _, s := range []booking.Status{booking.StatusCancelled, booking.StatusRejected} {
			bookings := []*booking.Booking{sessionBooking(1, s, during.Add(-48*time.Hour))}
			Expect(ResolveEligibility(bookings, during)).To(Equal(EligibilityDisabled))
		}
	})

	It("should treat a pending booking with a payment reference as paid", func() {
		paymentID := int64(42)
		b := sessionBooking(1, booking.StatusPending, during.Add(-48*time.Hour))
		b.PaymentID = &paymentID

		Expect(ResolveEligibility([]*booking.Booking{b}, during)).To(Equal(EligibilityEnabled))
	})

	It("should keep an unpaid pending booking disabled during its window", func() {
		bookings := []*booking.Booking{sessionBooking(1, booking.StatusPending, during.Add(-48*time.Hour))}
		Expect(ResolveEligibility(bookings, during)).To(Equal(EligibilityDisabled))
	})

	It("should let only the latest booking decide", func() {
		old := sessionBooking(1, booking.StatusApproved, during.Add(-96*time.Hour))
		latest := sessionBooking(2, booking.StatusCancelled, during.Add(-48*time.Hour))

		// The older approved booking would enable chat on its own; the newer
		// cancelled one wins.
		Expect(ResolveEligibility([]*booking.Booking{old, latest}, during)).To(Equal(EligibilityDisabled))
		Expect(ResolveEligibility([]*booking.Booking{latest, old}, during)).To(Equal(EligibilityDisabled))
	})

	It("should break created_at ties by the higher id", func() {
		created := during.Add(-48 * time.Hour)
		lowID := sessionBooking(1, booking.StatusApproved, created)
		highID := sessionBooking(2, booking.StatusCancelled, created)

		Expect(ResolveEligibility([]*booking.Booking{lowID, highID}, during)).To(Equal(EligibilityDisabled))
	})

	It("should fail closed on a booking without a provider", func() {
		b := sessionBooking(1, booking.StatusApproved, during.Add(-48*time.Hour))
		b.ProviderID = nil
		Expect(ResolveEligibility([]*booking.Booking{b}, during)).To(Equal(EligibilityDisabled))
	})

	It("should fail closed on an unparseable schedule", func() {
		b := sessionBooking(1, booking.StatusApproved, during.Add(-48*time.Hour))
		b.BookingTime = "whenever"
		Expect(ResolveEligibility([]*booking.Booking{b}, during)).To(Equal(EligibilityDisabled))
	})
})
