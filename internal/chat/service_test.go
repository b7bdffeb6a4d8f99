package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/booking"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockMessageRepo struct {
	messages  []*Message
	createErr error
}

func (m *mockMessageRepo) Create(_ context.Context, msg *Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) GetBetween(_ context.Context, _, _ int64, _, _ int) ([]*Message, error) {
	return m.messages, nil
}

type mockBookingSource struct {
	bookings []*booking.Booking
	err      error
}

func (m *mockBookingSource) GetBetweenParties(_ context.Context, _, _ int64) ([]*booking.Booking, error) {
	return m.bookings, m.err
}

var _ = Describe("Chat Service", func() {
	var (
		repo     *mockMessageRepo
		bookings *mockBookingSource
		service  *Service
		ctx      context.Context
	)

	activeSession := func() *booking.Booking {
		pid := int64(7)
		today := time.Now()
		return &booking.Booking{
			ID:            1,
			RenterID:      3,
			ProviderID:    &pid,
			BookingDate:   time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local),
			BookingTime:   "00:00",
			DurationHours: 24,
			Status:        booking.StatusApproved,
			CreatedAt:     today.Add(-time.Hour),
		}
	}

	BeforeEach(func() {
		repo = &mockMessageRepo{}
		bookings = &mockBookingSource{}
		service = NewService(repo, bookings, slog.Default())
		ctx = context.Background()
	})

	Describe("SendMessage", func() {
		It("should store a trimmed message while the channel is enabled", func() {
			bookings.bookings = []*booking.Booking{activeSession()}

			msg, err := service.SendMessage(ctx, 3, 7, SendMessageDTO{Body: "  halo kak  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Body).To(Equal("halo kak"))
			Expect(repo.messages).To(HaveLen(1))
		})

		It("should refuse sending when no booking links the pair", func() {
			_, err := service.SendMessage(ctx, 3, 7, SendMessageDTO{Body: "halo"})
			Expect(err).To(Equal(internal.ErrChatDisabled))
			Expect(repo.messages).To(BeEmpty())
		})

		It("should refuse sending on a completed relationship", func() {
			b := activeSession()
			b.Status = booking.StatusCompleted
			bookings.bookings = []*booking.Booking{b}

			_, err := service.SendMessage(ctx, 3, 7, SendMessageDTO{Body: "halo"})
			Expect(err).To(Equal(internal.ErrChatReadOnly))
		})

		It("should reject a blank body before touching eligibility", func() {
			_, err := service.SendMessage(ctx, 3, 7, SendMessageDTO{Body: "   "})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("Eligibility", func() {
		It("should fail closed when the booking store errors", func() {
			bookings.err = errors.New("connection refused")

			eligibility, err := service.Eligibility(ctx, 3, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(eligibility).To(Equal(EligibilityDisabled))
		})
	})

	Describe("History", func() {
		It("should hide history entirely while disabled", func() {
			_, _, err := service.History(ctx, 3, 7, 50, 0)
			Expect(err).To(Equal(internal.ErrChatDisabled))
		})

		It("should return history with the current eligibility", func() {
			bookings.bookings = []*booking.Booking{activeSession()}
			_, err := service.SendMessage(ctx, 3, 7, SendMessageDTO{Body: "halo"})
			Expect(err).NotTo(HaveOccurred())

			msgs, eligibility, err := service.History(ctx, 3, 7, 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(eligibility).To(Equal(EligibilityEnabled))
			Expect(msgs).To(HaveLen(1))
		})
	})
})
