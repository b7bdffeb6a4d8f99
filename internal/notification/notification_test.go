package notification

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/core/events"
	"github.com/satriohadi/sewateman/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

type mockRepository struct {
	created   []*Notification
	createErr error

	markReadRows int64
	markReadErr  error
}

func (m *mockRepository) Create(ctx context.Context, n *Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = int64(len(m.created) + 1)
	m.created = append(m.created, n)
	return nil
}

func (m *mockRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Notification, error) {
	var result []*Notification
	for _, n := range m.created {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *mockRepository) MarkRead(ctx context.Context, userID, id int64) (int64, error) {
	return m.markReadRows, m.markReadErr
}

func (m *mockRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range m.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

var _ = Describe("Service", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockRepository{}
		service = NewService(repo, slog.Default())
		ctx = context.Background()
	})

	Describe("Notify", func() {
		It("should persist the notification", func() {
			service.Notify(ctx, &Notification{UserID: 3, Kind: KindBookingApproved, Title: "t", Message: "m"})
			Expect(repo.created).To(HaveLen(1))
			Expect(repo.created[0].UserID).To(Equal(int64(3)))
		})

		It("should swallow repository failures", func() {
			repo.createErr = errors.New("insert failed")
			Expect(func() {
				service.Notify(ctx, &Notification{UserID: 3, Kind: KindBookingApproved})
			}).NotTo(Panic())
			Expect(repo.created).To(BeEmpty())
		})
	})

	Describe("MarkRead", func() {
		It("should succeed when a row was updated", func() {
			repo.markReadRows = 1
			Expect(service.MarkRead(ctx, 3, 10)).To(Succeed())
		})

		It("should return not found when no row matched", func() {
			repo.markReadRows = 0
			err := service.MarkRead(ctx, 3, 10)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotificationNotFound))
		})
	})

	Describe("CountUnread", func() {
		It("should count only unread rows for the user", func() {
			service.Notify(ctx, &Notification{UserID: 3, Kind: KindBookingApproved})
			service.Notify(ctx, &Notification{UserID: 3, Kind: KindBookingRejected, IsRead: true})
			service.Notify(ctx, &Notification{UserID: 7, Kind: KindBookingApproved})

			Expect(service.CountUnread(ctx, 3)).To(Equal(int64(1)))
		})
	})
})

var _ = Describe("EventHandler", func() {
	var (
		repo    *mockRepository
		handler *EventHandler
		ctx     context.Context
	)

	bookingEvent := func(actorRole, newStatus string) *events.BookingStatusChangedEvent {
		return events.NewBookingStatusChangedEvent(10, 3, 7, "pending", newStatus, actorRole, "", "2026-03-10")
	}

	recipientIDs := func() []int64 {
		ids := make([]int64, len(repo.created))
		for i, n := range repo.created {
			ids[i] = n.UserID
		}
		return ids
	}

	BeforeEach(func() {
		repo = &mockRepository{}
		handler = NewEventHandler(NewService(repo, slog.Default()), slog.Default())
		ctx = context.Background()
	})

	Describe("HandleBookingStatusChanged", func() {
		It("should notify the renter when the provider acts", func() {
			err := handler.HandleBookingStatusChanged(ctx, bookingEvent(user.RoleProvider, "approved"))
			Expect(err).NotTo(HaveOccurred())
			Expect(recipientIDs()).To(Equal([]int64{3}))
			Expect(repo.created[0].Kind).To(Equal(KindBookingApproved))
		})

		It("should notify the provider when the renter cancels", func() {
			err := handler.HandleBookingStatusChanged(ctx, bookingEvent(user.RoleRenter, "cancelled"))
			Expect(err).NotTo(HaveOccurred())
			Expect(recipientIDs()).To(Equal([]int64{7}))
			Expect(repo.created[0].Kind).To(Equal(KindBookingCancelled))
		})

		It("should notify both parties when an admin cancels", func() {
			err := handler.HandleBookingStatusChanged(ctx, bookingEvent(user.RoleAdmin, "cancelled"))
			Expect(err).NotTo(HaveOccurred())
			Expect(recipientIDs()).To(ConsistOf(int64(3), int64(7)))
		})

		It("should notify the renter on a system completion", func() {
			err := handler.HandleBookingStatusChanged(ctx, bookingEvent("system", "completed"))
			Expect(err).NotTo(HaveOccurred())
			Expect(recipientIDs()).To(Equal([]int64{3}))
			Expect(repo.created[0].Kind).To(Equal(KindBookingCompleted))
		})

		It("should skip a renter cancellation on a booking without a provider", func() {
			e := events.NewBookingStatusChangedEvent(10, 3, 0, "pending", "cancelled", user.RoleRenter, "", "2026-03-10")
			Expect(handler.HandleBookingStatusChanged(ctx, e)).To(Succeed())
			Expect(repo.created).To(BeEmpty())
		})

		It("should attach the booking reference", func() {
			Expect(handler.HandleBookingStatusChanged(ctx, bookingEvent(user.RoleProvider, "approved"))).To(Succeed())
			n := repo.created[0]
			Expect(n.RelatedID).NotTo(BeNil())
			Expect(*n.RelatedID).To(Equal(int64(10)))
			Expect(n.RelatedType).NotTo(BeNil())
			Expect(*n.RelatedType).To(Equal(RelatedTypeBooking))
		})

		It("should include the rejection reason in the message", func() {
			e := events.NewBookingStatusChangedEvent(10, 3, 7, "pending", "rejected", user.RoleProvider, "fully booked", "2026-03-10")
			Expect(handler.HandleBookingStatusChanged(ctx, e)).To(Succeed())
			Expect(repo.created[0].Message).To(Equal("Your booking for 2026-03-10 was rejected. Reason: fully booked"))
		})

		It("should fail on an unexpected payload type", func() {
			e := events.NewPaymentValidatedEvent(1, 10, 3, 100, "approved", "")
			Expect(handler.HandleBookingStatusChanged(ctx, e)).To(HaveOccurred())
		})
	})

	Describe("HandlePaymentValidated", func() {
		It("should notify the renter when a payment is confirmed", func() {
			e := events.NewPaymentValidatedEvent(5, 10, 3, 150000, "approved", "")
			Expect(handler.HandlePaymentValidated(ctx, e)).To(Succeed())

			n := repo.created[0]
			Expect(n.UserID).To(Equal(int64(3)))
			Expect(n.Kind).To(Equal(KindPaymentApproved))
			Expect(n.Message).To(Equal("Your payment of IDR 150000 has been confirmed."))
			Expect(n.RelatedType).NotTo(BeNil())
			Expect(*n.RelatedType).To(Equal(RelatedTypePayment))
		})

		It("should carry the admin notes on a rejection", func() {
			e := events.NewPaymentValidatedEvent(5, 10, 3, 150000, "rejected", "blurry receipt")
			Expect(handler.HandlePaymentValidated(ctx, e)).To(Succeed())

			n := repo.created[0]
			Expect(n.Kind).To(Equal(KindPaymentRejected))
			Expect(n.Message).To(Equal("Your payment of IDR 150000 was rejected. Reason: blurry receipt"))
		})
	})
})

var _ = Describe("Message templates", func() {
	It("should mention the cancellation reason only when one exists", func() {
		_, withNote := BookingMessage(KindBookingCancelled, "2026-03-10", "double booked")
		Expect(withNote).To(Equal("The booking for 2026-03-10 has been cancelled. Reason: double booked"))

		_, withoutNote := BookingMessage(KindBookingCancelled, "2026-03-10", "")
		Expect(withoutNote).To(Equal("The booking for 2026-03-10 has been cancelled."))
	})

	It("should return empty strings for an unknown kind", func() {
		title, message := BookingMessage("unknown_kind", "2026-03-10", "")
		Expect(title).To(BeEmpty())
		Expect(message).To(BeEmpty())
	})
})
