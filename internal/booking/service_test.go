package booking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/core/events"
	"github.com/satriohadi/sewateman/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	bookings map[int64]*Booking

	createErr       error
	updateErr       error
	updateRows      int64
	forceUpdateRows bool

	updateCalls []updateCall
}

type updateCall struct {
	id   int64
	from Status
	to   Status
	note *string
}

func newMockRepository() *mockRepository {
	return &mockRepository{bookings: make(map[int64]*Booking)}
}

func (m *mockRepository) Create(_ context.Context, b *Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	b.ID = int64(len(m.bookings) + 1)
	m.bookings[b.ID] = b
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *b
	return &copied, nil
}

func (m *mockRepository) GetByRenterID(_ context.Context, renterID int64, _, _ int) ([]*Booking, error) {
	var result []*Booking
	for _, b := range m.bookings {
		if b.RenterID == renterID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockRepository) GetByProviderID(_ context.Context, providerID int64, _, _ int) ([]*Booking, error) {
	var result []*Booking
	for _, b := range m.bookings {
		if b.ProviderID != nil && *b.ProviderID == providerID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockRepository) GetBetweenParties(_ context.Context, _, _ int64) ([]*Booking, error) {
	return nil, nil
}

func (m *mockRepository) ListByStatus(_ context.Context, status Status, _ int) ([]*Booking, error) {
	var result []*Booking
	for _, b := range m.bookings {
		if b.Status == status {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id int64, from, to Status, note *string, updatedAt time.Time) (int64, error) {
	m.updateCalls = append(m.updateCalls, updateCall{id: id, from: from, to: to, note: note})
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	if m.forceUpdateRows {
		return m.updateRows, nil
	}

	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return 0, nil
	}
	b.Status = to
	b.UpdatedAt = updatedAt
	if note != nil {
		b.Notes = note
	}
	return 1, nil
}

func (m *mockRepository) AttachPayment(_ context.Context, bookingID, paymentID int64, _ time.Time) error {
	if b, ok := m.bookings[bookingID]; ok {
		b.PaymentID = &paymentID
	}
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *mockPublisher) Publish(_ context.Context, event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) published() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.events...)
}

var _ = Describe("Booking Service", func() {
	var (
		repo      *mockRepository
		publisher *mockPublisher
		service   *Service
		ctx       context.Context

		providerID int64
		renterID   int64
		adminActor Actor
	)

	// seedBooking stores a booking scheduled for tomorrow so clock-dependent
	// guards behave the same regardless of when the suite runs.
	seedBooking := func(status Status) *Booking {
		tomorrow := time.Now().AddDate(0, 0, 1)
		pid := providerID
		b := &Booking{
			RenterID:      renterID,
			ProviderID:    &pid,
			BookingDate:   time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC),
			BookingTime:   "14:00",
			DurationHours: 2,
			PackageName:   "City Tour",
			TotalAmount:   150000,
			Status:        status,
			CreatedAt:     time.Now(),
		}
		Expect(repo.Create(ctx, b)).To(Succeed())
		return b
	}

	BeforeEach(func() {
		repo = newMockRepository()
		publisher = &mockPublisher{}
		service = NewService(repo, publisher, slog.Default())
		ctx = context.Background()

		providerID = 7
		renterID = 3
		adminActor = Actor{ID: 99, Role: user.RoleAdmin}
	})

	Describe("Create", func() {
		It("should store a pending booking", func() {
			b, err := service.Create(ctx, renterID, CreateBookingDTO{
				ProviderID:    providerID,
				BookingDate:   "2026-09-15",
				BookingTime:   "14:00",
				DurationHours: 2,
				PackageName:   "City Tour",
				TotalAmount:   150000,
				Notes:         "  meet at the station  ",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(b.ID).To(BeNumerically(">", 0))
			Expect(b.Status).To(Equal(StatusPending))
			Expect(*b.Notes).To(Equal("meet at the station"))
		})

		It("should reject an invalid payload", func() {
			_, err := service.Create(ctx, renterID, CreateBookingDTO{
				ProviderID:    providerID,
				BookingDate:   "15-09-2026",
				BookingTime:   "14:00",
				DurationHours: 2,
				PackageName:   "City Tour",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidSchedule))
		})
	})

	Describe("Transition guards", func() {
		It("should answer invalid transition for every event on a terminal booking", func() {
			for _, status := range []Status{StatusRejected, StatusCancelled, StatusCompleted} {
				b := seedBooking(status)

				actors := map[Event]Actor{
					EventApprove:     {ID: providerID, Role: user.RoleProvider},
					EventReject:      {ID: providerID, Role: user.RoleProvider},
					EventCancel:      {ID: renterID, Role: user.RoleRenter},
					EventAdminCancel: adminActor,
					EventComplete:    {Role: "system"},
				}

				for event, actor := range actors {
					_, err := service.Transition(ctx, b.ID, event, actor, "some note")
					Expect(err).To(Equal(internal.ErrInvalidTransition),
						"status %s event %s", status, event)
				}
			}
		})

		It("should check the status guard before ownership", func() {
			b := seedBooking(StatusCompleted)

			// A stranger on a terminal booking still gets invalid transition,
			// not a permission error.
			_, err := service.Transition(ctx, b.ID, EventApprove, Actor{ID: 12345, Role: user.RoleProvider}, "")
			Expect(err).To(Equal(internal.ErrInvalidTransition))
		})

		It("should refuse approval by anyone but the booked provider", func() {
			b := seedBooking(StatusPending)

			_, err := service.Transition(ctx, b.ID, EventApprove, Actor{ID: 555, Role: user.RoleProvider}, "")
			Expect(err).To(Equal(internal.ErrNotBookingParty))

			_, err = service.Transition(ctx, b.ID, EventApprove, Actor{ID: renterID, Role: user.RoleRenter}, "")
			Expect(err).To(Equal(internal.ErrNotBookingParty))
		})

		It("should require a non-empty note for rejection", func() {
			b := seedBooking(StatusPending)
			actor := Actor{ID: providerID, Role: user.RoleProvider}

			_, err := service.Transition(ctx, b.ID, EventReject, actor, "   ")
			Expect(err).To(Equal(internal.ErrNoteRequired))

			// The underlying row is untouched.
			stored, _ := repo.GetByID(ctx, b.ID)
			Expect(stored.Status).To(Equal(StatusPending))
		})

		It("should require a note for admin cancellation", func() {
			b := seedBooking(StatusApproved)

			_, err := service.Transition(ctx, b.ID, EventAdminCancel, adminActor, "")
			Expect(err).To(Equal(internal.ErrNoteRequired))
		})
	})

	Describe("Transition outcomes", func() {
		It("should approve a pending booking and publish the change", func() {
			b := seedBooking(StatusPending)

			updated, err := service.Transition(ctx, b.ID, EventApprove, Actor{ID: providerID, Role: user.RoleProvider}, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusApproved))

			published := publisher.published()
			Expect(published).To(HaveLen(1))
			ev := published[0].(*events.BookingStatusChangedEvent)
			Expect(ev.OldStatus).To(Equal("pending"))
			Expect(ev.NewStatus).To(Equal("approved"))
			Expect(ev.ActorRole).To(Equal(user.RoleProvider))
		})

		It("should reject with the trimmed note persisted", func() {
			b := seedBooking(StatusPending)

			updated, err := service.Transition(ctx, b.ID, EventReject, Actor{ID: providerID, Role: user.RoleProvider}, "  fully booked that day  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusRejected))
			Expect(*updated.Notes).To(Equal("fully booked that day"))
		})

		It("should let the renter cancel before the session starts", func() {
			b := seedBooking(StatusApproved)

			updated, err := service.Transition(ctx, b.ID, EventCancel, Actor{ID: renterID, Role: user.RoleRenter}, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusCancelled))
		})

		It("should map a lost compare-and-set race to invalid transition", func() {
			b := seedBooking(StatusPending)
			repo.forceUpdateRows = true
			repo.updateRows = 0

			_, err := service.Transition(ctx, b.ID, EventApprove, Actor{ID: providerID, Role: user.RoleProvider}, "")
			Expect(err).To(Equal(internal.ErrInvalidTransition))
			Expect(publisher.published()).To(BeEmpty())
		})

		It("should not publish anything when the store write fails", func() {
			b := seedBooking(StatusPending)
			repo.updateErr = errors.New("connection reset")

			_, err := service.Transition(ctx, b.ID, EventApprove, Actor{ID: providerID, Role: user.RoleProvider}, "")
			Expect(err).To(HaveOccurred())
			Expect(publisher.published()).To(BeEmpty())
		})
	})

	Describe("CompleteElapsed", func() {
		It("should complete approved bookings whose window has passed", func() {
			pid := providerID
			yesterday := time.Now().AddDate(0, 0, -1)
			elapsed := &Booking{
				RenterID:      renterID,
				ProviderID:    &pid,
				BookingDate:   time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC),
				BookingTime:   "10:00",
				DurationHours: 1,
				PackageName:   "Museum Visit",
				Status:        StatusApproved,
			}
			Expect(repo.Create(ctx, elapsed)).To(Succeed())
			upcoming := seedBooking(StatusApproved)

			completed, err := service.CompleteElapsed(ctx, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(completed).To(ConsistOf(elapsed.ID))

			stored, _ := repo.GetByID(ctx, elapsed.ID)
			Expect(stored.Status).To(Equal(StatusCompleted))

			untouched, _ := repo.GetByID(ctx, upcoming.ID)
			Expect(untouched.Status).To(Equal(StatusApproved))
		})

		It("should publish a system-actor change for each completion", func() {
			pid := providerID
			yesterday := time.Now().AddDate(0, 0, -1)
			elapsed := &Booking{
				RenterID:      renterID,
				ProviderID:    &pid,
				BookingDate:   time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC),
				BookingTime:   "10:00",
				DurationHours: 1,
				PackageName:   "Museum Visit",
				Status:        StatusApproved,
			}
			Expect(repo.Create(ctx, elapsed)).To(Succeed())

			_, err := service.CompleteElapsed(ctx, 100)
			Expect(err).NotTo(HaveOccurred())

			published := publisher.published()
			Expect(published).To(HaveLen(1))
			ev := published[0].(*events.BookingStatusChangedEvent)
			Expect(ev.NewStatus).To(Equal("completed"))
			Expect(ev.ActorRole).To(Equal("system"))
		})
	})

	Describe("GetByID", func() {
		It("should hide bookings from strangers", func() {
			b := seedBooking(StatusPending)

			_, err := service.GetByID(ctx, b.ID, Actor{ID: 12345, Role: user.RoleRenter})
			Expect(err).To(Equal(internal.ErrNotBookingParty))
		})

		It("should let admins read any booking", func() {
			b := seedBooking(StatusPending)

			got, err := service.GetByID(ctx, b.ID, adminActor)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(b.ID))
		})

		It("should report the effective status on reads", func() {
			pid := providerID
			yesterday := time.Now().AddDate(0, 0, -1)
			elapsed := &Booking{
				RenterID:      renterID,
				ProviderID:    &pid,
				BookingDate:   time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC),
				BookingTime:   "10:00",
				DurationHours: 1,
				PackageName:   "Museum Visit",
				Status:        StatusApproved,
			}
			Expect(repo.Create(ctx, elapsed)).To(Succeed())

			got, err := service.GetByID(ctx, elapsed.ID, Actor{ID: renterID, Role: user.RoleRenter})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(StatusCompleted))

			// The stored row is still approved; only the view changed.
			stored, _ := repo.GetByID(ctx, elapsed.ID)
			Expect(stored.Status).To(Equal(StatusApproved))
		})
	})
})
