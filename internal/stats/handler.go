package stats

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/satriohadi/sewateman/internal/auth"
	"github.com/satriohadi/sewateman/internal/booking"
	"github.com/satriohadi/sewateman/internal/transport"
	"github.com/satriohadi/sewateman/pkg/logger"
)

// maxDashboardBookings bounds how much history a dashboard fold reads.
const maxDashboardBookings = 1000

// BookingSource supplies the collections the aggregations fold over.
type BookingSource interface {
	GetByRenterID(ctx context.Context, renterID int64, limit, offset int) ([]*booking.Booking, error)
	GetByProviderID(ctx context.Context, providerID int64, limit, offset int) ([]*booking.Booking, error)
}

type Handler struct {
	*transport.BaseHandler
	bookings BookingSource
}

func NewHandler(bookings BookingSource) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		bookings:    bookings,
	}
}

// RenterDashboard recomputes the renter stats from the current booking
// collection on every call; there is no cross-call state to drift.
func (h *Handler) RenterDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.bookings.GetByRenterID(r.Context(), u.ID, maxDashboardBookings, 0)
	if err != nil {
		h.Logger.Error("RenterDashboard: failed to load bookings", "error", err, "user_id", u.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	h.WriteJSON(w, http.StatusOK, ForRenter(rows, time.Now()))
}

func (h *Handler) ProviderDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.bookings.GetByProviderID(r.Context(), u.ID, maxDashboardBookings, 0)
	if err != nil {
		h.Logger.Error("ProviderDashboard: failed to load bookings", "error", err, "user_id", u.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	h.WriteJSON(w, http.StatusOK, ForProvider(rows, time.Now()))
}
