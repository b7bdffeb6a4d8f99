package booking

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/satriohadi/sewateman/internal/auth"
	"github.com/satriohadi/sewateman/internal/transport"
	"github.com/satriohadi/sewateman/internal/user"
	"github.com/satriohadi/sewateman/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, renterID int64, dto CreateBookingDTO) (*Booking, error)
	GetByID(ctx context.Context, id int64, actor Actor) (*Booking, error)
	ListForRenter(ctx context.Context, renterID int64, limit, offset int) ([]*Booking, error)
	ListForProvider(ctx context.Context, providerID int64, limit, offset int) ([]*Booking, error)
	Transition(ctx context.Context, bookingID int64, event Event, actor Actor, note string) (*Booking, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.Logger.Error("CreateBooking: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateBookingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBooking: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.Create(r.Context(), u.ID, dto)
	if err != nil {
		h.Logger.Error("CreateBooking: service error", "error", err, "renter_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.bookingID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid booking ID")
		return
	}

	b, err := h.Service.GetByID(r.Context(), id, Actor{ID: u.ID, Role: u.Role})
	if err != nil {
		h.Logger.Error("GetBooking: service error", "error", err, "booking_id", id, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

// ListBookings returns the caller's bookings: renters see what they booked,
// providers see what was booked with them.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)

	var (
		bookings []*Booking
		err      error
	)
	if u.Role == user.RoleProvider {
		bookings, err = h.Service.ListForProvider(r.Context(), u.ID, limit, offset)
	} else {
		bookings, err = h.Service.ListForRenter(r.Context(), u.ID, limit, offset)
	}
	if err != nil {
		h.Logger.Error("ListBookings: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, EventApprove)
}

func (h *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, EventReject)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, EventCancel)
}

func (h *Handler) AdminCancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, EventAdminCancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, event Event) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.bookingID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid booking ID")
		return
	}

	// Body is optional for approve and cancel; decode errors on an empty body
	// are fine.
	var dto TransitionDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	b, err := h.Service.Transition(r.Context(), id, event, Actor{ID: u.ID, Role: u.Role}, dto.TrimmedNote())
	if err != nil {
		h.Logger.Error("transition failed",
			"error", err, "booking_id", id, "event", event, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) bookingID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
