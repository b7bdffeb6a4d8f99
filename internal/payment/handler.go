package payment

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
	Initiate(ctx context.Context, u *user.User, dto InitiatePaymentDTO) (*Payment, error)
	SubmitProof(ctx context.Context, userID, paymentID int64, dto SubmitProofDTO) (*Payment, error)
	Validate(ctx context.Context, paymentID int64, dto ValidatePaymentDTO) (*Payment, error)
	GetForBooking(ctx context.Context, u *user.User, bookingID int64) (*Payment, error)
	ListPendingValidation(ctx context.Context, limit int) ([]*Payment, error)
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

func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto InitiatePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("InitiatePayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Initiate(r.Context(), u, dto)
	if err != nil {
		h.Logger.Error("InitiatePayment: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.paymentID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var dto SubmitProofDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitProof: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.SubmitProof(r.Context(), u.ID, id, dto)
	if err != nil {
		h.Logger.Error("SubmitProof: service error", "error", err, "payment_id", id, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// ValidatePayment is the admin review action; routing guards it with the
// admin role.
func (h *Handler) ValidatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := h.paymentID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var dto ValidatePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ValidatePayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Validate(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("ValidatePayment: service error", "error", err, "payment_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) GetBookingPayment(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid booking ID")
		return
	}

	p, err := h.Service.GetForBooking(r.Context(), u, bookingID)
	if err != nil {
		h.Logger.Error("GetBookingPayment: service error", "error", err, "booking_id", bookingID, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListPendingValidation(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	payments, err := h.Service.ListPendingValidation(r.Context(), limit)
	if err != nil {
		h.Logger.Error("ListPendingValidation: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
	})
}

func (h *Handler) paymentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
