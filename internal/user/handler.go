package user

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/satriohadi/sewateman/internal/transport"
	"github.com/satriohadi/sewateman/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, id int64) (*User, error)
	ListProviders(ctx context.Context, limit, offset int) ([]*User, error)
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

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetProfile: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	limit, offset := 20, 0
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

	providers, err := h.Service.ListProviders(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error("ListProviders: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"limit":     limit,
		"offset":    offset,
	})
}
