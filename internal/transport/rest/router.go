package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/satriohadi/sewateman/internal/auth"
	"github.com/satriohadi/sewateman/internal/booking"
	"github.com/satriohadi/sewateman/internal/chat"
	"github.com/satriohadi/sewateman/internal/notification"
	"github.com/satriohadi/sewateman/internal/payment"
	"github.com/satriohadi/sewateman/internal/stats"
	"github.com/satriohadi/sewateman/internal/transport/middleware"
	"github.com/satriohadi/sewateman/internal/transport/swagger"
	"github.com/satriohadi/sewateman/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Booking      *booking.Handler
	Payment      *payment.Handler
	Chat         *chat.Handler
	Stats        *stats.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Public provider directory
		r.Get("/providers", h.User.ListProviders)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetMe)
			pr.Get("/users/{id}", h.User.GetProfile)

			pr.Route("/bookings", func(br chi.Router) {
				br.Post("/", h.Booking.CreateBooking)
				br.Get("/", h.Booking.ListBookings)
				br.Get("/{id}", h.Booking.GetBooking)
				br.Get("/{id}/payment", h.Payment.GetBookingPayment)

				br.Group(func(rr chi.Router) {
					rr.Use(auth.RequireRole(logger, user.RoleRenter))
					rr.Patch("/{id}/cancel", h.Booking.CancelBooking)
				})

				br.Group(func(vr chi.Router) {
					vr.Use(auth.RequireRole(logger, user.RoleProvider))
					vr.Patch("/{id}/approve", h.Booking.ApproveBooking)
					vr.Patch("/{id}/reject", h.Booking.RejectBooking)
				})

				br.Group(func(ar chi.Router) {
					ar.Use(auth.RequireRole(logger, user.RoleAdmin))
					ar.Patch("/{id}/admin-cancel", h.Booking.AdminCancelBooking)
				})
			})

			pr.Route("/payments", func(pmr chi.Router) {
				pmr.Group(func(rr chi.Router) {
					rr.Use(auth.RequireRole(logger, user.RoleRenter))
					rr.Post("/", h.Payment.InitiatePayment)
					rr.Patch("/{id}/proof", h.Payment.SubmitProof)
				})

				pmr.Group(func(ar chi.Router) {
					ar.Use(auth.RequireRole(logger, user.RoleAdmin))
					ar.Get("/pending", h.Payment.ListPendingValidation)
					ar.Patch("/{id}/validate", h.Payment.ValidatePayment)
				})
			})

			pr.Route("/chat", func(cr chi.Router) {
				cr.Get("/{userID}/eligibility", h.Chat.GetEligibility)
				cr.Get("/{userID}/messages", h.Chat.GetHistory)
				cr.Post("/{userID}/messages", h.Chat.SendMessage)
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Group(func(rr chi.Router) {
					rr.Use(auth.RequireRole(logger, user.RoleRenter))
					rr.Get("/renter", h.Stats.RenterDashboard)
				})
				dr.Group(func(vr chi.Router) {
					vr.Use(auth.RequireRole(logger, user.RoleProvider))
					vr.Get("/provider", h.Stats.ProviderDashboard)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.ListNotifications)
				nr.Patch("/{id}/read", h.Notification.MarkNotificationRead)
			})
		})
	})
}
