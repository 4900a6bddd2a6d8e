package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/bencohensolal/seniorhub/internal/handler"
	"github.com/bencohensolal/seniorhub/pkg/middleware"
)

func SetupRoutes(
	r chi.Router,
	h *handler.Handler,
	auth *middleware.Auth,
	rdb *redis.Client,
) chi.Router {
	// ---- Global Middleware ----
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Global rate limiting (skipped when redis is not configured)
	if rdb != nil {
		r.Use(middleware.GlobalRateLimit(rdb, 100, time.Minute, "global"))
	}

	// ============================================================
	// Public Endpoints
	// ============================================================
	r.Get("/health", h.Health)
	r.Get("/api/v1/invitations/resolve", h.ResolveInvitation)
	r.Get("/api/v1/invitations/accept-link", h.AcceptLinkRedirect)

	// ============================================================
	// Authenticated Endpoints
	// ============================================================
	r.Route("/api/v1", func(pr chi.Router) {
		pr.Use(auth.Require)

		// ---------------- Households ----------------
		pr.Route("/households", func(hh chi.Router) {
			hh.Post("/", h.CreateHousehold)
			hh.Get("/", h.ListUserHouseholds)

			hh.Route("/{householdID}", func(one chi.Router) {
				one.Get("/overview", h.GetHouseholdOverview)
				one.Get("/members", h.ListHouseholdMembers)
				one.Patch("/members/{memberID}/role", h.UpdateMemberRole)
				one.Delete("/members/{memberID}", h.RemoveMember)
				one.Post("/leave", h.LeaveHousehold)

				// ---------------- Invitations (caregiver scope) ----------------
				one.Post("/invitations", h.CreateBulkInvitations)
				one.Get("/invitations", h.ListHouseholdInvitations)
				one.Delete("/invitations/{invitationID}", h.CancelInvitation)
				one.Post("/invitations/{invitationID}/resend", h.ResendInvitation)

				// ---------------- Medications ----------------
				one.Route("/medications", func(med chi.Router) {
					med.Get("/", h.ListMedications)
					med.Post("/", h.CreateMedication)
					med.Put("/{medicationID}", h.UpdateMedication)
					med.Delete("/{medicationID}", h.DeleteMedication)

					med.Get("/{medicationID}/reminders", h.ListReminders)
					med.Post("/{medicationID}/reminders", h.CreateReminder)
					med.Put("/reminders/{reminderID}", h.UpdateReminder)
					med.Delete("/reminders/{reminderID}", h.DeleteReminder)
				})
			})
		})

		// ---------------- Invitee-side Invitations ----------------
		pr.Route("/invitations", func(inv chi.Router) {
			inv.Get("/pending", h.ListMyPendingInvitations)
			inv.Post("/accept", h.AcceptInvitation)
			inv.Post("/auto-accept", h.AutoAcceptInvitations)
		})

		// ---------------- Observability ----------------
		pr.Get("/observability/email-metrics", h.EmailMetrics)
	})

	return r
}
