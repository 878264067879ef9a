package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shift-tracking/internal/auth"
	"github.com/frahmantamala/shift-tracking/internal/company"
	"github.com/frahmantamala/shift-tracking/internal/employee"
	"github.com/frahmantamala/shift-tracking/internal/shift"
	"github.com/frahmantamala/shift-tracking/internal/transport/middleware"
	"github.com/frahmantamala/shift-tracking/internal/transport/swagger"
	"github.com/frahmantamala/shift-tracking/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, companyHandler *company.Handler, employeeHandler *employee.Handler, shiftHandler *shift.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
				if userHandler != nil {
					sr.Post("/register", userHandler.Register)
				}
			})
		}

		// Badge kiosk toggle carries no session; the badge uid is the
		// credential.
		if shiftHandler != nil {
			r.Post("/shifts/badge/{uid}/toggle", shiftHandler.ToggleByBadge)
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.Me)
					pr.Patch("/users/me", userHandler.UpdateMe)
				}

				// Company routes
				if companyHandler != nil {
					pr.Route("/companies", func(cr chi.Router) {
						cr.Get("/", companyHandler.List)
						cr.Post("/", companyHandler.Create)
						cr.Get("/{id}", companyHandler.Get)
						cr.Patch("/{id}", companyHandler.Update)
						cr.Delete("/{id}", companyHandler.Delete)

						if employeeHandler != nil {
							cr.Post("/{id}/accept", employeeHandler.Accept)
							cr.Post("/{id}/decline", employeeHandler.Decline)
							cr.Post("/{id}/employees", employeeHandler.Invite)
						}
						if shiftHandler != nil {
							cr.Get("/{id}/shifts", shiftHandler.ListForCompany)
							cr.Post("/{id}/shifts/toggle", shiftHandler.Toggle)
						}
					})
				}

				// Employee routes
				if employeeHandler != nil {
					pr.Route("/employees", func(er chi.Router) {
						er.Get("/", employeeHandler.ListForOwner)
						er.Get("/{id}", employeeHandler.Get)
						er.Delete("/{id}", employeeHandler.Remove)
					})
				}

				// Shift listing
				if shiftHandler != nil {
					pr.Get("/shifts", shiftHandler.ListOwn)
				}
			})
		}
	})
}
