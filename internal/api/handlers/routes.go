package handlers

import (
	"net/http"
	"time"

	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// NewRouter wires every endpoint onto a chi router with the standard
// middleware chain.
func NewRouter(a *app.App, log zerolog.Logger) http.Handler {
	dashboard := NewDashboardHandler(a)
	categories := NewCategoriesHandler(a, log)
	reviews := NewReviewsHandler(a, log)
	notifications := NewNotificationsHandler(a)
	sessions := NewSessionHandler(a, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", dashboard.GetDashboard)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.ListCategories)
			r.Post("/", categories.CreateCategory)
			r.Patch("/{id}", categories.UpdateCategory)
			r.Delete("/{id}", categories.DeleteCategory)
		})

		r.Post("/extract", reviews.Extract)
		r.Route("/reviews/{id}", func(r chi.Router) {
			r.Get("/", reviews.GetReview)
			r.Patch("/", reviews.EditReview)
			r.Post("/confirm", reviews.ConfirmReview)
			r.Post("/cancel", reviews.CancelReview)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notifications.ListNotifications)
			r.Post("/read", notifications.MarkAllRead)
			r.Post("/{id}/read", notifications.MarkRead)
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/login", sessions.Login)
			r.Get("/", sessions.GetSession)
			r.Put("/", sessions.UpdateProfile)
			r.Delete("/", sessions.Logout)
		})
	})

	return r
}
