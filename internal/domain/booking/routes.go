package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skyhire/skyhire-api/internal/middleware"
)

// Routes returns the /bookings router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.With(middleware.RequireClient()).Post("/requests", h.CreateRequest)
	r.Post("/{id}/respond", h.Respond)
	r.Post("/{id}/release", h.Release)

	return r
}
