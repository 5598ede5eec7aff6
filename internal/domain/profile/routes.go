package profile

import (
	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the read-only pilot listing router
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/availability", h.GetAvailability)

	return r
}

// RegisterOwnerRoutes adds the pilot-only profile mutations to r.
// The caller applies authentication and the pilot role check.
func (h *Handler) RegisterOwnerRoutes(r chi.Router) {
	r.Post("/", h.Update)
	r.Post("/services", h.AddService)
	r.Post("/portfolio", h.UploadPortfolio)
}
