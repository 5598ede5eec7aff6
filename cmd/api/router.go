package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/skyhire/skyhire-api/internal/domain/auth"
	"github.com/skyhire/skyhire-api/internal/domain/availability"
	"github.com/skyhire/skyhire-api/internal/domain/booking"
	"github.com/skyhire/skyhire-api/internal/domain/notification"
	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/search"
	"github.com/skyhire/skyhire-api/internal/middleware"
	"github.com/skyhire/skyhire-api/internal/pkg/jwt"
	pkgresponse "github.com/skyhire/skyhire-api/internal/pkg/response"
)

type routerDeps struct {
	jwt            *jwt.Service
	allowedOrigins []string
	uploadsDir     string // served under /uploads when storage is local

	auth         *auth.Handler
	profiles     *profile.Handler
	availability *availability.Handler
	bookings     *booking.Handler
	search       *search.Handler
	ws           *notification.Handler
}

func newRouter(d *routerDeps) http.Handler {
	authMiddleware := middleware.Auth(d.jwt)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(d.allowedOrigins))

	// WebSocket endpoint; browsers cannot set headers so the token comes in the query
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(d.ws.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if d.uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.uploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Post("/register", d.auth.Register)
		r.Post("/login", d.auth.Login)
		r.Mount("/auth", d.auth.Routes(authMiddleware))

		r.Mount("/pilots", d.profiles.PublicRoutes())

		r.Route("/profile", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequirePilot())
			d.profiles.RegisterOwnerRoutes(r)
			r.Post("/availability", d.availability.Publish)
		})

		r.With(authMiddleware, middleware.RequireClient()).Post("/book", d.bookings.Book)
		r.Mount("/bookings", d.bookings.Routes(authMiddleware))

		r.Post("/search", d.search.Search)
	})

	return r
}
