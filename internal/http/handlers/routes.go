package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/trailmark/experiences-api/internal/domain"
	mw "github.com/trailmark/experiences-api/internal/http/middleware"
)

// Routes mounts the API surface. Auth endpoints sit behind the rate
// limiter; every mutation behind bearer auth plus its role gate.
func Routes(h *Handlers, authn *mw.Authenticator, limiter *mw.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware())
		}
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})

	r.Route("/experiences", func(r chi.Router) {
		r.Get("/", h.ListExperiences)
		r.With(authn.OptionalAuth).Get("/{id}", h.GetExperience)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAuth)

			r.With(authn.RequireRole(domain.RoleHost, domain.RoleAdmin)).
				Post("/", h.CreateExperience)
			r.With(authn.RequireRole(domain.RoleUser, domain.RoleHost, domain.RoleAdmin)).
				Post("/{id}/book", h.BookExperience)
			r.With(authn.RequireOwnerOrAdmin).
				Patch("/{id}/publish", h.PublishExperience)
			r.With(authn.RequireRole(domain.RoleAdmin)).
				Patch("/{id}/block", h.BlockExperience)
		})
	})

	r.With(authn.RequireAuth).Get("/bookings", h.ListMyBookings)

	return r
}
