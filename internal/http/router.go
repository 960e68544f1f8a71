package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/http/handlers"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/http/requestutil"
)

// NewRouter registers the public API, probes and (when admin is non-nil) admin routes.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler, corsOrigins []string) nethttp.Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestutil.HeaderRequestID},
		ExposedHeaders: []string{requestutil.HeaderRequestID},
		MaxAge:         300,
	}))
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sports", handler.Sports)
		r.Get("/schedule", handler.Schedule)
		r.Get("/events/global", handler.GlobalEvents)
		r.Get("/stats", handler.Stats)
		r.Post("/preferences", handler.SetPreferences)
		r.Get("/preferences", handler.GetPreferences)
		r.Get("/notifications/upcoming", handler.Upcoming)
	})

	if admin != nil {
		r.Post("/admin/cache/refresh", admin.RefreshCache)
	}
	return r
}
