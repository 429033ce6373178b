package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrobz00/Joseph1/internal/application"
)

// SiteConfig carries the presentation settings rendered into the public
// payloads. Theme is process-wide and set once at startup.
type SiteConfig struct {
	Theme    string
	SiteName string
	Tagline  string
	Contact  string
}

type Handler struct {
	service *application.Service
	site    SiteConfig
}

func NewHandler(service *application.Service, site SiteConfig) *Handler {
	if site.Theme == "" {
		site.Theme = "dark"
	}
	return &Handler{service: service, site: site}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ready") })

	// Public site surface. The landing page is always served; the auth and
	// dashboard screens redirect based on session presence.
	r.Get("/", handler.landing)
	r.Get("/auth", handler.authScreen)
	r.Get("/dashboard", handler.dashboardScreen)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", handler.register)
		r.Post("/auth/login", handler.login)
		r.Post("/auth/logout", handler.logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/session", handler.session)
			r.Get("/tickets", handler.listTickets)
			r.Post("/tickets", handler.createTicket)
			r.Post("/tickets/{ticket_id}/close", handler.closeTicket)
		})
	})
	return r
}
