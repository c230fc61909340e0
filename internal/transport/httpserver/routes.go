package httpserver

import (
	"net/http"
	"time"

	"moim-app-go/internal/auth"
	"moim-app-go/internal/config"
	"moim-app-go/internal/transport/httpserver/handler"
	authmw "moim-app-go/internal/transport/httpserver/middleware"
	"moim-app-go/pkg/logger"
	"moim-app-go/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg config.Config,
	handlers *handler.Handlers,
	verifier auth.TokenVerifier,
	profiles authmw.ProfileSaver,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	log logger.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))
	r.Use(m.Middleware)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Link previews are fetched by crawlers without a session.
		r.Get("/pages/{moim_url}/invite", handlers.InvitePageTitle)
		r.Get("/pages/{moim_url}/{mannam_url}/confirm", handlers.ConfirmPageTitle)

		authn := authmw.NewAuth(cfg.Supabase, verifier, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/moims", handlers.ListMoims)
			r.Post("/moims", handlers.CreateMoim)
			r.Post("/moims/join", handlers.JoinMoim)
			r.Get("/moims/invite/{code}", handlers.GetMoimByInviteCode)

			r.Get("/moims/{moim_id}/mannams", handlers.ListMannams)
			r.Post("/moims/{moim_id}/mannams", handlers.CreateMannam)
			r.Patch("/mannams/{id}/status", handlers.UpdateMannamStatus)
			r.Get("/mannams/{id}/responses", handlers.ListResponses)
			r.Put("/mannams/{id}/responses", handlers.SubmitResponse)
		})
	})

	return r
}
