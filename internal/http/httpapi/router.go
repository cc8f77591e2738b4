package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ivinfotech/iv-studio/internal/http/handlers"
	"github.com/ivinfotech/iv-studio/internal/infra/geoip"
	"github.com/ivinfotech/iv-studio/internal/middleware"
)

// NewRouter wires the full HTTP surface. Everything under /api except login
// and check-auth sits behind the session cookie.
func NewRouter(app *handlers.App, countries geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.Logger(app.Logger, countries),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(app.Config.LoginRatePerMin, time.Minute)).
			Post("/login", app.Login)
		r.Get("/check-auth", app.CheckAuth)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(app.Config.SessionKey))

			r.Post("/logout", app.Logout)
			r.Get("/stats", app.StatsSummary)

			r.Route("/insta-posts", func(r chi.Router) {
				r.Get("/", app.PostsList)
				r.Post("/", app.PostsCreate)
				r.Get("/{id}", app.PostGet)
				r.Delete("/{id}", app.PostDelete)
				r.Post("/{id}/generate-image", app.PostGenerateImage)
				r.Post("/{id}/save-images", app.PostSaveImages)
				r.Get("/{id}/download", app.PostDownload)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", app.ProjectsList)
				r.Post("/", app.ProjectsCreate)
				r.Get("/{id}", app.ProjectGet)
				r.Delete("/{id}", app.ProjectDelete)
			})
		})
	})

	return r
}
