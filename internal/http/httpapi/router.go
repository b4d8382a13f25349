package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"wanderai/internal/http/handlers"
	"wanderai/internal/infra"
	"wanderai/internal/middleware"
)

// Options tunes the middleware stack.
type Options struct {
	Logger          infra.Logger
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.CORSOrigins),
	)

	r.Get("/", app.Root)
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).
			Post("/generate-travel-photo", app.GenerateTravelPhoto)
		r.Get("/task-status/{task_id}", app.TaskStatus)
	})

	return r
}
