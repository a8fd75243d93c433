package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/diagnosis/tourvisto-admin/internal/http/middleware"
	"github.com/diagnosis/tourvisto-admin/internal/http/views"
	"github.com/diagnosis/tourvisto-admin/internal/loader"
	"github.com/diagnosis/tourvisto-admin/pkg/events"
	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

type Handlers struct {
	loader    *loader.Loader
	publisher events.Publisher
	views     *views.Renderer
	limiter   *mw.RateLimiter
}

// New wires the console handlers. limiter throttles trip generation
// requests that pass validation and may be nil.
func New(l *loader.Loader, publisher events.Publisher, renderer *views.Renderer, limiter *mw.RateLimiter) *Handlers {
	return &Handlers{loader: l, publisher: publisher, views: renderer, limiter: limiter}
}

func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Get("/dashboard", h.Dashboard)
	r.Route("/trips", func(r chi.Router) {
		r.Get("/", h.ListTrips)
		r.Get("/create", h.CreateTripForm)
		r.Post("/create", h.SubmitTrip)
		r.Get("/create/countries", h.FilterCountries)
		r.Get("/create/options/{key}", h.FilterOptions)
		r.Get("/{tripId}", h.TripDetail)
	})
	return r
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		logger.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
	}
	h.views.Render(w, status, "error", views.Page{
		Header: views.Header{Title: http.StatusText(status)},
		Data:   message,
	})
}
