package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	mw "github.com/diagnosis/tourvisto-admin/internal/http/middleware"
	"github.com/diagnosis/tourvisto-admin/internal/http/response"
	"github.com/diagnosis/tourvisto-admin/internal/http/views"
	"github.com/diagnosis/tourvisto-admin/internal/tripform"
	"github.com/diagnosis/tourvisto-admin/internal/view"
	"github.com/diagnosis/tourvisto-admin/pkg/events"
	"github.com/diagnosis/tourvisto-admin/pkg/logger"
	pkgmw "github.com/diagnosis/tourvisto-admin/pkg/middleware"
)

const (
	generateFailedMessage  = "Could not request trip generation. Please try again."
	generateLimitedMessage = "Too many trip requests. Please try again later."
)

func (h *Handlers) CreateTripForm(w http.ResponseWriter, r *http.Request) {
	h.renderCreateTrip(w, r, http.StatusOK, domain.TripFormData{}, "")
}

func (h *Handlers) renderCreateTrip(w http.ResponseWriter, r *http.Request, status int, form domain.TripFormData, errMsg string) {
	countries, err := h.loader.Countries(r.Context())
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, "Failed to load countries", err)
		return
	}

	h.views.Render(w, status, "create_trip", views.Page{
		Header: views.Header{
			Title:       "Add a New Trip",
			Description: "View and edit AI-generated travel plans",
		},
		Data: view.ToCreateTrip(countries, form, errMsg),
	})
}

// SubmitTrip validates the draft and, for a signed-in admin, hands it to the
// trip generator.
func (h *Handlers) SubmitTrip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission", err)
		return
	}

	sub := tripform.NewSubmission(tripform.FromValues(r.PostForm))
	defer sub.Finish()

	if !sub.Check() {
		h.renderCreateTrip(w, r, http.StatusUnprocessableEntity, sub.Data, sub.Error)
		return
	}

	claims := mw.Claims(r)
	if claims == nil {
		logger.ErrorContext(r.Context(), "User not authenticated")
		h.renderCreateTrip(w, r, http.StatusOK, sub.Data, "")
		return
	}

	// Only requests that would reach the generator count against the limit.
	if h.limiter != nil && !h.limiter.Allow(r) {
		h.renderCreateTrip(w, r, http.StatusTooManyRequests, sub.Data, generateLimitedMessage)
		return
	}

	evt := events.TripGenerateRequestedEvent{
		RequestID:   pkgmw.GetRequestID(r.Context()),
		UserID:      claims.Sub,
		Country:     sub.Data.Country,
		Duration:    sub.Data.Duration,
		TravelStyle: sub.Data.TravelStyle,
		Interest:    sub.Data.Interest,
		Budget:      sub.Data.Budget,
		GroupType:   sub.Data.GroupType,
		RequestedAt: time.Now().UTC(),
	}
	if err := h.publisher.Publish(r.Context(), events.TripGenerateRequested, evt); err != nil {
		logger.ErrorContext(r.Context(), "Error generating trip", "error", err)
		h.renderCreateTrip(w, r, http.StatusBadGateway, sub.Data, generateFailedMessage)
		return
	}

	logger.InfoContext(r.Context(), "Trip generation requested",
		"country", sub.Data.Country,
		"duration", sub.Data.Duration,
	)
	http.Redirect(w, r, "/trips", http.StatusSeeOther)
}

// FilterCountries serves the country combo box: ?q= filters by display name.
func (h *Handlers) FilterCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.loader.Countries(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load countries", "error", err)
		response.BadGateway(w, "Failed to load countries")
		return
	}
	matches := view.FilterCountries(countries, r.URL.Query().Get("q"))
	response.WriteJSON(w, http.StatusOK, view.ToCountryOptions(matches))
}

// FilterOptions serves the other combo boxes.
func (h *Handlers) FilterOptions(w http.ResponseWriter, r *http.Request) {
	items, ok := tripform.Options[chi.URLParam(r, "key")]
	if !ok {
		response.NotFound(w, "Unknown option list")
		return
	}
	matches := tripform.Filter(items, r.URL.Query().Get("q"))
	out := make([]view.CountryOption, 0, len(matches))
	for _, m := range matches {
		out = append(out, view.CountryOption{Text: m, Value: m})
	}
	response.WriteJSON(w, http.StatusOK, out)
}
