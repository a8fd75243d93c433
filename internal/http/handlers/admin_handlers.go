package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/diagnosis/tourvisto-admin/internal/http/middleware"
	"github.com/diagnosis/tourvisto-admin/internal/http/views"
	"github.com/diagnosis/tourvisto-admin/internal/loader"
	"github.com/diagnosis/tourvisto-admin/internal/pagination"
	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

const tripsDescription = "View and edit AI-generated travel plans"

// Dashboard renders the stats overview for the signed-in admin.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if claims := mw.Claims(r); claims != nil {
		userID = claims.Sub
	}

	d, err := h.loader.Dashboard(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}

	h.views.Render(w, http.StatusOK, "dashboard", views.Page{
		Header: views.Header{
			Title:       d.Greeting,
			Description: "Track activity, trends and popular destinations in real time.",
		},
		Data: d,
	})
}

type tripsPage struct {
	Trips loader.TripsPage
	Pager pagination.Pager
}

// ListTrips renders one page of trips; the page number comes from ?page=.
func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageFromQuery(r.URL.Query())

	trips, err := h.loader.Trips(r.Context(), page)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "Failed to load trips", err)
		return
	}

	h.views.Render(w, http.StatusOK, "trips", views.Page{
		Header: views.Header{
			Title:       "Trips",
			Description: tripsDescription,
			CTAText:     "Create a trip",
			CTAURL:      "/trips/create",
		},
		Data: tripsPage{
			Trips: trips,
			Pager: pagination.NewPager(r.URL, page, trips.PageSize, trips.Total),
		},
	})
}

func (h *Handlers) TripDetail(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")

	d, err := h.loader.TripDetail(r.Context(), tripID)
	switch {
	case errors.Is(err, loader.ErrMissingParam):
		h.renderError(w, r, http.StatusBadRequest, "Trip ID is required", nil)
		return
	case errors.Is(err, loader.ErrTripNotFound):
		logger.InfoContext(r.Context(), "Trip not found", "trip_id", tripID)
		h.renderError(w, r, http.StatusNotFound, "Trip not found", nil)
		return
	case err != nil:
		h.renderError(w, r, http.StatusInternalServerError, "Failed to load trip", err)
		return
	}

	h.views.Render(w, http.StatusOK, "trip_detail", views.Page{
		Header: views.Header{Title: "Trip Detail", Description: tripsDescription},
		Data:   d,
	})
}
