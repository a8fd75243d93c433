package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/http/handlers"
	mw "github.com/diagnosis/tourvisto-admin/internal/http/middleware"
	"github.com/diagnosis/tourvisto-admin/internal/http/views"
	"github.com/diagnosis/tourvisto-admin/internal/loader"
	"github.com/diagnosis/tourvisto-admin/internal/repo/repotest"
	"github.com/diagnosis/tourvisto-admin/internal/tripform"
	"github.com/diagnosis/tourvisto-admin/internal/view"
	"github.com/diagnosis/tourvisto-admin/pkg/auth"
	"github.com/diagnosis/tourvisto-admin/pkg/config"
	"github.com/diagnosis/tourvisto-admin/pkg/events"
)

const testSecret = "test-secret"

// ---------- Mocks ----------

type mockPublisher struct {
	mu      sync.Mutex
	subject string
	events  []events.TripGenerateRequestedEvent
	err     error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.subject = subject
	if evt, ok := data.(events.TripGenerateRequestedEvent); ok {
		m.events = append(m.events, evt)
	}
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

// ---------- Fixtures ----------

type fixture struct {
	trips     *repotest.Trips
	users     *repotest.Users
	stats     *repotest.Stats
	countries *repotest.Countries
	publisher *mockPublisher
	handler   http.Handler
}

func tripDetail(name, location string) *string {
	s := fmt.Sprintf(`{"name":%q,"description":"A trip","estimatedPrice":"$1,000","duration":4,"budget":"Mid-range","travelStyle":"Relaxed","country":"Japan","interests":"Food & Culinary","groupType":"Couple","rating":4.5,"itinerary":[{"day":1,"location":%q,"activities":[{"time":"Morning","description":"Walk"}]}]}`, name, location)
	return &s
}

func newFixture(t *testing.T) *fixture {
	return newLimitedFixture(t, nil)
}

func newLimitedFixture(t *testing.T, limiter *mw.RateLimiter) *fixture {
	t.Helper()

	countries := []domain.Country{
		{Name: "🇯🇵 Japan", Value: "Japan", Coordinates: []float64{36, 138}},
		{Name: "🇵🇪 Peru", Value: "Peru", Coordinates: []float64{-10, -76}},
	}
	f := &fixture{
		trips:     &repotest.Trips{},
		users:     &repotest.Users{},
		stats:     &repotest.Stats{},
		countries: &repotest.Countries{Countries: countries},
		publisher: &mockPublisher{},
	}
	for i := 1; i <= 10; i++ {
		f.trips.Records = append(f.trips.Records, domain.TripRecord{
			ID:         fmt.Sprintf("trip-%d", i),
			TripDetail: tripDetail(fmt.Sprintf("Trip %d", i), "Kyoto"),
			ImageURLs:  []string{fmt.Sprintf("https://img.test/%d.jpg", i)},
		})
	}

	l := loader.New(f.trips, f.users, f.stats, f.countries,
		config.AdminConfig{TripsPageSize: 8, PopularTripCount: 4, DashboardRecent: 4})
	renderer, err := views.New()
	require.NoError(t, err)

	h := handlers.New(l, f.publisher, renderer, limiter)
	f.handler = mw.OptionalSession(testSecret, "session")(h.Routes())
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func signedIn(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	tok, err := auth.NewSessionToken("user-1", "admin@tourvisto.test", "Ada Admin", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session", Value: tok})
	return req
}

func validForm() url.Values {
	return url.Values{
		"country":     {"Japan"},
		"duration":    {"5"},
		"travelStyle": {"Relaxed"},
		"interest":    {"Food & Culinary"},
		"budget":      {"Mid-range"},
		"groupType":   {"Couple"},
	}
}

func postForm(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/trips/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// ---------- Tests ----------

func TestRootRedirectsToDashboard(t *testing.T) {
	f := newFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.users.Users = []domain.User{{ID: "user-1", Name: "Ada Admin", Email: "admin@tourvisto.test", Role: domain.RoleAdmin}}
	f.stats.Stats = domain.DashboardStats{
		TotalUsers: domain.MonthlyCount{Total: 12, CurrentMonth: 3, LastMonth: 2},
		TotalTrips: domain.MonthlyCount{Total: 10, CurrentMonth: 4, LastMonth: 6},
		UserRole:   domain.MonthlyCount{Total: 11, CurrentMonth: 3, LastMonth: 2},
	}

	t.Run("signed in admin is greeted by name", func(t *testing.T) {
		rr := f.do(signedIn(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil)))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Welcome Ada")
		assert.Contains(t, rr.Body.String(), "Trip 1")
	})

	t.Run("anonymous visitor is greeted as guest", func(t *testing.T) {
		rr := f.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Welcome Guest")
	})

	t.Run("store failure renders error page", func(t *testing.T) {
		f.stats.Err = errors.New("db down")
		defer func() { f.stats.Err = nil }()

		rr := f.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to load dashboard")
	})
}

func TestListTrips(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantWindow repotest.Window
		wantIn     []string
		wantOut    []string
	}{
		{
			name:       "first page by default",
			query:      "",
			wantWindow: repotest.Window{Limit: 8, Offset: 0},
			wantIn:     []string{"Trip 1", "Trip 8", `href="/trips?page=2"`},
			wantOut:    []string{"Trip 9"},
		},
		{
			name:       "second page",
			query:      "?page=2",
			wantWindow: repotest.Window{Limit: 8, Offset: 8},
			wantIn:     []string{"Trip 9", "Trip 10"},
			wantOut:    []string{"Trip 8<"},
		},
		{
			name:       "invalid page falls back to first",
			query:      "?page=abc",
			wantWindow: repotest.Window{Limit: 8, Offset: 0},
			wantIn:     []string{"Trip 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rr := f.do(httptest.NewRequest(http.MethodGet, "/trips"+tt.query, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			require.Len(t, f.trips.Calls, 1)
			assert.Equal(t, tt.wantWindow, f.trips.Calls[0])
			body := rr.Body.String()
			for _, s := range tt.wantIn {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.wantOut {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestListTrips_MalformedRecord(t *testing.T) {
	f := newFixture(t)
	bad := "not json"
	f.trips.Records[0].TripDetail = &bad

	rr := f.do(httptest.NewRequest(http.MethodGet, "/trips", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTripDetail(t *testing.T) {
	f := newFixture(t)

	t.Run("found", func(t *testing.T) {
		rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/trip-3", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Trip 3")
		assert.Contains(t, body, "4-Day Japan Relaxed")
		assert.Contains(t, body, "https://img.test/3.jpg")
	})

	t.Run("not found", func(t *testing.T) {
		rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/missing", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Trip not found")
	})

	t.Run("store failure", func(t *testing.T) {
		f.trips.Err = errors.New("db down")
		defer func() { f.trips.Err = nil }()

		rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/trip-3", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCreateTripForm(t *testing.T) {
	f := newFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/create", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Add a New Trip")
	assert.Contains(t, body, `<option value="Japan" selected>`)
	assert.Contains(t, body, `data-coordinates="36,138"`)
	assert.Contains(t, body, `data-filter-url="/trips/create/options/groupType"`)
}

func TestCreateTripForm_CountriesUnavailable(t *testing.T) {
	f := newFixture(t)
	f.countries.Err = errors.New("upstream down")

	rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/create", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestSubmitTrip(t *testing.T) {
	t.Run("valid form publishes and redirects", func(t *testing.T) {
		f := newFixture(t)

		rr := f.do(signedIn(t, postForm(validForm())))

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/trips", rr.Header().Get("Location"))
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.TripGenerateRequested, f.publisher.subject)
		evt := f.publisher.events[0]
		assert.Equal(t, "user-1", evt.UserID)
		assert.Equal(t, "Japan", evt.Country)
		assert.Equal(t, 5, evt.Duration)
		assert.Equal(t, "Couple", evt.GroupType)
	})

	t.Run("missing field", func(t *testing.T) {
		f := newFixture(t)
		form := validForm()
		form.Del("budget")

		rr := f.do(signedIn(t, postForm(form)))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), tripform.ErrIncomplete.Message)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("duration out of range", func(t *testing.T) {
		f := newFixture(t)
		form := validForm()
		form.Set("duration", "11")

		rr := f.do(signedIn(t, postForm(form)))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), tripform.ErrDuration.Message)
		assert.Contains(t, rr.Body.String(), `value="11"`)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("anonymous submission is dropped", func(t *testing.T) {
		f := newFixture(t)

		rr := f.do(postForm(validForm()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), `class="error"`)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("non-integer duration reaches range check", func(t *testing.T) {
		f := newFixture(t)
		form := validForm()
		form.Set("duration", "15.5")

		rr := f.do(signedIn(t, postForm(form)))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), tripform.ErrDuration.Message)
		assert.Contains(t, rr.Body.String(), `value="15.5"`)
	})

	t.Run("publish failure", func(t *testing.T) {
		f := newFixture(t)
		f.publisher.err = errors.New("nats: connection closed")

		rr := f.do(signedIn(t, postForm(validForm())))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "Could not request trip generation")
	})
}

func TestSubmitTrip_Throttle(t *testing.T) {
	newThrottled := func(t *testing.T) *fixture {
		return newLimitedFixture(t, mw.NewRateLimiter(&memCounter{counts: map[string]int64{}}, mw.RateLimitConfig{
			Requests: 2,
			Window:   time.Hour,
			Prefix:   "trip-generate",
			KeyFunc:  mw.SessionOrIPKey,
		}))
	}

	t.Run("rejected submissions are not charged", func(t *testing.T) {
		f := newThrottled(t)
		bad := validForm()
		bad.Set("duration", "15.5")

		for i := 0; i < 5; i++ {
			rr := f.do(signedIn(t, postForm(bad)))
			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		}
		for i := 0; i < 3; i++ {
			rr := f.do(postForm(validForm()))
			require.Equal(t, http.StatusOK, rr.Code)
		}

		rr := f.do(signedIn(t, postForm(validForm())))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Len(t, f.publisher.events, 1)
	})

	t.Run("limit applies to generation requests", func(t *testing.T) {
		f := newThrottled(t)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			codes = append(codes, f.do(signedIn(t, postForm(validForm()))).Code)
		}

		assert.Equal(t, []int{http.StatusSeeOther, http.StatusSeeOther, http.StatusTooManyRequests}, codes)
		assert.Len(t, f.publisher.events, 2)
	})

	t.Run("throttled form keeps the draft", func(t *testing.T) {
		f := newThrottled(t)
		for i := 0; i < 2; i++ {
			f.do(signedIn(t, postForm(validForm())))
		}

		rr := f.do(signedIn(t, postForm(validForm())))

		require.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "Too many trip requests")
		assert.Contains(t, rr.Body.String(), `value="5"`)
	})
}

func TestFilterCountries(t *testing.T) {
	f := newFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/create/countries?q=PER", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var got []view.CountryOption
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, []view.CountryOption{{Text: "🇵🇪 Peru", Value: "Peru"}}, got)
}

func TestFilterCountries_Upstream(t *testing.T) {
	f := newFixture(t)
	f.countries.Err = errors.New("upstream down")

	rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/create/countries", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestFilterOptions(t *testing.T) {
	f := newFixture(t)

	t.Run("known list", func(t *testing.T) {
		rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/create/options/budget?q=lux", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got []view.CountryOption
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, []view.CountryOption{{Text: "Luxury", Value: "Luxury"}}, got)
	})

	t.Run("unknown list", func(t *testing.T) {
		rr := f.do(httptest.NewRequest(http.MethodGet, "/trips/create/options/weather", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
