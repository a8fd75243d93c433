// Package loader runs the per-route data fetches. Every fetch of a route is
// started concurrently and the first failure cancels the rest.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/tourvisto-admin/internal/countries"
	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/pagination"
	"github.com/diagnosis/tourvisto-admin/internal/repo/postgres"
	"github.com/diagnosis/tourvisto-admin/internal/tripdata"
	"github.com/diagnosis/tourvisto-admin/internal/view"
	"github.com/diagnosis/tourvisto-admin/pkg/config"
)

var (
	ErrMissingParam = errors.New("trip ID is required")
	ErrTripNotFound = errors.New("trip not found")
)

const growthWindow = 30 * 24 * time.Hour

type Loader struct {
	trips     postgres.TripRepo
	users     postgres.UsersRepo
	stats     postgres.StatsRepo
	countries countries.Lister
	cfg       config.AdminConfig
	now       func() time.Time
}

func New(trips postgres.TripRepo, users postgres.UsersRepo, stats postgres.StatsRepo,
	countryList countries.Lister, cfg config.AdminConfig) *Loader {
	return &Loader{
		trips:     trips,
		users:     users,
		stats:     stats,
		countries: countryList,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Dashboard loads the signed-in user (when userID is set), stats, the most
// recent trips and users, and the growth series.
func (l *Loader) Dashboard(ctx context.Context, userID string) (view.Dashboard, error) {
	g, ctx := errgroup.WithContext(ctx)
	now := l.now()

	var (
		user       *domain.User
		stats      domain.DashboardStats
		tripPage   *domain.TripPage
		users      []domain.User
		userGrowth []domain.GrowthPoint
		tripGrowth []domain.GrowthPoint
	)

	if userID != "" {
		g.Go(func() error {
			u, err := l.users.FindByID(ctx, userID)
			if err != nil {
				return fmt.Errorf("load current user: %w", err)
			}
			user = u
			return nil
		})
	}
	g.Go(func() error {
		s, err := l.stats.Dashboard(ctx, now)
		if err != nil {
			return fmt.Errorf("load dashboard stats: %w", err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		p, err := l.trips.List(ctx, l.cfg.DashboardRecent, 0)
		if err != nil {
			return fmt.Errorf("load recent trips: %w", err)
		}
		tripPage = p
		return nil
	})
	g.Go(func() error {
		u, _, err := l.users.List(ctx, l.cfg.DashboardRecent, 0)
		if err != nil {
			return fmt.Errorf("load recent users: %w", err)
		}
		users = u
		return nil
	})
	g.Go(func() error {
		p, err := l.stats.UserGrowth(ctx, now.Add(-growthWindow))
		if err != nil {
			return fmt.Errorf("load user growth: %w", err)
		}
		userGrowth = p
		return nil
	})
	g.Go(func() error {
		p, err := l.stats.TripGrowth(ctx, now.Add(-growthWindow))
		if err != nil {
			return fmt.Errorf("load trip growth: %w", err)
		}
		tripGrowth = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return view.Dashboard{}, err
	}

	trips, err := tripdata.FromRecords(tripPage.Trips)
	if err != nil {
		return view.Dashboard{}, err
	}
	return view.ToDashboard(user, stats, trips, users, userGrowth, tripGrowth), nil
}

type TripsPage struct {
	Cards    []view.TripCard
	Total    int
	Page     int
	PageSize int
}

func (l *Loader) Trips(ctx context.Context, page int) (TripsPage, error) {
	w := pagination.For(page, l.cfg.TripsPageSize)

	p, err := l.trips.List(ctx, w.Limit, w.Offset)
	if err != nil {
		return TripsPage{}, fmt.Errorf("load trips: %w", err)
	}
	trips, err := tripdata.FromRecords(p.Trips)
	if err != nil {
		return TripsPage{}, err
	}
	return TripsPage{
		Cards:    view.ToTripCards(trips),
		Total:    p.Total,
		Page:     page,
		PageSize: l.cfg.TripsPageSize,
	}, nil
}

// TripDetail loads one trip and the popular trips shown under it.
func (l *Loader) TripDetail(ctx context.Context, tripID string) (view.TripDetail, error) {
	if tripID == "" {
		return view.TripDetail{}, ErrMissingParam
	}

	g, ctx := errgroup.WithContext(ctx)
	var (
		rec     *domain.TripRecord
		popular *domain.TripPage
	)
	g.Go(func() error {
		r, err := l.trips.GetByID(ctx, tripID)
		if err != nil {
			return fmt.Errorf("load trip %s: %w", tripID, err)
		}
		rec = r
		return nil
	})
	g.Go(func() error {
		p, err := l.trips.List(ctx, l.cfg.PopularTripCount, 0)
		if err != nil {
			return fmt.Errorf("load popular trips: %w", err)
		}
		popular = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return view.TripDetail{}, err
	}
	if rec == nil {
		return view.TripDetail{}, ErrTripNotFound
	}

	trip, err := tripdata.FromRecord(*rec)
	if err != nil {
		return view.TripDetail{}, err
	}
	others, err := tripdata.FromRecords(popular.Trips)
	if err != nil {
		return view.TripDetail{}, err
	}
	return view.ToTripDetail(trip, others), nil
}

// Countries loads the destination list for the creation form.
func (l *Loader) Countries(ctx context.Context) ([]domain.Country, error) {
	cs, err := l.countries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	return cs, nil
}
