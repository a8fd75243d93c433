// Package repotest provides in-memory record fetchers for handler and loader
// tests.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/repo/postgres"
)

type Trips struct {
	mu      sync.Mutex
	Records []domain.TripRecord
	Err     error
	Calls   []Window
}

type Window struct{ Limit, Offset int }

func (f *Trips) GetByID(_ context.Context, id string) (*domain.TripRecord, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	for i := range f.Records {
		if f.Records[i].ID == id {
			rec := f.Records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *Trips) List(_ context.Context, limit, offset int) (*domain.TripPage, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, Window{Limit: limit, Offset: offset})
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	page := &domain.TripPage{Trips: []domain.TripRecord{}, Total: len(f.Records)}
	if offset >= len(f.Records) {
		return page, nil
	}
	end := offset + limit
	if end > len(f.Records) {
		end = len(f.Records)
	}
	page.Trips = append(page.Trips, f.Records[offset:end]...)
	return page, nil
}

type Users struct {
	Users []domain.User
	Err   error
}

func (f *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	for i := range f.Users {
		if f.Users[i].ID == id {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *Users) List(_ context.Context, limit, offset int) ([]domain.User, int, error) {
	if f.Err != nil {
		return nil, 0, f.Err
	}
	if offset >= len(f.Users) {
		return []domain.User{}, len(f.Users), nil
	}
	end := offset + limit
	if end > len(f.Users) {
		end = len(f.Users)
	}
	return f.Users[offset:end], len(f.Users), nil
}

type Stats struct {
	Stats  domain.DashboardStats
	Growth []domain.GrowthPoint
	Err    error
}

func (f *Stats) Dashboard(context.Context, time.Time) (domain.DashboardStats, error) {
	return f.Stats, f.Err
}

func (f *Stats) UserGrowth(context.Context, time.Time) ([]domain.GrowthPoint, error) {
	return f.Growth, f.Err
}

func (f *Stats) TripGrowth(context.Context, time.Time) ([]domain.GrowthPoint, error) {
	return f.Growth, f.Err
}

type Countries struct {
	Countries []domain.Country
	Err       error
}

func (f *Countries) List(context.Context) ([]domain.Country, error) {
	return f.Countries, f.Err
}

var (
	_ postgres.TripRepo  = (*Trips)(nil)
	_ postgres.UsersRepo = (*Users)(nil)
	_ postgres.StatsRepo = (*Stats)(nil)
)
