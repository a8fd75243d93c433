package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
)

type StatsRepo interface {
	Dashboard(ctx context.Context, now time.Time) (domain.DashboardStats, error)
	UserGrowth(ctx context.Context, since time.Time) ([]domain.GrowthPoint, error)
	TripGrowth(ctx context.Context, since time.Time) ([]domain.GrowthPoint, error)
}

type StatsRepoImpl struct{ pool *pgxpool.Pool }

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepoImpl { return &StatsRepoImpl{pool: pool} }

// MonthBounds returns the first instant of now's month and of the month
// before, in now's location.
func MonthBounds(now time.Time) (currentStart, lastStart time.Time) {
	currentStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastStart = currentStart.AddDate(0, -1, 0)
	return currentStart, lastStart
}

func (r *StatsRepoImpl) Dashboard(ctx context.Context, now time.Time) (domain.DashboardStats, error) {
	const q = `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM users WHERE joined_at >= $1),
			(SELECT count(*) FROM users WHERE joined_at >= $2 AND joined_at < $1),
			(SELECT count(*) FROM trips),
			(SELECT count(*) FROM trips WHERE created_at >= $1),
			(SELECT count(*) FROM trips WHERE created_at >= $2 AND created_at < $1),
			(SELECT count(*) FROM users WHERE role = 'user'),
			(SELECT count(*) FROM users WHERE role = 'user' AND joined_at >= $1),
			(SELECT count(*) FROM users WHERE role = 'user' AND joined_at >= $2 AND joined_at < $1)`

	currentStart, lastStart := MonthBounds(now)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.DashboardStats
	err := r.pool.QueryRow(ctx, q, currentStart, lastStart).Scan(
		&s.TotalUsers.Total, &s.TotalUsers.CurrentMonth, &s.TotalUsers.LastMonth,
		&s.TotalTrips.Total, &s.TotalTrips.CurrentMonth, &s.TotalTrips.LastMonth,
		&s.UserRole.Total, &s.UserRole.CurrentMonth, &s.UserRole.LastMonth,
	)
	return s, err
}

func (r *StatsRepoImpl) UserGrowth(ctx context.Context, since time.Time) ([]domain.GrowthPoint, error) {
	const q = `
		SELECT date_trunc('day', joined_at) AS day, count(*)
		FROM users
		WHERE joined_at >= $1
		GROUP BY day
		ORDER BY day`
	return r.growth(ctx, q, since)
}

func (r *StatsRepoImpl) TripGrowth(ctx context.Context, since time.Time) ([]domain.GrowthPoint, error) {
	const q = `
		SELECT date_trunc('day', created_at) AS day, count(*)
		FROM trips
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`
	return r.growth(ctx, q, since)
}

func (r *StatsRepoImpl) growth(ctx context.Context, q string, since time.Time) ([]domain.GrowthPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.GrowthPoint
	for rows.Next() {
		var p domain.GrowthPoint
		if err := rows.Scan(&p.Day, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

var _ StatsRepo = (*StatsRepoImpl)(nil)
