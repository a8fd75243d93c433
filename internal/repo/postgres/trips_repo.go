package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
)

type TripRepo interface {
	GetByID(ctx context.Context, id string) (*domain.TripRecord, error)
	List(ctx context.Context, limit, offset int) (*domain.TripPage, error)
}

type TripRepoImpl struct{ pool *pgxpool.Pool }

func NewTripRepo(pool *pgxpool.Pool) *TripRepoImpl { return &TripRepoImpl{pool: pool} }

const tripCols = `id, user_id, trip_detail, image_urls, created_at`

func scanTrip(row pgx.Row) (domain.TripRecord, error) {
	var t domain.TripRecord
	err := row.Scan(&t.ID, &t.UserID, &t.TripDetail, &t.ImageURLs, &t.CreatedAt)
	return t, err
}

func (r *TripRepoImpl) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	const q = `SELECT ` + tripCols + ` FROM trips WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t, err := scanTrip(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the newest trips first, together with the total trip count.
func (r *TripRepoImpl) List(ctx context.Context, limit, offset int) (*domain.TripPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT ` + tripCols + ` FROM trips ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	const countQ = `SELECT count(*) FROM trips`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	if err := r.pool.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.TripRecord, 0, limit)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &domain.TripPage{Trips: trips, Total: total}, nil
}

var _ TripRepo = (*TripRepoImpl)(nil)
