package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trailmark/experiences-api/internal/domain"
)

type BookingRepository interface {
	// CreateConfirmed inserts a confirmed booking. The partial unique
	// index over confirmed (experience_id, user_id) is the enforcement
	// of record for the no-duplicate invariant: a racing insert fails
	// there and surfaces as ErrDuplicate.
	CreateConfirmed(ctx context.Context, experienceID, userID int64, seats int) (*domain.Booking, error)
	FindConfirmed(ctx context.Context, experienceID, userID int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, int64, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, experience_id, user_id, seats, status, created_at`

func (r *bookingRepository) CreateConfirmed(ctx context.Context, experienceID, userID int64, seats int) (*domain.Booking, error) {
	const q = `
		INSERT INTO bookings (experience_id, user_id, seats, status)
		VALUES ($1, $2, $3, 'confirmed')
		RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, experienceID, userID, seats).Scan(
		&b.ID, &b.ExperienceID, &b.UserID, &b.Seats, &b.Status, &b.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) FindConfirmed(ctx context.Context, experienceID, userID int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + `
		FROM bookings
		WHERE experience_id = $1 AND user_id = $2 AND status = 'confirmed'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, experienceID, userID).Scan(
		&b.ID, &b.ExperienceID, &b.UserID, &b.Seats, &b.Status, &b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, int64, error) {
	const q = `SELECT ` + bookingCols + `, COUNT(*) OVER() AS total_count
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []domain.Booking
		total int64
	)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.ExperienceID, &b.UserID, &b.Seats, &b.Status, &b.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
