package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trailmark/experiences-api/internal/domain"
)

type ExperienceRepository interface {
	Create(ctx context.Context, exp *domain.Experience) (*domain.Experience, error)
	FindByID(ctx context.Context, id int64) (*domain.Experience, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ExperienceStatus) (*domain.Experience, error)
	ListPublished(ctx context.Context, q domain.ListQuery) ([]domain.Experience, int64, error)
}

type experienceRepository struct {
	pool *pgxpool.Pool
}

func NewExperienceRepository(pool *pgxpool.Pool) ExperienceRepository {
	return &experienceRepository{pool: pool}
}

const experienceCols = `id, title, description, location, price, start_time, created_by, status, created_at`

func scanExperience(row pgx.Row) (*domain.Experience, error) {
	var e domain.Experience
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Price,
		&e.StartTime, &e.CreatedBy, &e.Status, &e.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *experienceRepository) Create(ctx context.Context, exp *domain.Experience) (*domain.Experience, error) {
	const q = `
		INSERT INTO experiences (title, description, location, price, start_time, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + experienceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanExperience(r.pool.QueryRow(ctx, q,
		exp.Title, exp.Description, exp.Location, exp.Price, exp.StartTime, exp.CreatedBy,
	))
}

func (r *experienceRepository) FindByID(ctx context.Context, id int64) (*domain.Experience, error) {
	const q = `SELECT ` + experienceCols + ` FROM experiences WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanExperience(r.pool.QueryRow(ctx, q, id))
}

func (r *experienceRepository) UpdateStatus(ctx context.Context, id int64, status domain.ExperienceStatus) (*domain.Experience, error) {
	const q = `UPDATE experiences SET status = $2 WHERE id = $1 RETURNING ` + experienceCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanExperience(r.pool.QueryRow(ctx, q, id, status))
}

// ListPublished pages through published rows. The window-function
// count keeps the reported total independent of pagination.
func (r *experienceRepository) ListPublished(ctx context.Context, q domain.ListQuery) ([]domain.Experience, int64, error) {
	where := []string{"status = 'published'"}
	args := []any{}

	if q.Location != "" {
		args = append(args, "%"+q.Location+"%")
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if q.From != nil {
		args = append(args, *q.From)
		where = append(where, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if q.To != nil {
		args = append(args, *q.To)
		where = append(where, fmt.Sprintf("start_time <= $%d", len(args)))
	}

	order := "ASC"
	if q.Sort == domain.SortDesc {
		order = "DESC"
	}

	sql := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM experiences
		WHERE %s
		ORDER BY start_time %s
		LIMIT $%d OFFSET $%d`,
		experienceCols, strings.Join(where, " AND "), order, len(args)+1, len(args)+2,
	)
	args = append(args, q.Limit, q.Offset())

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []domain.Experience
		total int64
	)
	for rows.Next() {
		var e domain.Experience
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Location, &e.Price,
			&e.StartTime, &e.CreatedBy, &e.Status, &e.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
