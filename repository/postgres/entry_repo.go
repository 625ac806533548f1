package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/repository"
)

type entryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository returns a Postgres-backed implementation of EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) repository.EntryRepository {
	return &entryRepository{pool: pool}
}

func (r *entryRepository) List(ctx context.Context, filter repository.EntryFilter) ([]domain.Entry, error) {
	const query = `
	SELECT id, user_id, description, amount, kind, recorded_at, created_at
	FROM entries
	WHERE user_id = $1
	  AND ($2 = '' OR kind = $2)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Kind, clampLimit(filter.Limit), clampOffset(filter.Offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var entry domain.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Description,
			&entry.Amount,
			&entry.Kind,
			&entry.RecordedAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *entryRepository) Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if entry == nil {
		return nil, domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO entries (id, user_id, description, amount, kind, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Description,
		entry.Amount,
		entry.Kind,
		entry.RecordedAt,
	).Scan(&entry.CreatedAt); err != nil {
		return nil, err
	}
	return entry, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
