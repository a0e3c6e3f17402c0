package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"review-service/internal/domains/contentfilter/model"
)

type postgresFilterRepository struct {
	db *pgxpool.Pool
}

func NewPostgresFilterRepository(db *pgxpool.Pool) FilterRepository {
	return &postgresFilterRepository{db: db}
}

func (r *postgresFilterRepository) Create(ctx context.Context, filter *model.Filter) error {
	query := `
		INSERT INTO content_filters (id, name, allowed_content_type_ids, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		filter.ID, filter.Name, pq.Array(filter.AllowedContentTypeIDs),
	).Scan(&filter.CreatedAt, &filter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create content filter: %w", err)
	}

	return nil
}

func (r *postgresFilterRepository) Update(ctx context.Context, filter *model.Filter) error {
	query := `
		UPDATE content_filters
		SET name = $2, allowed_content_type_ids = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		filter.ID, filter.Name, pq.Array(filter.AllowedContentTypeIDs),
	).Scan(&filter.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrFilterNotFound
		}
		return fmt.Errorf("failed to update content filter: %w", err)
	}

	return nil
}

func (r *postgresFilterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_filters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content filter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrFilterNotFound
	}
	return nil
}

func (r *postgresFilterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Filter, error) {
	query := `
		SELECT id, name, allowed_content_type_ids, created_at, updated_at
		FROM content_filters
		WHERE id = $1`

	var filter model.Filter
	err := r.db.QueryRow(ctx, query, id).Scan(
		&filter.ID, &filter.Name, pq.Array(&filter.AllowedContentTypeIDs),
		&filter.CreatedAt, &filter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrFilterNotFound
		}
		return nil, fmt.Errorf("failed to get content filter: %w", err)
	}

	return &filter, nil
}

func (r *postgresFilterRepository) List(ctx context.Context) ([]model.Filter, error) {
	query := `
		SELECT id, name, allowed_content_type_ids, created_at, updated_at
		FROM content_filters
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list content filters: %w", err)
	}
	defer rows.Close()

	var filters []model.Filter
	for rows.Next() {
		var filter model.Filter
		err := rows.Scan(
			&filter.ID, &filter.Name, pq.Array(&filter.AllowedContentTypeIDs),
			&filter.CreatedAt, &filter.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content filter: %w", err)
		}
		filters = append(filters, filter)
	}

	return filters, rows.Err()
}
