package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"review-service/internal/domains/contenttype/model"
)

type postgresContentTypeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresContentTypeRepository(db *pgxpool.Pool) ContentTypeRepository {
	return &postgresContentTypeRepository{db: db}
}

func (r *postgresContentTypeRepository) ListContentTypes(ctx context.Context) ([]model.ContentType, error) {
	query := `
		SELECT id, name
		FROM content_types
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}
	defer rows.Close()

	var types []model.ContentType
	for rows.Next() {
		var ct model.ContentType
		if err := rows.Scan(&ct.ID, &ct.Name); err != nil {
			return nil, fmt.Errorf("failed to scan content type: %w", err)
		}
		types = append(types, ct)
	}

	return types, rows.Err()
}

func (r *postgresContentTypeRepository) GetContentType(ctx context.Context, id int64) (*model.ContentType, error) {
	query := `
		SELECT id, name
		FROM content_types
		WHERE id = $1`

	var ct model.ContentType
	err := r.db.QueryRow(ctx, query, id).Scan(&ct.ID, &ct.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUnknownContentType
		}
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}

	return &ct, nil
}
