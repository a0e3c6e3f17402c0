package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"review-service/internal/domains/review/model"
	"review-service/pkg/database"
)

type postgresReviewRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

// ============================================================================
// REVIEWS
// ============================================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO reviews (id, content_type_id, object_id, user_id, content, language, content_filter_id, average_rating, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			review.ID, review.ContentTypeID, review.ObjectID, review.UserID,
			review.Content, review.Language, review.ContentFilterID, review.AverageRating,
		).Scan(&review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return upsertRatings(ctx, tx, review.ID, review.Ratings)
	})
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE reviews
			SET content_type_id = $2, object_id = $3, content = $4, language = $5,
			    content_filter_id = $6, average_rating = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.QueryRow(ctx, query,
			review.ID, review.ContentTypeID, review.ObjectID,
			review.Content, review.Language, review.ContentFilterID, review.AverageRating,
		).Scan(&review.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrReviewNotFound
			}
			return fmt.Errorf("failed to update review: %w", err)
		}

		return upsertRatings(ctx, tx, review.ID, review.Ratings)
	})
}

func upsertRatings(ctx context.Context, tx pgx.Tx, reviewID uuid.UUID, ratings []model.Rating) error {
	query := `
		INSERT INTO review_ratings (id, review_id, category_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (review_id, category_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	for i := range ratings {
		ratings[i].ReviewID = reviewID
		if ratings[i].ID == uuid.Nil {
			ratings[i].ID = uuid.New()
		}

		_, err := tx.Exec(ctx, query,
			ratings[i].ID, reviewID, ratings[i].CategoryID, ratings[i].Value)
		if err != nil {
			return fmt.Errorf("failed to upsert rating: %w", err)
		}
	}

	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, content_type_id, object_id, user_id, content, language, content_filter_id, average_rating, created_at, updated_at
		FROM reviews
		WHERE id = $1`

	var review model.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID, &review.ContentTypeID, &review.ObjectID, &review.UserID,
		&review.Content, &review.Language, &review.ContentFilterID, &review.AverageRating,
		&review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	ratings, err := r.loadRatings(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	review.Ratings = ratings[id]

	extraInfos, err := r.loadExtraInfos(ctx, id)
	if err != nil {
		return nil, err
	}
	review.ExtraInfos = extraInfos

	return &review, nil
}

func (r *postgresReviewRepository) List(ctx context.Context, filter *ListFilter) ([]model.Review, int, error) {
	where, args := buildListWhere(filter)

	countQuery := `SELECT COUNT(*) FROM reviews` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT id, content_type_id, object_id, user_id, content, language, content_filter_id, average_rating, created_at, updated_at
		FROM reviews` + where + `
		ORDER BY created_at DESC`

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	var ids []uuid.UUID
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID, &review.ContentTypeID, &review.ObjectID, &review.UserID,
			&review.Content, &review.Language, &review.ContentFilterID, &review.AverageRating,
			&review.CreatedAt, &review.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
		ids = append(ids, review.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		ratings, err := r.loadRatings(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range reviews {
			reviews[i].Ratings = ratings[reviews[i].ID]
		}
	}

	return reviews, total, nil
}

func buildListWhere(filter *ListFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.ContentTypeID != nil {
		add("content_type_id = $%d", *filter.ContentTypeID)
	}
	if filter.ObjectID != nil {
		add("object_id = $%d", *filter.ObjectID)
	}
	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.FilterID != nil {
		add("content_filter_id = $%d", *filter.FilterID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ============================================================================
// RATINGS
// ============================================================================

// loadRatings keeps insertion order per review; the aggregator's fallback
// rule depends on it.
func (r *postgresReviewRepository) loadRatings(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID][]model.Rating, error) {
	query := `
		SELECT id, review_id, category_id, value, created_at, updated_at
		FROM review_ratings
		WHERE review_id = ANY($1)
		ORDER BY review_id, created_at, id`

	rows, err := r.db.Query(ctx, query, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[uuid.UUID][]model.Rating)
	for rows.Next() {
		var rating model.Rating
		err := rows.Scan(&rating.ID, &rating.ReviewID, &rating.CategoryID, &rating.Value,
			&rating.CreatedAt, &rating.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[rating.ReviewID] = append(ratings[rating.ReviewID], rating)
	}

	return ratings, rows.Err()
}

func (r *postgresReviewRepository) UpsertRating(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO review_ratings (id, review_id, category_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (review_id, category_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query, rating.ID, rating.ReviewID, rating.CategoryID, rating.Value)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// ============================================================================
// EXTRA INFOS
// ============================================================================

func (r *postgresReviewRepository) loadExtraInfos(ctx context.Context, reviewID uuid.UUID) ([]model.ReviewExtraInfo, error) {
	query := `
		SELECT id, review_id, type, content_type_id, object_id, created_at
		FROM review_extra_infos
		WHERE review_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load extra infos: %w", err)
	}
	defer rows.Close()

	var infos []model.ReviewExtraInfo
	for rows.Next() {
		var info model.ReviewExtraInfo
		err := rows.Scan(&info.ID, &info.ReviewID, &info.Type, &info.ContentTypeID, &info.ObjectID, &info.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extra info: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

func (r *postgresReviewRepository) AddExtraInfo(ctx context.Context, info *model.ReviewExtraInfo) error {
	query := `
		INSERT INTO review_extra_infos (id, review_id, type, content_type_id, object_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`

	if info.ID == uuid.Nil {
		info.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		info.ID, info.ReviewID, info.Type, info.ContentTypeID, info.ObjectID,
	).Scan(&info.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add extra info: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) DeleteExtraInfo(ctx context.Context, reviewID, infoID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM review_extra_infos WHERE id = $1 AND review_id = $2`, infoID, reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete extra info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrExtraInfoNotFound
	}
	return nil
}
