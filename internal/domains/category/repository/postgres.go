package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"review-service/internal/domains/category/model"
	"review-service/pkg/database"
)

type postgresCategoryRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO rating_categories (id, name, question, required, counts_for_average, position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			category.ID, category.Name, category.Question,
			category.Required, category.CountsForAverage, category.Position,
		).Scan(&category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		return insertChoices(ctx, tx, category.ID, category.Choices)
	})
}

func (r *postgresCategoryRepository) Update(ctx context.Context, category *model.Category, replaceChoices bool) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE rating_categories
			SET name = $2, question = $3, required = $4, counts_for_average = $5, position = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.QueryRow(ctx, query,
			category.ID, category.Name, category.Question,
			category.Required, category.CountsForAverage, category.Position,
		).Scan(&category.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrCategoryNotFound
			}
			return fmt.Errorf("failed to update category: %w", err)
		}

		if !replaceChoices {
			return nil
		}

		// Replacing the choice set also drops its translations (ON DELETE CASCADE).
		if _, err := tx.Exec(ctx, `DELETE FROM rating_choices WHERE category_id = $1`, category.ID); err != nil {
			return fmt.Errorf("failed to clear choices: %w", err)
		}

		return insertChoices(ctx, tx, category.ID, category.Choices)
	})
}

func insertChoices(ctx context.Context, tx pgx.Tx, categoryID uuid.UUID, choices []model.Choice) error {
	query := `
		INSERT INTO rating_choices (id, category_id, value, label, position)
		VALUES ($1, $2, $3, $4, $5)`

	for i := range choices {
		choices[i].CategoryID = categoryID
		if choices[i].ID == uuid.Nil {
			choices[i].ID = uuid.New()
		}
		choices[i].Position = i

		_, err := tx.Exec(ctx, query,
			choices[i].ID, categoryID, choices[i].Value, choices[i].Label, choices[i].Position)
		if err != nil {
			return fmt.Errorf("failed to create choice: %w", err)
		}
	}

	return nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rating_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `
		SELECT id, name, question, required, counts_for_average, position, created_at, updated_at
		FROM rating_categories
		WHERE id = $1`

	var category model.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Question,
		&category.Required, &category.CountsForAverage, &category.Position,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	choices, err := r.loadChoices(ctx, []uuid.UUID{id}, "")
	if err != nil {
		return nil, err
	}
	category.Choices = choices[id]

	return &category, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context, language string) ([]model.Category, error) {
	query := `
		SELECT id, name, question, required, counts_for_average, position, created_at, updated_at
		FROM rating_categories
		ORDER BY position, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	var ids []uuid.UUID
	for rows.Next() {
		var category model.Category
		err := rows.Scan(
			&category.ID, &category.Name, &category.Question,
			&category.Required, &category.CountsForAverage, &category.Position,
			&category.CreatedAt, &category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
		ids = append(ids, category.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return categories, nil
	}

	choices, err := r.loadChoices(ctx, ids, language)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Choices = choices[categories[i].ID]
	}

	return categories, nil
}

func (r *postgresCategoryRepository) loadChoices(ctx context.Context, categoryIDs []uuid.UUID, language string) (map[uuid.UUID][]model.Choice, error) {
	query := `
		SELECT c.id, c.category_id, c.value, COALESCE(t.label, c.label), c.position
		FROM rating_choices c
		LEFT JOIN rating_choice_translations t
			ON t.choice_id = c.id AND t.language = $2
		WHERE c.category_id = ANY($1)
		ORDER BY c.category_id, c.position`

	rows, err := r.db.Query(ctx, query, categoryIDs, language)
	if err != nil {
		return nil, fmt.Errorf("failed to load choices: %w", err)
	}
	defer rows.Close()

	choices := make(map[uuid.UUID][]model.Choice)
	for rows.Next() {
		var choice model.Choice
		err := rows.Scan(&choice.ID, &choice.CategoryID, &choice.Value, &choice.Label, &choice.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices[choice.CategoryID] = append(choices[choice.CategoryID], choice)
	}

	return choices, rows.Err()
}

func (r *postgresCategoryRepository) UpsertChoiceTranslation(ctx context.Context, translation *model.ChoiceTranslation) error {
	query := `
		INSERT INTO rating_choice_translations (choice_id, language, label)
		VALUES ($1, $2, $3)
		ON CONFLICT (choice_id, language) DO UPDATE SET label = EXCLUDED.label`

	_, err := r.db.Exec(ctx, query, translation.ChoiceID, translation.Language, translation.Label)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: the choice the translation points at does not exist.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrChoiceNotFound
		}
		return fmt.Errorf("failed to upsert choice translation: %w", err)
	}
	return nil
}
