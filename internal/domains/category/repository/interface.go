package repository

import (
	"context"

	"github.com/google/uuid"

	"review-service/internal/domains/category/model"
)

// CategoryRepository persists rating categories and their choices.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category, replaceChoices bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// List returns all categories with their choices, ordered by position
	// then name. When language is non-empty, choice labels are resolved
	// through the translation table, falling back to the base label.
	List(ctx context.Context, language string) ([]model.Category, error)

	UpsertChoiceTranslation(ctx context.Context, translation *model.ChoiceTranslation) error
}
