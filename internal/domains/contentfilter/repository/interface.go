package repository

import (
	"context"

	"github.com/google/uuid"

	"review-service/internal/domains/contentfilter/model"
)

// FilterRepository persists content filters.
type FilterRepository interface {
	Create(ctx context.Context, filter *model.Filter) error
	Update(ctx context.Context, filter *model.Filter) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Filter, error)
	List(ctx context.Context) ([]model.Filter, error)
}
