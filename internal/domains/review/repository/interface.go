package repository

import (
	"context"

	"github.com/google/uuid"

	"review-service/internal/domains/review/model"
)

// ListFilter narrows review listings. Nil fields are not applied.
type ListFilter struct {
	ContentTypeID *int64
	ObjectID      *int64
	UserID        *uuid.UUID
	FilterID      *uuid.UUID
	Page          int
	Limit         int
}

// ReviewRepository persists reviews, their ratings and extra infos. Create
// and Update run the review row and its rating rows in one transaction.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context, filter *ListFilter) ([]model.Review, int, error)

	UpsertRating(ctx context.Context, rating *model.Rating) error

	AddExtraInfo(ctx context.Context, info *model.ReviewExtraInfo) error
	DeleteExtraInfo(ctx context.Context, reviewID, infoID uuid.UUID) error
}
