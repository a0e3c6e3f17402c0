package repository

import (
	"context"

	"review-service/internal/domains/contenttype/model"
)

// ContentTypeRepository reads the host type registry.
type ContentTypeRepository interface {
	ListContentTypes(ctx context.Context) ([]model.ContentType, error)
	GetContentType(ctx context.Context, id int64) (*model.ContentType, error)
}
