package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"review-service/internal/domains/contentfilter/model"
	"review-service/internal/domains/contentfilter/repository"
	ctmodel "review-service/internal/domains/contenttype/model"
	ctservice "review-service/internal/domains/contenttype/service"
	"review-service/pkg/logger"
)

// ============================================================================
// SERVICE INTERFACE
// ============================================================================

type Service interface {
	Create(ctx context.Context, req *model.SaveFilterRequest) (*model.Filter, error)
	Update(ctx context.Context, id uuid.UUID, req *model.SaveFilterRequest) (*model.Filter, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Filter, error)
	List(ctx context.Context) ([]model.Filter, error)

	// Candidates enumerates the selectable review targets under a filter's
	// allow-list.
	Candidates(ctx context.Context, id uuid.UUID) ([]ctmodel.Candidate, error)
}

// ============================================================================
// SERVICE IMPLEMENTATION
// ============================================================================

type filterService struct {
	repo         repository.FilterRepository
	contentTypes ctservice.Service
}

func NewFilterService(repo repository.FilterRepository, contentTypes ctservice.Service) Service {
	return &filterService{repo: repo, contentTypes: contentTypes}
}

func (s *filterService) Create(ctx context.Context, req *model.SaveFilterRequest) (*model.Filter, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	filter := &model.Filter{
		ID:                    uuid.New(),
		Name:                  req.Name,
		AllowedContentTypeIDs: req.AllowedContentTypeIDs,
	}

	if err := s.repo.Create(ctx, filter); err != nil {
		return nil, err
	}

	logger.Info("Content filter created", map[string]interface{}{
		"filter_id": filter.ID.String(),
		"name":      filter.Name,
		"types":     len(filter.AllowedContentTypeIDs),
	})

	return filter, nil
}

func (s *filterService) Update(ctx context.Context, id uuid.UUID, req *model.SaveFilterRequest) (*model.Filter, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	filter := &model.Filter{
		ID:                    id,
		Name:                  req.Name,
		AllowedContentTypeIDs: req.AllowedContentTypeIDs,
	}

	if err := s.repo.Update(ctx, filter); err != nil {
		return nil, err
	}

	return filter, nil
}

func (s *filterService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *filterService) GetByID(ctx context.Context, id uuid.UUID) (*model.Filter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *filterService) List(ctx context.Context) ([]model.Filter, error) {
	return s.repo.List(ctx)
}

func (s *filterService) Candidates(ctx context.Context, id uuid.UUID) ([]ctmodel.Candidate, error) {
	filter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.contentTypes.Candidates(ctx, filter.AllowedContentTypeIDs)
}

// validate runs the DTO rules, then rejects ids that are not in the registry
// snapshot so a typo cannot silently allow nothing.
func (s *filterService) validate(req *model.SaveFilterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	known := make(map[int64]bool)
	for _, ct := range s.contentTypes.ContentTypes() {
		known[ct.ID] = true
	}
	for _, id := range req.AllowedContentTypeIDs {
		if !known[id] {
			return validation.Errors{
				"allowed_content_type_ids": fmt.Errorf("unknown content type id %d", id),
			}
		}
	}

	return nil
}
