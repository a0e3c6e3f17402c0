package service

import (
	"context"
	"fmt"
	"sort"

	"review-service/internal/domains/contenttype/model"
	"review-service/internal/domains/contenttype/repository"
	"review-service/pkg/logger"
)

// ============================================================================
// SERVICE INTERFACE
// ============================================================================

// Service resolves target tokens against the host type registry and
// enumerates selectable review targets for admin forms.
type Service interface {
	// ContentTypes returns the registry snapshot taken at process start,
	// sorted by display name.
	ContentTypes() []model.ContentType

	// Candidates enumerates selectable (token, label) pairs for the given
	// content type ids. A nil or empty filter means all registered types.
	Candidates(ctx context.Context, allowedTypeIDs []int64) ([]model.Candidate, error)

	// Resolve decodes a target token and verifies the object is live.
	Resolve(ctx context.Context, token string) (*model.ContentType, *model.Object, error)
}

// ============================================================================
// SERVICE IMPLEMENTATION
// ============================================================================

type registryService struct {
	repo    repository.ContentTypeRepository
	sources map[string]model.ObjectSource

	// Snapshot of the registry, loaded once at construction. Immutable
	// afterwards; type additions require a restart.
	contentTypes []model.ContentType
	byID         map[int64]model.ContentType
}

// NewRegistryService loads the content type registry and pairs each type with
// its registered object source. The snapshot it takes is held for the process
// lifetime.
func NewRegistryService(
	ctx context.Context,
	repo repository.ContentTypeRepository,
	sources map[string]model.ObjectSource,
) (Service, error) {
	types, err := repo.ListContentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content type registry: %w", err)
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].DisplayName() < types[j].DisplayName()
	})

	byID := make(map[int64]model.ContentType, len(types))
	for _, ct := range types {
		byID[ct.ID] = ct
	}

	logger.Info("Content type registry loaded", map[string]interface{}{
		"types":   len(types),
		"sources": len(sources),
	})

	return &registryService{
		repo:         repo,
		sources:      sources,
		contentTypes: types,
		byID:         byID,
	}, nil
}

func (s *registryService) ContentTypes() []model.ContentType {
	out := make([]model.ContentType, len(s.contentTypes))
	copy(out, s.contentTypes)
	return out
}

func (s *registryService) Candidates(ctx context.Context, allowedTypeIDs []int64) ([]model.Candidate, error) {
	types := s.contentTypes
	if len(allowedTypeIDs) > 0 {
		types = make([]model.ContentType, 0, len(allowedTypeIDs))
		for _, ct := range s.contentTypes {
			for _, id := range allowedTypeIDs {
				if ct.ID == id {
					types = append(types, ct)
					break
				}
			}
		}
	}

	candidates := make([]model.Candidate, 0)
	for _, ct := range types {
		source, ok := s.sources[ct.Name]
		if !ok {
			// Type was unregistered on the host side; skip rather than fail
			// the whole enumeration.
			logger.Warn("Skipping content type without object source", map[string]interface{}{
				"content_type_id": ct.ID,
				"name":            ct.Name,
			})
			continue
		}

		objects, err := source.List(ctx)
		if err != nil {
			logger.Warn("Skipping content type, object listing failed", map[string]interface{}{
				"content_type_id": ct.ID,
				"name":            ct.Name,
				"error":           err.Error(),
			})
			continue
		}

		for _, obj := range objects {
			candidates = append(candidates, model.Candidate{
				Token: model.EncodeToken(ct.ID, obj.ID),
				Label: fmt.Sprintf("%s - %s", ct.DisplayName(), obj.Display),
			})
		}
	}

	return candidates, nil
}

func (s *registryService) Resolve(ctx context.Context, token string) (*model.ContentType, *model.Object, error) {
	contentTypeID, objectID, err := model.DecodeToken(token)
	if err != nil {
		return nil, nil, err
	}

	ct, ok := s.byID[contentTypeID]
	if !ok {
		return nil, nil, model.ErrUnknownContentType
	}

	source, ok := s.sources[ct.Name]
	if !ok {
		return nil, nil, model.ErrUnknownContentType
	}

	obj, err := source.Get(ctx, objectID)
	if err != nil {
		return nil, nil, err
	}

	return &ct, obj, nil
}
