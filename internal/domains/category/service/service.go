package service

import (
	"context"

	"github.com/google/uuid"

	"review-service/internal/domains/category/model"
	"review-service/internal/domains/category/repository"
	"review-service/pkg/logger"
)

// ============================================================================
// SERVICE INTERFACE
// ============================================================================

type Service interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context, language string) ([]model.Category, error)
	TranslateChoice(ctx context.Context, choiceID uuid.UUID, language string, req *model.TranslateChoiceRequest) error
}

// ============================================================================
// SERVICE IMPLEMENTATION
// ============================================================================

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) Service {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := &model.Category{
		ID:               uuid.New(),
		Name:             req.Name,
		Question:         req.Question,
		Required:         req.Required,
		CountsForAverage: req.CountsForAverageValue(),
		Position:         req.Position,
		Choices:          toChoices(req.Choices),
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	logger.Info("Rating category created", map[string]interface{}{
		"category_id": category.ID.String(),
		"name":        category.Name,
		"choices":     len(category.Choices),
	})

	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Question = req.Question
	existing.Required = req.Required
	if req.CountsForAverage != nil {
		existing.CountsForAverage = *req.CountsForAverage
	}
	existing.Position = req.Position

	replaceChoices := req.Choices != nil
	if replaceChoices {
		existing.Choices = toChoices(req.Choices)
	}

	if err := s.repo.Update(ctx, existing, replaceChoices); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Rating category deleted", map[string]interface{}{
		"category_id": id.String(),
	})

	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context, language string) ([]model.Category, error) {
	return s.repo.List(ctx, language)
}

func (s *categoryService) TranslateChoice(ctx context.Context, choiceID uuid.UUID, language string, req *model.TranslateChoiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return s.repo.UpsertChoiceTranslation(ctx, &model.ChoiceTranslation{
		ChoiceID: choiceID,
		Language: language,
		Label:    req.Label,
	})
}

func toChoices(inputs []model.ChoiceInput) []model.Choice {
	choices := make([]model.Choice, len(inputs))
	for i, in := range inputs {
		choices[i] = model.Choice{
			ID:    uuid.New(),
			Value: in.Value,
			Label: in.Label,
		}
	}
	return choices
}
