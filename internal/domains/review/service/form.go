package service

import (
	"context"

	"github.com/google/uuid"

	"review-service/internal/domains/review/model"
)

// Form builds the dynamic submission form for a target: one field per rating
// category, with language-resolved choice labels and, when reviewID is set,
// the prior answers filled in.
func (s *reviewService) Form(ctx context.Context, target, language string, reviewID *uuid.UUID) (*model.ReviewForm, error) {
	if _, _, err := s.resolveTarget(ctx, target); err != nil {
		return nil, err
	}

	categories, err := s.categories.List(ctx, language)
	if err != nil {
		return nil, err
	}

	form := &model.ReviewForm{
		Target: target,
		Fields: make([]model.FormField, 0, len(categories)),
	}

	priorValues := make(map[uuid.UUID]*float64)
	if reviewID != nil {
		review, err := s.repo.GetByID(ctx, *reviewID)
		if err != nil {
			return nil, err
		}
		form.ReviewID = &review.ID
		form.Content = review.Content
		for _, rating := range review.Ratings {
			if _, seen := priorValues[rating.CategoryID]; !seen {
				priorValues[rating.CategoryID] = rating.Value
			}
		}
	}

	for _, category := range categories {
		field := model.FormField{
			CategoryID: category.ID,
			Name:       category.Name,
			Question:   category.Question,
			Required:   category.Required,
			Widget:     s.cfg.Review.ChoiceWidget,
			Value:      priorValues[category.ID],
			Choices:    make([]model.FormChoice, 0, len(category.Choices)),
		}
		for _, choice := range category.Choices {
			field.Choices = append(field.Choices, model.FormChoice{
				Value: choice.Value,
				Label: choice.Label,
			})
		}
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}
