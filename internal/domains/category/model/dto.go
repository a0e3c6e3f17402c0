package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ChoiceInput is one choice row inside a category create/update payload.
type ChoiceInput struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

func (c ChoiceInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Label, validation.Required, validation.Length(1, 255)),
	)
}

// CreateCategoryRequest carries a category together with its full choice set.
type CreateCategoryRequest struct {
	Name             string        `json:"name"`
	Question         string        `json:"question"`
	Required         bool          `json:"required"`
	CountsForAverage *bool         `json:"counts_for_average"`
	Position         int           `json:"position"`
	Choices          []ChoiceInput `json:"choices"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Question, validation.Length(0, 1000)),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.Choices),
	)
}

// CountsForAverageValue applies the default: a new category counts towards
// the average unless explicitly excluded.
func (r CreateCategoryRequest) CountsForAverageValue() bool {
	if r.CountsForAverage == nil {
		return true
	}
	return *r.CountsForAverage
}

// UpdateCategoryRequest replaces the category fields and, when Choices is
// non-nil, the full choice set.
type UpdateCategoryRequest struct {
	Name             string        `json:"name"`
	Question         string        `json:"question"`
	Required         bool          `json:"required"`
	CountsForAverage *bool         `json:"counts_for_average"`
	Position         int           `json:"position"`
	Choices          []ChoiceInput `json:"choices"`
}

func (r UpdateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Question, validation.Length(0, 1000)),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.Choices),
	)
}

// TranslateChoiceRequest sets the label override for one language.
type TranslateChoiceRequest struct {
	Label string `json:"label"`
}

func (r TranslateChoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Label, validation.Required, validation.Length(1, 255)),
	)
}
