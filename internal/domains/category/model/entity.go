package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is one rating dimension ("Plot", "Service", ...). Its value range
// is never stored; it is derived from the attached choices.
type Category struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Question         string    `json:"question"`
	Required         bool      `json:"required"`
	CountsForAverage bool      `json:"counts_for_average"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Choices []Choice `json:"choices"`
}

// Choice is one selectable answer for a category: a numeric value plus the
// label shown to reviewers. Labels can be overridden per language.
type Choice struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Value      float64   `json:"value"`
	Label      string    `json:"label"`
	Position   int       `json:"position"`
}

// ChoiceTranslation is a per-language label override for a choice.
type ChoiceTranslation struct {
	ChoiceID uuid.UUID `json:"choice_id"`
	Language string    `json:"language"`
	Label    string    `json:"label"`
}

// Scale returns the [min, max] value range spanned by the category's choices.
// It is recomputed from the current choice set on every call; a category with
// no choices has no defined scale and reports ok=false.
func (c *Category) Scale() (min, max float64, ok bool) {
	if len(c.Choices) == 0 {
		return 0, 0, false
	}

	min, max = c.Choices[0].Value, c.Choices[0].Value
	for _, choice := range c.Choices[1:] {
		if choice.Value < min {
			min = choice.Value
		}
		if choice.Value > max {
			max = choice.Value
		}
	}

	return min, max, true
}
