package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func choicesWithValues(values ...float64) []Choice {
	choices := make([]Choice, len(values))
	for i, v := range values {
		choices[i] = Choice{Value: v}
	}
	return choices
}

func TestCategory_Scale(t *testing.T) {
	tests := []struct {
		name    string
		choices []Choice
		wantMin float64
		wantMax float64
		wantOK  bool
	}{
		{"no choices", nil, 0, 0, false},
		{"single choice", choicesWithValues(3), 3, 3, true},
		{"ordered", choicesWithValues(0, 1, 2, 3, 4), 0, 4, true},
		{"unordered", choicesWithValues(6, 0, 3), 0, 6, true},
		{"negative values", choicesWithValues(-2, 5), -2, 5, true},
		{"all equal", choicesWithValues(2, 2, 2), 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category := Category{Choices: tt.choices}
			min, max, ok := category.Scale()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantMin, min)
				assert.Equal(t, tt.wantMax, max)
			}
		})
	}
}

func TestCategory_Scale_FollowsChoiceChanges(t *testing.T) {
	category := Category{Choices: choicesWithValues(0, 4)}

	_, max, ok := category.Scale()
	assert.True(t, ok)
	assert.Equal(t, 4.0, max)

	category.Choices = append(category.Choices, Choice{Value: 10})
	_, max, ok = category.Scale()
	assert.True(t, ok)
	assert.Equal(t, 10.0, max)
}
