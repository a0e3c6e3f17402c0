package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestAverageRating_Empty(t *testing.T) {
	_, ok := AverageRating(nil, nil)
	assert.False(t, ok)

	_, ok = RescaledAverageRating(nil, nil, 10)
	assert.False(t, ok)
}

func TestAverageRating_ZeroIsAValidAverage(t *testing.T) {
	catID := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		catID: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
	}
	ratings := []Rating{{CategoryID: catID, Value: floatPtr(0)}}

	avg, ok := AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 0.0, avg)

	avg, ok = RescaledAverageRating(ratings, scales, 10)
	assert.True(t, ok)
	assert.Equal(t, 0.0, avg)
}

func TestAverageRating_SkipsNonCountingCategories(t *testing.T) {
	counting := uuid.New()
	excluded := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		counting: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
		excluded: {CountsForAverage: false, HasScale: true, Min: 0, Max: 4},
	}
	ratings := []Rating{
		{CategoryID: counting, Value: floatPtr(2)},
		{CategoryID: excluded, Value: floatPtr(4)},
	}

	avg, ok := AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 2.0, avg)
}

func TestAverageRating_SkipsUnansweredCategory(t *testing.T) {
	answered := uuid.New()
	skipped := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		answered: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
		skipped:  {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
	}
	ratings := []Rating{
		{CategoryID: answered, Value: floatPtr(3)},
		{CategoryID: skipped, Value: nil},
	}

	avg, ok := AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 3.0, avg)
}

// Two categories on different scales, plus a legacy duplicate row with a nil
// value in the second category. The duplicate inherits the category's
// recorded value and still counts as a row.
func mixedScaleFixture() ([]Rating, map[uuid.UUID]CategoryScale) {
	catA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	catB := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	scales := map[uuid.UUID]CategoryScale{
		catA: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
		catB: {CountsForAverage: true, HasScale: true, Min: 0, Max: 6},
	}
	ratings := []Rating{
		{CategoryID: catA, Value: floatPtr(1)},
		{CategoryID: catB, Value: floatPtr(1)},
		{CategoryID: catB, Value: nil},
	}
	return ratings, scales
}

func TestRescaledAverageRating_MixedScales(t *testing.T) {
	ratings, scales := mixedScaleFixture()

	avg, ok := RescaledAverageRating(ratings, scales, 6)
	assert.True(t, ok)
	assert.Equal(t, 1.1666666666666667, avg)

	avg, ok = RescaledAverageRating(ratings, scales, 4)
	assert.True(t, ok)
	assert.Equal(t, 0.7777777777777777, avg)

	avg, ok = RescaledAverageRating(ratings, scales, 100)
	assert.True(t, ok)
	assert.Equal(t, 19.444444444444446, avg)
}

func TestAverageRating_NaturalScale(t *testing.T) {
	ratings, scales := mixedScaleFixture()

	avg, ok := AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 1.0, avg)
}

func TestAverageRating_MeanOfCountingValues(t *testing.T) {
	catA := uuid.New()
	catB := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		catA: {CountsForAverage: true, HasScale: true, Min: 0, Max: 6},
		catB: {CountsForAverage: true, HasScale: true, Min: 0, Max: 6},
	}
	ratings := []Rating{
		{CategoryID: catA, Value: floatPtr(2)},
		{CategoryID: catB, Value: floatPtr(4)},
	}

	avg, ok := AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 3.0, avg)

	// A skipped category and a non-counting zero leave the mean unchanged.
	catC := uuid.New()
	catD := uuid.New()
	scales[catC] = CategoryScale{CountsForAverage: true, HasScale: true, Min: 0, Max: 6}
	scales[catD] = CategoryScale{CountsForAverage: false, HasScale: true, Min: 0, Max: 6}
	ratings = append(ratings,
		Rating{CategoryID: catC, Value: nil},
		Rating{CategoryID: catD, Value: floatPtr(0)},
	)

	avg, ok = AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 3.0, avg)
}

func TestRescaledAverageRating_BothAtNaturalMax(t *testing.T) {
	catA := uuid.New()
	catB := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		catA: {CountsForAverage: true, HasScale: true, Min: 0, Max: 6},
		catB: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
	}
	ratings := []Rating{
		{CategoryID: catA, Value: floatPtr(6)},
		{CategoryID: catB, Value: floatPtr(4)},
	}

	for _, targetMax := range []float64{6, 4, 100} {
		avg, ok := RescaledAverageRating(ratings, scales, targetMax)
		assert.True(t, ok)
		assert.Equal(t, targetMax, avg)
	}
}

func TestRescaledAverageRating_BothAtMinimum(t *testing.T) {
	catA := uuid.New()
	catB := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		catA: {CountsForAverage: true, HasScale: true, Min: 0, Max: 6},
		catB: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
	}
	ratings := []Rating{
		{CategoryID: catA, Value: floatPtr(0)},
		{CategoryID: catB, Value: floatPtr(0)},
	}

	for _, targetMax := range []float64{6, 4, 100} {
		avg, ok := RescaledAverageRating(ratings, scales, targetMax)
		assert.True(t, ok)
		assert.Equal(t, 0.0, avg)
	}
}

func TestRescaledAverageRating_IdempotentAtNaturalMax(t *testing.T) {
	catID := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		catID: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
	}
	ratings := []Rating{{CategoryID: catID, Value: floatPtr(3)}}

	avg, ok := RescaledAverageRating(ratings, scales, 4)
	assert.True(t, ok)
	assert.Equal(t, 3.0, avg)
}

func TestRescaledAverageRating_DegenerateScale(t *testing.T) {
	catID := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		catID: {CountsForAverage: true, HasScale: true, Min: 5, Max: 5},
	}

	avg, ok := RescaledAverageRating([]Rating{{CategoryID: catID, Value: floatPtr(5)}}, scales, 10)
	assert.True(t, ok)
	assert.Equal(t, 10.0, avg)

	avg, ok = RescaledAverageRating([]Rating{{CategoryID: catID, Value: floatPtr(3)}}, scales, 10)
	assert.True(t, ok)
	assert.Equal(t, 0.0, avg)
}

func TestRescaledAverageRating_ExcludesUndefinedScale(t *testing.T) {
	withScale := uuid.New()
	noScale := uuid.New()
	scales := map[uuid.UUID]CategoryScale{
		withScale: {CountsForAverage: true, HasScale: true, Min: 0, Max: 4},
		noScale:   {CountsForAverage: true, HasScale: false},
	}
	ratings := []Rating{
		{CategoryID: withScale, Value: floatPtr(2)},
		{CategoryID: noScale, Value: floatPtr(7)},
	}

	avg, ok := RescaledAverageRating(ratings, scales, 4)
	assert.True(t, ok)
	assert.Equal(t, 2.0, avg)

	// The natural-scale average still counts the unscaled row.
	avg, ok = AverageRating(ratings, scales)
	assert.True(t, ok)
	assert.Equal(t, 4.5, avg)
}

func TestReview_IsEditable(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		createdAt  time.Time
		periodDays int
		want       bool
	}{
		{"no period configured", now.AddDate(-1, 0, 0), 0, true},
		{"inside window", now.Add(-24 * time.Hour), 3, true},
		{"exactly at boundary", now.Add(-3 * 24 * time.Hour), 3, true},
		{"just past boundary", now.Add(-3*24*time.Hour - time.Second), 3, false},
		{"far past window", now.AddDate(0, -2, 0), 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := Review{CreatedAt: tt.createdAt}
			assert.Equal(t, tt.want, review.IsEditable(tt.periodDays, now))
		})
	}
}
