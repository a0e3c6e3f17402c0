package model

import "github.com/google/uuid"

// CategoryScale is the aggregation view of one rating category: whether it
// counts towards the average, and the value range its choices span. HasScale
// is false for categories without choices.
type CategoryScale struct {
	CountsForAverage bool
	HasScale         bool
	Min              float64
	Max              float64
}

// AverageRating computes the natural-scale average over the review's rating
// rows. Rows for categories excluded from the average are skipped, as are
// rows whose value cannot be resolved. ok is false when no row contributed;
// 0 is a valid average and never used as a sentinel.
func AverageRating(ratings []Rating, scales map[uuid.UUID]CategoryScale) (avg float64, ok bool) {
	total := 0.0
	count := 0

	fallback := fallbackValues(ratings)
	for _, rating := range ratings {
		scale, known := scales[rating.CategoryID]
		if !known || !scale.CountsForAverage {
			continue
		}
		value, resolved := resolveValue(rating, fallback)
		if !resolved {
			continue
		}
		total += value
		count++
	}

	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}

// RescaledAverageRating computes the average with every contributing value
// projected onto [0, targetMax] via its category's scale. Rows whose
// category has no defined scale are excluded: without choices there is no
// range to project from.
func RescaledAverageRating(ratings []Rating, scales map[uuid.UUID]CategoryScale, targetMax float64) (avg float64, ok bool) {
	total := 0.0
	count := 0

	fallback := fallbackValues(ratings)
	for _, rating := range ratings {
		scale, known := scales[rating.CategoryID]
		if !known || !scale.CountsForAverage || !scale.HasScale {
			continue
		}
		value, resolved := resolveValue(rating, fallback)
		if !resolved {
			continue
		}
		total += rescale(value, scale, targetMax)
		count++
	}

	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}

// fallbackValues records the first non-nil value seen per category. A row
// with a nil value inherits that value; a category with no recorded value at
// all contributes nothing.
func fallbackValues(ratings []Rating) map[uuid.UUID]float64 {
	fallback := make(map[uuid.UUID]float64)
	for _, rating := range ratings {
		if rating.Value == nil {
			continue
		}
		if _, seen := fallback[rating.CategoryID]; !seen {
			fallback[rating.CategoryID] = *rating.Value
		}
	}
	return fallback
}

func resolveValue(rating Rating, fallback map[uuid.UUID]float64) (float64, bool) {
	if rating.Value != nil {
		return *rating.Value, true
	}
	value, ok := fallback[rating.CategoryID]
	return value, ok
}

// rescale projects value from [scale.Min, scale.Max] onto [0, targetMax].
// The multiply happens before the divide; the order is observable in the
// last bits of the result and callers compare against stored averages.
// A degenerate scale (min == max) maps its single point to targetMax and
// everything else to 0.
func rescale(value float64, scale CategoryScale, targetMax float64) float64 {
	if scale.Max == scale.Min {
		if value == scale.Max {
			return targetMax
		}
		return 0
	}
	return (value - scale.Min) * targetMax / (scale.Max - scale.Min)
}

