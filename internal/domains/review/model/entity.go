package model

import (
	"time"

	"github.com/google/uuid"

	ctmodel "review-service/internal/domains/contenttype/model"
)

// Review is one user's take on one reviewed item: free-text content plus a
// set of per-category ratings. The reviewed item is addressed generically by
// (content type id, object id).
type Review struct {
	ID              uuid.UUID  `json:"id"`
	ContentTypeID   int64      `json:"content_type_id"`
	ObjectID        int64      `json:"object_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Content         string     `json:"content"`
	Language        string     `json:"language"`
	ContentFilterID *uuid.UUID `json:"content_filter_id,omitempty"`

	// AverageRating is the denormalized natural-scale average, refreshed on
	// every submission. Nil when no counting rating has a value.
	AverageRating *float64 `json:"average_rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ratings    []Rating          `json:"ratings"`
	ExtraInfos []ReviewExtraInfo `json:"extra_infos,omitempty"`
}

// Target returns the canonical token for the reviewed item.
func (r *Review) Target() string {
	return ctmodel.EncodeToken(r.ContentTypeID, r.ObjectID)
}

// IsEditable reports whether the review is still inside the edit window.
// The boundary is inclusive; a period of zero or less disables the window.
func (r *Review) IsEditable(periodDays int, now time.Time) bool {
	if periodDays <= 0 {
		return true
	}
	return now.Sub(r.CreatedAt) <= time.Duration(periodDays)*24*time.Hour
}

// Rating is one answer to one rating category. Value is nil when the
// reviewer skipped an optional category.
type Rating struct {
	ID         uuid.UUID `json:"id"`
	ReviewID   uuid.UUID `json:"review_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Value      *float64  `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewExtraInfo attaches an arbitrary secondary object to a review
// ("reviewed during stay at hotel X"), again addressed generically.
type ReviewExtraInfo struct {
	ID            uuid.UUID `json:"id"`
	ReviewID      uuid.UUID `json:"review_id"`
	Type          string    `json:"type"`
	ContentTypeID int64     `json:"content_type_id"`
	ObjectID      int64     `json:"object_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Target returns the token of the attached object.
func (e *ReviewExtraInfo) Target() string {
	return ctmodel.EncodeToken(e.ContentTypeID, e.ObjectID)
}
