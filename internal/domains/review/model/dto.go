package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ============================================================================
// SUBMISSION
// ============================================================================

// SubmitReviewRequest creates a review. Ratings maps category id to the
// chosen value; a nil value records that the reviewer skipped the category.
type SubmitReviewRequest struct {
	Target          string              `json:"target"`
	Content         string              `json:"content"`
	Language        string              `json:"language"`
	ContentFilterID *uuid.UUID          `json:"content_filter_id"`
	Ratings         map[string]*float64 `json:"ratings"`
}

func (r SubmitReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Target, validation.Required),
		validation.Field(&r.Content, validation.Length(0, 10000)),
		validation.Field(&r.Language, validation.Length(0, 10)),
	)
}

// UpdateReviewRequest edits an existing review. The reviewed item itself is
// not changeable on the public surface.
type UpdateReviewRequest struct {
	Content  string              `json:"content"`
	Language string              `json:"language"`
	Ratings  map[string]*float64 `json:"ratings"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Length(0, 10000)),
		validation.Field(&r.Language, validation.Length(0, 10)),
	)
}

// AdminUpdateReviewRequest additionally allows re-pointing the reviewed item
// and re-assigning the content filter.
type AdminUpdateReviewRequest struct {
	Target          string              `json:"target"`
	Content         string              `json:"content"`
	Language        string              `json:"language"`
	ContentFilterID *uuid.UUID          `json:"content_filter_id"`
	Ratings         map[string]*float64 `json:"ratings"`
}

func (r AdminUpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Length(0, 10000)),
		validation.Field(&r.Language, validation.Length(0, 10)),
	)
}

// UpsertRatingRequest is the admin inline rating edit payload.
type UpsertRatingRequest struct {
	Value *float64 `json:"value"`
}

// ExtraInfoRequest attaches a secondary object to a review.
type ExtraInfoRequest struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

func (r ExtraInfoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Target, validation.Required),
	)
}

// ============================================================================
// QUERIES
// ============================================================================

// ListReviewsQuery filters and paginates review listings.
type ListReviewsQuery struct {
	Target   string     `form:"target"`
	UserID   *uuid.UUID `form:"user_id"`
	FilterID *uuid.UUID `form:"filter_id"`
	Page     int        `form:"page"`
	Limit    int        `form:"limit"`
}

func (q *ListReviewsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// ============================================================================
// FORM DESCRIPTOR
// ============================================================================

// ReviewForm describes the submission form for a target: one field per live
// rating category, with prior values filled in when re-editing.
type ReviewForm struct {
	Target   string      `json:"target"`
	ReviewID *uuid.UUID  `json:"review_id,omitempty"`
	Content  string      `json:"content"`
	Fields   []FormField `json:"fields"`
}

type FormField struct {
	CategoryID uuid.UUID    `json:"category_id"`
	Name       string       `json:"name"`
	Question   string       `json:"question,omitempty"`
	Required   bool         `json:"required"`
	Widget     string       `json:"widget"`
	Value      *float64     `json:"value,omitempty"`
	Choices    []FormChoice `json:"choices"`
}

type FormChoice struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// ============================================================================
// EXPORT
// ============================================================================

// Export statuses
const (
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusCompleted  = "completed"
	ExportStatusFailed     = "failed"
)

// ExportStatus is the redis-backed state of one export job.
type ExportStatus struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	FileKey     string    `json:"file_key,omitempty"`
	DownloadURL string    `json:"download_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
