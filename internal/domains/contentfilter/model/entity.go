package model

import (
	"time"

	"github.com/google/uuid"
)

// Filter is a named allow-list of content types. A review submitted under a
// filter may only target objects whose content type is on the list.
type Filter struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	AllowedContentTypeIDs []int64   `json:"allowed_content_type_ids"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Allows reports whether the content type is on the filter's allow-list.
// An empty allow-list permits nothing.
func (f *Filter) Allows(contentTypeID int64) bool {
	for _, id := range f.AllowedContentTypeIDs {
		if id == contentTypeID {
			return true
		}
	}
	return false
}
