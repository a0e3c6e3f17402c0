package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SaveFilterRequest creates or replaces a content filter.
type SaveFilterRequest struct {
	Name                  string  `json:"name"`
	AllowedContentTypeIDs []int64 `json:"allowed_content_type_ids"`
}

func (r SaveFilterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.AllowedContentTypeIDs, validation.Required),
	)
}
