package model

import (
	"context"
	"unicode"
	"unicode/utf8"
)

// ContentType is one entry of the host type registry: a stable integer
// handle mapped to a registered model name ("article", "product", ...).
type ContentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DisplayName capitalizes the first letter of the registered name.
func (c ContentType) DisplayName() string {
	if c.Name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(c.Name)
	return string(unicode.ToUpper(r)) + c.Name[size:]
}

// Object is one live instance of a content type.
type Object struct {
	ID      int64  `json:"id"`
	Display string `json:"display"`
}

// Candidate is one selectable reviewed-item option for admin forms.
type Candidate struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

// ObjectSource looks up live instances of one content type. This is the
// integration seam with the host's model layer; a content type without a
// registered source is treated as removed and skipped during enumeration.
type ObjectSource interface {
	// List enumerates the live instances of the type.
	List(ctx context.Context) ([]Object, error)

	// Get returns the instance with the given id, or ErrObjectNotFound.
	Get(ctx context.Context, id int64) (*Object, error)
}
