package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// Target tokens are the canonical external representation of "what a review
// is about": type:<content_type_id>-id:<object_id>.
var tokenPattern = regexp.MustCompile(`^type:(\d+)-id:(\d+)$`)

// EncodeToken builds the canonical token for a (content type, object) pair.
func EncodeToken(contentTypeID, objectID int64) string {
	return fmt.Sprintf("type:%d-id:%d", contentTypeID, objectID)
}

// DecodeToken parses a token back into its (content type, object) pair.
// Returns ErrInvalidToken when the token does not match the pattern.
func DecodeToken(token string) (contentTypeID, objectID int64, err error) {
	matches := tokenPattern.FindStringSubmatch(token)
	if matches == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	contentTypeID, err = strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	objectID, err = strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	return contentTypeID, objectID, nil
}
