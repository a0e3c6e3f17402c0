package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeToken(t *testing.T) {
	assert.Equal(t, "type:12-id:34", EncodeToken(12, 34))
	assert.Equal(t, "type:1-id:1", EncodeToken(1, 1))
}

func TestDecodeToken_RoundTrip(t *testing.T) {
	contentTypeID, objectID, err := DecodeToken(EncodeToken(7, 99))
	require.NoError(t, err)
	assert.Equal(t, int64(7), contentTypeID)
	assert.Equal(t, int64(99), objectID)
}

func TestDecodeToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"missing prefix", "12-id:34"},
		{"missing id part", "type:12"},
		{"non numeric type", "type:abc-id:34"},
		{"non numeric id", "type:12-id:abc"},
		{"negative id", "type:12-id:-34"},
		{"trailing garbage", "type:12-id:34x"},
		{"leading garbage", "xtype:12-id:34"},
		{"swapped parts", "id:34-type:12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestContentType_DisplayName(t *testing.T) {
	assert.Equal(t, "Article", ContentType{Name: "article"}.DisplayName())
	assert.Equal(t, "Product", ContentType{Name: "Product"}.DisplayName())
	assert.Equal(t, "", ContentType{Name: ""}.DisplayName())
}
