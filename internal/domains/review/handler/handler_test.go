package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-service/internal/domains/review/model"
	"review-service/internal/domains/review/service"
)

// stubService embeds the interface so only the methods a test exercises need
// an implementation.
type stubService struct {
	service.Service

	submitFn func(ctx context.Context, userID *uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*model.Review, error)
	avgFn    func(ctx context.Context, id uuid.UUID, targetMax *float64) (float64, bool, error)
}

func (s *stubService) Submit(ctx context.Context, userID *uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error) {
	return s.submitFn(ctx, userID, req)
}

func (s *stubService) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return s.getFn(ctx, id)
}

func (s *stubService) RescaledAverage(ctx context.Context, id uuid.UUID, targetMax *float64) (float64, bool, error) {
	return s.avgFn(ctx, id, targetMax)
}

func newTestRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	router := gin.New()
	router.POST("/reviews", h.Submit)
	router.GET("/reviews/:id", h.Get)
	router.GET("/reviews/:id/average", h.Average)
	return router
}

func TestSubmit_Created(t *testing.T) {
	reviewID := uuid.New()
	svc := &stubService{
		submitFn: func(ctx context.Context, userID *uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error) {
			require.Equal(t, "type:1-id:10", req.Target)
			return &model.Review{ID: reviewID, ContentTypeID: 1, ObjectID: 10, Content: req.Content}, nil
		},
	}

	body, _ := json.Marshal(map[string]interface{}{
		"target":  "type:1-id:10",
		"content": "solid",
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool         `json:"success"`
		Data    model.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, reviewID, envelope.Data.ID)
}

func TestSubmit_ValidationErrorSurfacesField(t *testing.T) {
	svc := &stubService{
		submitFn: func(ctx context.Context, userID *uuid.UUID, req *model.SubmitReviewRequest) (*model.Review, error) {
			return nil, model.NewValidationError("target", "malformed target token")
		},
	}

	body, _ := json.Marshal(map[string]interface{}{"target": "nope"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrCodeInvalidInput)
	assert.Contains(t, rec.Body.String(), "target")
}

func TestGet_NotFound(t *testing.T) {
	svc := &stubService{
		getFn: func(ctx context.Context, id uuid.UUID) (*model.Review, error) {
			return nil, model.ErrReviewNotFound
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reviews/"+uuid.NewString(), nil)

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrCodeReviewNotFound)
}

func TestAverage_UnratedSentinel(t *testing.T) {
	svc := &stubService{
		avgFn: func(ctx context.Context, id uuid.UUID, targetMax *float64) (float64, bool, error) {
			return 0, false, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reviews/"+uuid.NewString()+"/average", nil)

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Rated   bool     `json:"rated"`
			Average *float64 `json:"average"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Rated)
	assert.Nil(t, envelope.Data.Average)
}

func TestAverage_PassesMaxThrough(t *testing.T) {
	var gotMax *float64
	svc := &stubService{
		avgFn: func(ctx context.Context, id uuid.UUID, targetMax *float64) (float64, bool, error) {
			gotMax = targetMax
			return 19.444444444444446, true, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reviews/"+uuid.NewString()+"/average?max=100", nil)

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotMax)
	assert.Equal(t, 100.0, *gotMax)
	assert.Contains(t, rec.Body.String(), "19.444444444444446")
}
