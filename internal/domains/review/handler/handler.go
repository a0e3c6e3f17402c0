package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"review-service/internal/domains/review/model"
	"review-service/internal/domains/review/service"
	"review-service/internal/shared/response"
)

// Handler exposes the public review surface.
type Handler struct {
	service service.Service
}

func NewHandler(service service.Service) *Handler {
	return &Handler{service: service}
}

// currentUser returns the authenticated user id, or nil for anonymous
// requests that passed the optional-auth middleware.
func currentUser(c *gin.Context) *uuid.UUID {
	value, exists := c.Get("userID")
	if !exists {
		return nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// Submit handles POST /reviews
func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.service.Submit(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, review)
}

// Update handles PUT /reviews/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.service.Update(c.Request.Context(), id, currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// Get handles GET /reviews/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	review, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// List handles GET /reviews?target=&user_id=&filter_id=&page=&limit=
func (h *Handler) List(c *gin.Context) {
	var query model.ListReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	reviews, total, err := h.service.List(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{
		Page:  query.Page,
		Limit: query.Limit,
		Total: total,
	})
}

// Average handles GET /reviews/:id/average?max=
func (h *Handler) Average(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	var targetMax *float64
	if raw := c.Query("max"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "Invalid max parameter")
			return
		}
		targetMax = &value
	}

	avg, ok, err := h.service.RescaledAverage(c.Request.Context(), id, targetMax)
	if err != nil {
		respondError(c, err)
		return
	}

	if !ok {
		response.Success(c, http.StatusOK, gin.H{"rated": false})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rated": true, "average": avg})
}

// Form handles GET /reviews/form?target=&language=&review_id=
func (h *Handler) Form(c *gin.Context) {
	target := c.Query("target")
	if target == "" {
		response.BadRequest(c, "Missing target parameter")
		return
	}

	var reviewID *uuid.UUID
	if raw := c.Query("review_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid review_id parameter")
			return
		}
		reviewID = &id
	}

	form, err := h.service.Form(c.Request.Context(), target, c.Query("language"), reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, form)
}

// Delete handles DELETE /reviews/:id (owner only)
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, currentUser(c), false); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// respondError maps domain errors onto the response envelope. Shared by the
// public and admin handlers.
func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidInput, "Validation failed", validationErr)
	case errors.As(err, &validationErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidInput, "Validation failed", validationErrs)
	case errors.Is(err, model.ErrReviewNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeReviewNotFound, "Review not found")
	case errors.Is(err, model.ErrEditWindowClosed):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeEditWindowClosed, "Review is no longer editable")
	case errors.Is(err, model.ErrNotOwner):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeNotOwner, "Review belongs to another user")
	case errors.Is(err, model.ErrExtraInfoNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeExtraInfoNotFound, "Extra info not found")
	case errors.Is(err, model.ErrExportNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeExportNotFound, "Export not found")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
