package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"review-service/internal/domains/category/model"
	"review-service/internal/domains/category/service"
	"review-service/internal/shared/response"
)

// Handler exposes the admin CRUD surface for rating categories.
type Handler struct {
	service service.Service
}

func NewHandler(service service.Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/categories
func (h *Handler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context(), c.Query("language"))
	if err != nil {
		response.InternalServerError(c, "Failed to list rating categories")
		return
	}

	response.Success(c, http.StatusOK, categories)
}

// Get handles GET /admin/categories/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	category, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// Create handles POST /admin/categories
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, category)
}

// Update handles PUT /admin/categories/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// Delete handles DELETE /admin/categories/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// TranslateChoice handles PUT /admin/choices/:id/translations/:lang
func (h *Handler) TranslateChoice(c *gin.Context) {
	choiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid choice ID")
		return
	}

	language := c.Param("language")
	if language == "" {
		response.BadRequest(c, "Missing language code")
		return
	}

	var req model.TranslateChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.TranslateChoice(c.Request.Context(), choiceID, language, &req); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"choice_id": choiceID, "language": language, "label": req.Label})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidInput, "Validation failed", validationErrs)
	case errors.Is(err, model.ErrCategoryNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeCategoryNotFound, "Rating category not found")
	case errors.Is(err, model.ErrChoiceNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeChoiceNotFound, "Rating choice not found")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
