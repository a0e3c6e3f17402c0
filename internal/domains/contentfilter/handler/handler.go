package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"review-service/internal/domains/contentfilter/model"
	"review-service/internal/domains/contentfilter/service"
	ctservice "review-service/internal/domains/contenttype/service"
	"review-service/internal/shared/response"
)

// Handler exposes the admin surface for content filters and the content type
// registry.
type Handler struct {
	service      service.Service
	contentTypes ctservice.Service
}

func NewHandler(service service.Service, contentTypes ctservice.Service) *Handler {
	return &Handler{service: service, contentTypes: contentTypes}
}

// ListContentTypes handles GET /admin/content-types
func (h *Handler) ListContentTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, h.contentTypes.ContentTypes())
}

// List handles GET /admin/content-filters
func (h *Handler) List(c *gin.Context) {
	filters, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list content filters")
		return
	}

	response.Success(c, http.StatusOK, filters)
}

// Get handles GET /admin/content-filters/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid filter ID")
		return
	}

	filter, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, filter)
}

// Create handles POST /admin/content-filters
func (h *Handler) Create(c *gin.Context) {
	var req model.SaveFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	filter, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, filter)
}

// Update handles PUT /admin/content-filters/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid filter ID")
		return
	}

	var req model.SaveFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	filter, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, filter)
}

// Delete handles DELETE /admin/content-filters/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid filter ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Candidates handles GET /admin/content-filters/:id/candidates
func (h *Handler) Candidates(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid filter ID")
		return
	}

	candidates, err := h.service.Candidates(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, candidates)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidInput, "Validation failed", validationErrs)
	case errors.Is(err, model.ErrFilterNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeFilterNotFound, "Content filter not found")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
