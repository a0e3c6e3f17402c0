package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"review-service/internal/domains/review/model"
	"review-service/internal/domains/review/service"
	"review-service/internal/shared/response"
)

// AdminHandler exposes the curation surface. All routes sit behind the auth
// and admin middlewares.
type AdminHandler struct {
	service service.Service
}

func NewAdminHandler(service service.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// List handles GET /admin/reviews
func (h *AdminHandler) List(c *gin.Context) {
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

// Get handles GET /admin/reviews/:id
func (h *AdminHandler) Get(c *gin.Context) {
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

// Update handles PUT /admin/reviews/:id
func (h *AdminHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	var req model.AdminUpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.service.AdminUpdate(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// Delete handles DELETE /admin/reviews/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, nil, true); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UpsertRating handles PUT /admin/reviews/:id/ratings/:categoryId
func (h *AdminHandler) UpsertRating(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	var req model.UpsertRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.service.UpsertRating(c.Request.Context(), reviewID, categoryID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// Candidates handles GET /admin/reviews/candidates?filter_id=
func (h *AdminHandler) Candidates(c *gin.Context) {
	var filterID *uuid.UUID
	if raw := c.Query("filter_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid filter_id parameter")
			return
		}
		filterID = &id
	}

	candidates, err := h.service.Candidates(c.Request.Context(), filterID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, candidates)
}

// AddExtraInfo handles POST /admin/reviews/:id/extra-infos
func (h *AdminHandler) AddExtraInfo(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	var req model.ExtraInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.service.AddExtraInfo(c.Request.Context(), reviewID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, info)
}

// DeleteExtraInfo handles DELETE /admin/reviews/:id/extra-infos/:infoId
func (h *AdminHandler) DeleteExtraInfo(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}
	infoID, err := uuid.Parse(c.Param("infoId"))
	if err != nil {
		response.BadRequest(c, "Invalid extra info ID")
		return
	}

	if err := h.service.DeleteExtraInfo(c.Request.Context(), reviewID, infoID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// RequestExport handles POST /admin/reviews/export
func (h *AdminHandler) RequestExport(c *gin.Context) {
	status, err := h.service.RequestExport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, status)
}

// ExportStatus handles GET /admin/reviews/export/:id
func (h *AdminHandler) ExportStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid export ID")
		return
	}

	status, err := h.service.ExportStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}
