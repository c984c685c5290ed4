package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shelfline/internal/domains/author"
	"shelfline/internal/shared/middleware"
	"shelfline/internal/shared/response"
	"shelfline/internal/shared/serializer"
	"shelfline/pkg/pagination"
)

type AuthorHandler struct {
	service author.Service
	links   *serializer.LinkBuilder
}

func NewAuthorHandler(svc author.Service, links *serializer.LinkBuilder) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
		links:   links,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *AuthorHandler) shape(c *gin.Context, a *author.Author) map[string]interface{} {
	version := serializer.ParseVersion(middleware.RequestVersion(c))
	admin := middleware.IsGranted(c, middleware.RoleAdmin)
	return a.Serialize(version, h.links.ResourceLinks("authors", a.ID, admin))
}

// List - GET /api/v1/authors?page=&limit=
func (h *AuthorHandler) List(c *gin.Context) {
	p := pagination.ParseParams(c.Query("page"), c.Query("limit"))

	authors, total, err := h.service.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		response.InternalServerError(c, "failed to list authors")
		return
	}

	views := make([]map[string]interface{}, 0, len(authors))
	for i := range authors {
		views = append(views, h.shape(c, &authors[i]))
	}

	response.SuccessWithMeta(c, http.StatusOK, views, &response.Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	})
}

// GetByID - GET /api/v1/authors/:id
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if author.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, "failed to get author")
		return
	}

	response.Success(c, http.StatusOK, h.shape(c, entity))
}

// Create - POST /api/v1/authors
func (h *AuthorHandler) Create(c *gin.Context) {
	var req author.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if violations, ok := response.ViolationsFrom(err); ok {
			response.ValidationFailed(c, violations)
			return
		}
		response.InternalServerError(c, "failed to create author")
		return
	}

	c.Header("Location", h.links.URLFor("authors", created.ID))
	response.Success(c, http.StatusCreated, h.shape(c, created))
}

// Update - PUT /api/v1/authors/:id
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req author.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}

	if err := h.service.Update(c.Request.Context(), id, &req); err != nil {
		if author.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		if violations, ok := response.ViolationsFrom(err); ok {
			response.ValidationFailed(c, violations)
			return
		}
		response.InternalServerError(c, "failed to update author")
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete - DELETE /api/v1/authors/:id
// Cascades to the author's books in the store.
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if author.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, "failed to delete author")
		return
	}

	c.Status(http.StatusNoContent)
}
