package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shelfline/internal/domains/book"
	"shelfline/internal/shared/middleware"
	"shelfline/internal/shared/response"
	"shelfline/internal/shared/serializer"
	"shelfline/pkg/pagination"
)

type BookHandler struct {
	service book.Service
	links   *serializer.LinkBuilder
}

func NewBookHandler(svc book.Service, links *serializer.LinkBuilder) *BookHandler {
	return &BookHandler{
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

// shape applies the per-request concerns the cache must never capture:
// version-gated fields and role-gated links.
func (h *BookHandler) shape(c *gin.Context, b *book.Book) map[string]interface{} {
	version := serializer.ParseVersion(middleware.RequestVersion(c))
	admin := middleware.IsGranted(c, middleware.RoleAdmin)
	return b.Serialize(version, h.links.ResourceLinks("books", b.ID, admin))
}

// List - GET /api/v1/books?page=&limit=
func (h *BookHandler) List(c *gin.Context) {
	p := pagination.ParseParams(c.Query("page"), c.Query("limit"))

	books, total, err := h.service.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		response.InternalServerError(c, "failed to list books")
		return
	}

	views := make([]map[string]interface{}, 0, len(books))
	for i := range books {
		views = append(views, h.shape(c, &books[i]))
	}

	response.SuccessWithMeta(c, http.StatusOK, views, &response.Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	})
}

// GetByID - GET /api/v1/books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if book.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, "failed to get book")
		return
	}

	response.Success(c, http.StatusOK, h.shape(c, entity))
}

// Create - POST /api/v1/books
func (h *BookHandler) Create(c *gin.Context) {
	var req book.CreateBookRequest
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
		response.InternalServerError(c, "failed to create book")
		return
	}

	c.Header("Location", h.links.URLFor("books", created.ID))
	response.Success(c, http.StatusCreated, h.shape(c, created))
}

// Update - PUT /api/v1/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req book.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}

	if err := h.service.Update(c.Request.Context(), id, &req); err != nil {
		if book.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		if violations, ok := response.ViolationsFrom(err); ok {
			response.ValidationFailed(c, violations)
			return
		}
		response.InternalServerError(c, "failed to update book")
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete - DELETE /api/v1/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if book.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, "failed to delete book")
		return
	}

	c.Status(http.StatusNoContent)
}
