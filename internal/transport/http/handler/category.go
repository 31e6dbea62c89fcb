package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
)

type categoryUsecaser interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	categoryUsecase categoryUsecaser
	logger          *slog.Logger
}

func NewCategoryHandler(categoryUsecase categoryUsecaser, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger.With("component", "category_handler")}
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryUsecase.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryResponse{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			CreatedAt:   cat.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// POST /api/categories (admin)
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.categoryUsecase.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusCreated, categoryResponse{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		CreatedAt:   created.CreatedAt,
	})
}

// DELETE /api/categories/:id (admin)
func (h *CategoryHandler) Delete(c *gin.Context) {
	err := h.categoryUsecase.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case err != nil:
		h.logger.Error("delete category", "category_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
