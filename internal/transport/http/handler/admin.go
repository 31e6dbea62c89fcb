package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/usecase"
)

type adminUsecaser interface {
	ListAllItems(ctx context.Context) ([]*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	Stats(ctx context.Context) (*usecase.Stats, error)
}

type AdminHandler struct {
	adminUsecase adminUsecaser
	logger       *slog.Logger
}

func NewAdminHandler(adminUsecase adminUsecaser, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase, logger: logger.With("component", "admin_handler")}
}

// GET /api/admin/items
func (h *AdminHandler) ListItems(c *gin.Context) {
	items, err := h.adminUsecase.ListAllItems(c.Request.Context())
	if err != nil {
		h.logger.Error("admin list items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// DELETE /api/admin/items/:id
func (h *AdminHandler) DeleteItem(c *gin.Context) {
	err := h.adminUsecase.DeleteItem(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
	case err != nil:
		h.logger.Error("admin delete item", "item_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
	}
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminUsecase.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, stats)
}
