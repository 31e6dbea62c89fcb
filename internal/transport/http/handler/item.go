package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/middleware"
	"github.com/jeswinthayil/Lostandfound/internal/usecase"
)

type itemUsecaser interface {
	PostItem(ctx context.Context, poster string, input usecase.PostItemInput) (*domain.Item, error)
	RecordContact(ctx context.Context, itemID, requester, message string) error
	MarkClaimed(ctx context.Context, itemID, claimant string) error
	List(ctx context.Context, input repository.ListItemsInput) ([]*domain.Item, error)
	ListMine(ctx context.Context, poster string) ([]*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Search(ctx context.Context, keyword string) ([]*domain.Item, error)
	DeleteOwned(ctx context.Context, id, poster string) error
}

type ItemHandler struct {
	itemUsecase itemUsecaser
	logger      *slog.Logger
}

func NewItemHandler(itemUsecase itemUsecaser, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{itemUsecase: itemUsecase, logger: logger.With("component", "item_handler")}
}

type createItemRequest struct {
	Title       string            `form:"title"       binding:"required"`
	Description string            `form:"description" binding:"required"`
	CategoryID  string            `form:"category_id" binding:"required"`
	Status      domain.ItemStatus `form:"status"      binding:"required,oneof=lost found"`
	Location    string            `form:"location"    binding:"required"`
}

type itemResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	CategoryID      string            `json:"category_id"`
	Status          domain.ItemStatus `json:"status"`
	Location        string            `json:"location"`
	PhotoURL        *string           `json:"photo_url,omitempty"`
	PostedBy        string            `json:"posted_by"`
	ContactRequests []string          `json:"contact_requests,omitempty"`
	Claimed         bool              `json:"claimed"`
	ClaimedAt       *time.Time        `json:"claimed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toItemResponse(item *domain.Item) itemResponse {
	return itemResponse{
		ID:              item.ID,
		Title:           item.Title,
		Description:     item.Description,
		CategoryID:      item.CategoryID,
		Status:          item.Status,
		Location:        item.Location,
		PhotoURL:        item.PhotoURL,
		PostedBy:        item.PostedBy,
		ContactRequests: item.ContactRequests,
		Claimed:         item.Claimed,
		ClaimedAt:       item.ClaimedAt,
		CreatedAt:       item.CreatedAt,
	}
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

// POST /api/items
// Multipart form; "photo" is an optional file part.
func (h *ItemHandler) Create(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	var req createItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.PostItemInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Status:      req.Status,
		Location:    req.Location,
	}

	if file, err := c.FormFile("photo"); err == nil {
		opened, err := file.Open()
		if err != nil {
			h.logger.Error("open photo upload", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
		defer opened.Close()
		input.Photo = opened
		input.PhotoName = file.Filename
		input.PhotoSize = file.Size
	}

	item, err := h.itemUsecase.PostItem(c.Request.Context(), id.Email, input)
	if err != nil {
		h.logger.Error("post item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(item))
}

// GET /api/items
// All filters optional and conjunctive.
func (h *ItemHandler) List(c *gin.Context) {
	input := repository.ListItemsInput{
		Status:     domain.ItemStatus(c.Query("status")),
		CategoryID: c.Query("category_id"),
		Location:   c.Query("location"),
		TitleLike:  c.Query("title"),
	}
	if raw := c.Query("claimed"); raw != "" {
		claimed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "claimed must be a boolean"})
			return
		}
		input.Claimed = &claimed
	}
	switch key := repository.SortKey(c.Query("sort_by")); key {
	case repository.SortByDate, repository.SortByStatus, repository.SortByCategory:
		input.SortBy = key
	}

	items, err := h.itemUsecase.List(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("list items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// GET /api/items/mine
func (h *ItemHandler) Mine(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	items, err := h.itemUsecase.ListMine(c.Request.Context(), id.Email)
	if err != nil {
		h.logger.Error("list own items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// GET /api/items/:id
func (h *ItemHandler) GetByID(c *gin.Context) {
	item, err := h.itemUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
			return
		}
		h.logger.Error("get item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

type contactRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/items/:id/contact
func (h *ItemHandler) Contact(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.itemUsecase.RecordContact(c.Request.Context(), c.Param("id"), id.Email, req.Message)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
	case errors.Is(err, domain.ErrSelfContact):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You can't contact yourself"})
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
	case err != nil:
		h.logger.Error("record contact", "item_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Message sent to item poster"})
	}
}

// PATCH /api/items/:id/claim
func (h *ItemHandler) Claim(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	err := h.itemUsecase.MarkClaimed(c.Request.Context(), c.Param("id"), id.Email)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
	case errors.Is(err, domain.ErrSelfClaim):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You posted this item"})
	case errors.Is(err, domain.ErrClaimGate):
		c.JSON(http.StatusConflict, gin.H{"error": "Contact the poster before claiming"})
	case errors.Is(err, domain.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "Item is already claimed"})
	case err != nil:
		h.logger.Error("mark claimed", "item_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Item marked as claimed"})
	}
}

// DELETE /api/items/:id
// A non-owned item reads as not found.
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	err := h.itemUsecase.DeleteOwned(c.Request.Context(), c.Param("id"), id.Email)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
	case err != nil:
		h.logger.Error("delete item", "item_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
	}
}

// GET /api/search?q=<keyword>
func (h *ItemHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search keyword"})
		return
	}

	items, err := h.itemUsecase.Search(c.Request.Context(), keyword)
	if err != nil {
		h.logger.Error("search items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}
