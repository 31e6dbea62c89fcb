package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/token"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/handler"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/middleware"
	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	itemHandler *handler.ItemHandler,
	adminHandler *handler.AdminHandler,
	categoryHandler *handler.CategoryHandler,
	tokens *token.Service,
	revocations repository.RevocationRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authRequired := middleware.Auth(tokens, revocations, logger)
	adminOnly := middleware.RequireAdmin()

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.GET("/verify/:token", authHandler.VerifyEmail)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authRequired, authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	items := api.Group("/items")
	items.GET("", itemHandler.List)
	items.POST("", authRequired, itemHandler.Create)
	items.GET("/mine", authRequired, itemHandler.Mine)
	items.GET("/:id", itemHandler.GetByID)
	items.POST("/:id/contact", authRequired, itemHandler.Contact)
	items.PATCH("/:id/claim", authRequired, itemHandler.Claim)
	items.DELETE("/:id", authRequired, itemHandler.Delete)

	api.GET("/search", itemHandler.Search)

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.POST("", authRequired, adminOnly, categoryHandler.Create)
	categories.DELETE("/:id", authRequired, adminOnly, categoryHandler.Delete)

	admin := api.Group("/admin", authRequired, adminOnly)
	admin.GET("/items", adminHandler.ListItems)
	admin.DELETE("/items/:id", adminHandler.DeleteItem)
	admin.GET("/stats", adminHandler.Stats)

	return r
}
