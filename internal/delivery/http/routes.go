package http

import (
	"github.com/foodexplorer/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.GetCatalog)
			catalog.PUT("/query", handler.UpdateQuery)
			catalog.POST("/query/reset", handler.ResetQuery)
			catalog.POST("/more", handler.LoadMore)
			catalog.POST("/sentinel", handler.SentinelVisibility)
			catalog.POST("/sentinel/attach", handler.AttachSentinel)
			catalog.DELETE("/sentinel", handler.ReleaseSentinel)
			catalog.GET("/products/:code", handler.GetProduct)
			catalog.GET("/categories", handler.GetCategories)
			catalog.GET("/suggest", handler.Suggest)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.DELETE("", handler.ClearCart)
			cart.POST("/items", handler.AddCartItem)
			cart.DELETE("/items/:code", handler.RemoveCartItem)
			cart.POST("/items/:code/increment", handler.IncrementCartItem)
			cart.POST("/items/:code/decrement", handler.DecrementCartItem)
		}

		v1.GET("/events", handler.StreamEvents)
	}

	return router
}
