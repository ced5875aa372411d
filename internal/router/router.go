// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storesight/analytics-backend/internal/config"
	"github.com/storesight/analytics-backend/internal/dataset"
	"github.com/storesight/analytics-backend/internal/handlers"
	"github.com/storesight/analytics-backend/internal/middleware"
	"github.com/storesight/analytics-backend/internal/services"
)

func Initialize(loader *dataset.Loader, cfg *config.Config) *gin.Engine {
	// Initialize services
	analyticsService := services.NewAnalyticsService(
		loader,
		time.Duration(cfg.Cache.ViewTTL)*time.Minute,
	)

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		analytics := v1.Group("/analytics")
		analytics.Use(middleware.AggregationRateLimit())
		{
			analytics.GET("/revenue", analyticsHandler.GetTotalRevenue)
			analytics.GET("/revenue/periods", analyticsHandler.GetRevenueByPeriod)
			analytics.GET("/growth/yoy", analyticsHandler.GetYoYGrowth)
			analytics.GET("/growth/mom", analyticsHandler.GetMoMGrowth)
			analytics.GET("/products", analyticsHandler.GetProductPerformance)
			analytics.GET("/geography", analyticsHandler.GetGeographicPerformance)
			analytics.GET("/delivery", analyticsHandler.GetDeliveryPerformance)
			analytics.GET("/reviews", analyticsHandler.GetReviewMetrics)
			analytics.GET("/orders", analyticsHandler.GetOrderMetrics)
			analytics.GET("/summary", analyticsHandler.GetDashboardSummary)
			analytics.GET("/datasets/range", analyticsHandler.GetDatasetRange)
		}
	}

	return r
}
