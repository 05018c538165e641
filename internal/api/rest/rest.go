package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/newsforge/hotevents/internal/api/middleware"
)

// SetupRoutes configures all REST API routes. The tenant middleware resolves
// the caller's system once per request; handlers read it from the gin context.
func SetupRoutes(router *gin.Engine, handler Handler, resolver middleware.TenantResolver) {
	// Health check endpoint (no tenant resolution)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api", middleware.ResolveTenant(resolver))
	{
		articles := api.Group("/articles")
		{
			articles.POST("", handler.CreateArticle)
			articles.POST("/batch", handler.CreateArticleBatch)
			articles.GET("", handler.ListArticles)
			articles.GET("/:id", handler.GetArticle)
			articles.PUT("/:id/weight", handler.UpdateArticleWeight)
			articles.DELETE("/:id", handler.DeleteArticle)
			articles.POST("/:id/share", handler.ShareArticle)
		}

		hotEvents := api.Group("/hot-events")
		{
			// Live path: recomputed per call, expensive, always current
			hotEvents.GET("/realtime", handler.GetRealtimeHotEvents)
			hotEvents.GET("/realtime/:clusterId/articles", handler.GetRealtimeClusterArticles)

			// Cached path: last materialized generation, staleness bounded
			// by the system's clustering cadence
			hotEvents.GET("/snapshot", handler.GetSnapshotHotEvents)
			hotEvents.GET("/snapshot/:rankNo/articles", handler.GetSnapshotSlotArticles)
			hotEvents.POST("/snapshot/refresh", handler.RefreshSnapshot)
		}

		systems := api.Group("/systems")
		{
			systems.POST("", handler.CreateSystem)
			systems.GET("", handler.ListSystems)
			systems.GET("/:id", handler.GetSystem)
			systems.GET("/code/:code", handler.GetSystemByCode)
			systems.PUT("/:id/config", handler.UpdateSystemConfig)
			systems.POST("/:id/setup-cron", handler.SetupSystemCron)
			systems.POST("/setup-all-cron", handler.SetupAllCron)
		}

		embedding := api.Group("/embedding")
		{
			embedding.POST("/trigger", handler.TriggerEmbedding)
			embedding.GET("/pending-count", handler.GetPendingEmbeddings)
		}
	}
}
