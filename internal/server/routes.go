package routes

import (
	"github.com/AgusMolinaCode/stockly/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter crea el engine de gin con CORS, request id y todas las rutas
func NewRouter(h *middleware.Handlers, allowOrigins []string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader}
	router.Use(cors.New(config))
	router.Use(middleware.RequestID())

	RegisterRoutes(router, h)
	return router
}

func RegisterRoutes(router *gin.Engine, h *middleware.Handlers) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/holdings", h.GetHoldings)
		api.POST("/holdings", h.CreateHolding)
		api.PUT("/holdings/:ticker", h.UpdateHolding)
		api.DELETE("/holdings/:ticker", h.DeleteHolding)
		api.GET("/holdings/:ticker/history", h.GetHoldingHistory)

		api.GET("/performance", h.GetPerformance)
		api.GET("/performance/narrative", h.GetNarrative)
		api.GET("/performance/export.csv", h.ExportCSV)
		api.GET("/performance/export.pdf", h.ExportPDF)

		api.POST("/goals", h.SetGoals)
		api.GET("/recommendations", h.GetRecommendations)
	}
}
