package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docinsight/internal/handler"
	"docinsight/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	corsOrigins []string,
	healthH *handler.HealthHandler,
	prepareH *handler.PrepareHandler,
	insightH *handler.InsightHandler,
	qualityH *handler.QualityHandler,
	categorizeH *handler.CategorizeHandler,
	avatarH *handler.AvatarHandler,
	stockH *handler.StockHandler,
	historyH *handler.HistoryHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/prepare", prepareH.Prepare)

	// Document tools
	v1.POST("/insights", insightH.Analyze)
	v1.POST("/quality", qualityH.Score)
	v1.POST("/categorize", categorizeH.Categorize)

	// Generative tools
	v1.POST("/avatars", avatarH.Generate)
	v1.POST("/stocks/ask", stockH.Ask)

	v1.GET("/history", historyH.List)

	return r
}
