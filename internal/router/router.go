package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/config"
	"github.com/mummysfood/backend/internal/api"
	"github.com/mummysfood/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(cfg *config.Config, log *zap.SugaredLogger, db *gorm.DB, svc *api.Services, limits api.Limiters) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	metrics := middleware.NewMetrics()

	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	api.RegisterRoutes(router, db, svc, limits)

	return router
}
