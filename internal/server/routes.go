package server

import (
	"github.com/gin-gonic/gin"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/handler"
	"github.com/fleveque/sentiment-service/internal/middleware"
)

// Deps are the handlers the routes are bound to.
type Deps struct {
	Health  *handler.HealthHandler
	Analyze *handler.AnalyzeHandler
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {
	r.GET("/health", deps.Health.Health)

	api := r.Group("")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		api.POST("/analyze", deps.Analyze.Analyze)
		api.OPTIONS("/analyze")
	}
}
