package http

import (
	"timemaster/internal/adapter/http/handlers"
	"timemaster/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PUT("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
		api.POST("/tasks/:id/progress", taskHandler.IncreaseTaskProgress)
		api.POST("/tasks/:id/archive", taskHandler.ArchiveTask)
		api.POST("/tasks/:id/reopen", taskHandler.ReopenTask)
	}
}

// NewRouter builds the gin engine with recovery, request logging and the api routes.
func NewRouter(logger *zap.Logger, trustedProxies []string, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery(), middleware.GinZapMiddleware(logger))
	RegisterRoutes(r, healthHandler, taskHandler)
	return r, nil
}
