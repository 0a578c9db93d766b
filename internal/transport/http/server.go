package http

import (
	"github.com/gin-gonic/gin"

	appsvc "contractiq/internal/app"
	"contractiq/internal/bootstrap"
	"contractiq/internal/transport/http/handler"
	"contractiq/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger), gin.Recovery())

	assistantService := appsvc.NewAssistantService(app.Embedder, app.ChatModel, app.Config, app.Logger)
	dashboardService := appsvc.NewDashboardService(app.Catalog)

	healthHandler := handler.NewHealthHandler(app)
	sessionHandler := handler.NewSessionHandler(app.Sessions)
	assistantHandler := handler.NewAssistantHandler(app.Sessions, assistantService, app.Config.RAG)
	dashboardHandler := handler.NewDashboardHandler(app.Sessions, dashboardService)

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.DELETE("/:id", sessionHandler.Delete)
	sessions.POST("/:id/documents", assistantHandler.UploadDocuments)
	sessions.GET("/:id/dashboard", dashboardHandler.Snapshot)
	sessions.POST("/:id/ask", assistantHandler.Ask)
	sessions.GET("/:id/transcript", assistantHandler.Transcript)

	return router
}
