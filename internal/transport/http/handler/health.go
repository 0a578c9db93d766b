package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contractiq/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check reports liveness. All state is in-process, so there are no external
// dependencies to ping; the LLM endpoint is only reached on demand.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":             h.app.Config.App.Name,
		"env":             h.app.Config.App.Env,
		"uptime_sec":      int(time.Since(h.app.StartedAt).Seconds()),
		"sessions":        h.app.Sessions.Count(),
		"model":           h.app.Config.LLM.Model,
		"embedding_model": h.app.Config.LLM.EmbeddingModel,
	})
}
