package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "contractiq/internal/app"
	"contractiq/internal/session"
	"contractiq/internal/transport/http/response"
)

type DashboardHandler struct {
	store     *session.Store
	dashboard *appsvc.DashboardService
}

func NewDashboardHandler(store *session.Store, dashboard *appsvc.DashboardService) *DashboardHandler {
	return &DashboardHandler{store: store, dashboard: dashboard}
}

func (h *DashboardHandler) Snapshot(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get session failed")
		}
		return
	}
	response.OK(c, h.dashboard.Snapshot(sess))
}
