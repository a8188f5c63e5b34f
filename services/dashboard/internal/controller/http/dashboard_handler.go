package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/services/dashboard/internal/usecase"
)

type DashboardHandler struct {
	dashboardUseCase usecase.DashboardUseCase
	logger           *logger.Logger
}

func NewDashboardHandler(dashboardUseCase usecase.DashboardUseCase, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		logger:           logger,
	}
}

// Overview godoc
// @Summary      Organization dashboard overview
// @Description  Post counts, upcoming scheduled posts, member count, open tickets, forum activity and AI usage for the current month. Served from an in-process cache between refreshes.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} entity.Overview
// @Failure      500 {object} map[string]string
// @Router       /orgs/{org_id}/dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboardUseCase.Overview(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// SystemHealth godoc
// @Summary      Platform health snapshot
// @Description  Database and Redis reachability, event queue depth, platform rate-limit usage proxied from the content service and overview cache statistics.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} usecase.SystemHealth
// @Failure      500 {object} map[string]string
// @Router       /system/health [get]
func (h *DashboardHandler) SystemHealth(c *gin.Context) {
	health, err := h.dashboardUseCase.SystemHealth(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check system health"})
		return
	}

	c.JSON(http.StatusOK, health)
}
