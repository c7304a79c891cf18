package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the caller's home view payload.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	dashboard, err := h.dashboardService.GetStudentDashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
