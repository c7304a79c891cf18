package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

type RunnerHandler struct {
	BaseHandler
	runnerService services.RunnerService
}

func NewRunnerHandler(runnerService services.RunnerService, logger utils.Logger) *RunnerHandler {
	return &RunnerHandler{
		BaseHandler:   NewBaseHandler(logger),
		runnerService: runnerService,
	}
}

// RunCode returns a simulated execution transcript for the submitted
// snippet.
func (h *RunnerHandler) RunCode(c *gin.Context) {
	var req services.RunCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.runnerService.Run(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
