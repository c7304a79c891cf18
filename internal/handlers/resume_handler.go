package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

type ResumeHandler struct {
	BaseHandler
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService, logger utils.Logger) *ResumeHandler {
	return &ResumeHandler{
		BaseHandler:   NewBaseHandler(logger),
		resumeService: resumeService,
	}
}

// SaveResume stores the caller's full resume draft snapshot.
func (h *ResumeHandler) SaveResume(c *gin.Context) {
	h.LogRequest(c, "Saving resume draft")

	var req services.SaveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	data, err := h.resumeService.Save(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// LoadResume returns the caller's saved draft, 404 when none exists.
func (h *ResumeHandler) LoadResume(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	data, err := h.resumeService.Load(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// DeleteResume discards the caller's draft.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.resumeService.Delete(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "resume draft deleted"})
}
