package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewAuthHandler(sessionService services.SessionService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Login request")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.sessionService.Login(c.Request.Context(), &req, sessionIDFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Signup creates a provider credential and its profile document.
func (h *AuthHandler) Signup(c *gin.Context) {
	h.LogRequest(c, "Signup request")

	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.sessionService.Signup(c.Request.Context(), &req, sessionIDFrom(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Logout revokes the caller's session token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.LogRequest(c, "Logout request")

	token := c.GetString("auth_token")
	if err := h.sessionService.Logout(c.Request.Context(), token, sessionIDFrom(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

// Me returns the authenticated user's profile document.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile merges a partial update into the caller's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "Profile update request")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.sessionService.UpdateProfile(c.Request.Context(), userID, &update)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProfile returns another user's public profile document.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid id parameter"})
		return
	}

	user, err := h.sessionService.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
