package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the shared handler plumbing.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a handler entry with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// parseIDParam parses a uint path parameter. On failure it writes the 400
// response and returns 0; IDs start at 1, so 0 always means "handled".
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var credErr *services.CredentialError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &credErr):
		// Only the fixed user-facing message leaves the server.
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: credErr.Message})

	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
		})

	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})

	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})

	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAttemptNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrResumeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrAttemptNotActive),
		errors.Is(err, services.ErrAttemptTimeExpired),
		errors.Is(err, services.ErrAttemptAlreadySubmitted),
		errors.Is(err, services.ErrAnswerCountMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	default:
		utils.LoggerFromContext(c, h.logger).Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
