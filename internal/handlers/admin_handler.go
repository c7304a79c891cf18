package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize bounds uploaded workbooks.
const maxImportSize = 10 << 20

type AdminHandler struct {
	BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  NewBaseHandler(logger),
		adminService: adminService,
	}
}

// ===== QUESTION BANK =====

// CreateQuestion adds one question to the bank.
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
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

	question, err := h.adminService.CreateQuestion(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion edits an existing question.
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateQuestionRequest
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

	question, err := h.adminService.UpdateQuestion(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes exactly one question from the bank.
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.adminService.DeleteQuestion(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "question deleted"})
}

// ListQuestions lists bank questions with filters.
func (h *AdminHandler) ListQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		Query:  c.Query("q"),
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}
	if raw := c.Query("difficulty"); raw != "" {
		difficulty := models.DifficultyLevel(raw)
		filters.Difficulty = &difficulty
	}

	resp, err := h.adminService.ListQuestions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== USERS =====

// ListUsers returns the admin user table with per-student stats.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filters := repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		filters.Role = &role
	}

	resp, err := h.adminService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== IMPORT/EXPORT =====

// ExportQuestions streams the question bank as an xlsx workbook.
func (h *AdminHandler) ExportQuestions(c *gin.Context) {
	h.LogRequest(c, "Exporting questions")

	filters := repositories.QuestionFilters{
		Limit: parseQueryInt(c, "limit", 100),
	}
	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}

	data, err := h.adminService.ExportQuestions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ImportQuestions reads questions from an uploaded xlsx workbook.
func (h *AdminHandler) ImportQuestions(c *gin.Context) {
	h.LogRequest(c, "Importing questions")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing workbook upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read workbook",
			Details: err.Error(),
		})
		return
	}

	imported, err := h.adminService.ImportQuestions(c.Request.Context(), data, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
