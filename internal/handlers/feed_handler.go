package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

type FeedHandler struct {
	BaseHandler
	feedService services.FeedService
}

func NewFeedHandler(feedService services.FeedService, logger utils.Logger) *FeedHandler {
	return &FeedHandler{
		BaseHandler: NewBaseHandler(logger),
		feedService: feedService,
	}
}

// ListPosts returns the community feed, newest first.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := repositories.PostFilters{
		Query:  c.Query("q"),
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if raw := c.Query("type"); raw != "" {
		postType := models.PostType(raw)
		filters.Type = &postType
	}
	if author := c.Query("author_id"); author != "" {
		filters.AuthorID = &author
	}

	feed, err := h.feedService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// CreatePost publishes a feed entry.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	h.LogRequest(c, "Creating post")

	var req services.CreatePostRequest
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

	post, err := h.feedService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// DeletePost removes the caller's own post.
func (h *FeedHandler) DeletePost(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.feedService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "post deleted"})
}

// ToggleLike flips the caller's like on a post.
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	post, err := h.feedService.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Follow adds the target user to the caller's following list.
func (h *FeedHandler) Follow(c *gin.Context) {
	h.followAction(c, true)
}

// Unfollow removes the target user from the caller's following list.
func (h *FeedHandler) Unfollow(c *gin.Context) {
	h.followAction(c, false)
}

func (h *FeedHandler) followAction(c *gin.Context, follow bool) {
	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid id parameter"})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if follow {
		err = h.feedService.Follow(c.Request.Context(), userID, targetID)
	} else {
		err = h.feedService.Unfollow(c.Request.Context(), userID, targetID)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}
