package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/services"
	"github.com/Tanuroy10/studyhub-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	quizHandler      *QuizHandler
	attemptHandler   *AttemptHandler
	feedHandler      *FeedHandler
	resumeHandler    *ResumeHandler
	adminHandler     *AdminHandler
	runnerHandler    *RunnerHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *SessionAuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Session(), logger),
		quizHandler:      NewQuizHandler(serviceManager.Quiz(), logger),
		attemptHandler:   NewAttemptHandler(serviceManager.Attempt(), logger),
		feedHandler:      NewFeedHandler(serviceManager.Feed(), logger),
		resumeHandler:    NewResumeHandler(serviceManager.Resume(), logger),
		adminHandler:     NewAdminHandler(serviceManager.Admin(), logger),
		runnerHandler:    NewRunnerHandler(serviceManager.Runner(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:   NewSessionAuthMiddleware(serviceManager.Session()),
	}
}

// SetupRoutes sets up all API routes. Auth endpoints are public; the rest
// of the API requires a resolvable bearer token, with the admin surface
// additionally gated on the admin role.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/signup", hm.authHandler.Signup)
	}

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		authed.POST("/auth/logout", hm.authHandler.Logout)
		authed.GET("/auth/me", hm.authHandler.Me)

		// Profile routes
		profiles := authed.Group("/profiles")
		{
			profiles.PUT("/me", hm.authHandler.UpdateProfile)
			profiles.GET("/:id", hm.authHandler.GetProfile)
			profiles.POST("/:id/follow", hm.feedHandler.Follow)
			profiles.DELETE("/:id/follow", hm.feedHandler.Unfollow)
		}

		// Quiz routes
		quizzes := authed.Group("/quizzes")
		{
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.GET("/:id/questions", hm.quizHandler.GetQuizQuestions)
		}

		// Attempt routes
		attempts := authed.Group("/attempts")
		{
			attempts.POST("/start", hm.attemptHandler.StartAttempt)
			attempts.POST("/submit", hm.attemptHandler.SubmitAttempt)
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.GET("/:id/result", hm.attemptHandler.GetAttemptResult)
			attempts.POST("/:id/answer", hm.attemptHandler.SubmitAnswer)
			attempts.POST("/:id/timeout", hm.attemptHandler.HandleTimeout)
		}

		// Community feed routes
		posts := authed.Group("/posts")
		{
			posts.GET("", hm.feedHandler.ListPosts)
			posts.POST("", hm.feedHandler.CreatePost)
			posts.DELETE("/:id", hm.feedHandler.DeletePost)
			posts.POST("/:id/like", hm.feedHandler.ToggleLike)
		}

		// Resume builder routes
		resume := authed.Group("/resume")
		{
			resume.GET("", hm.resumeHandler.LoadResume)
			resume.PUT("", hm.resumeHandler.SaveResume)
			resume.DELETE("", hm.resumeHandler.DeleteResume)
		}

		// Code runner
		authed.POST("/runner/execute", hm.runnerHandler.RunCode)

		// Dashboard
		authed.GET("/dashboard", hm.dashboardHandler.GetDashboard)

		// Admin routes - Admins only
		admin := authed.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/questions", hm.adminHandler.CreateQuestion)
			admin.GET("/questions", hm.adminHandler.ListQuestions)
			admin.PUT("/questions/:id", hm.adminHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", hm.adminHandler.DeleteQuestion)
			admin.GET("/questions/export", hm.adminHandler.ExportQuestions)
			admin.POST("/questions/import", hm.adminHandler.ImportQuestions)
			admin.GET("/users", hm.adminHandler.ListUsers)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "studyhub-service",
		})
	})
}
