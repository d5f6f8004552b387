package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/services"
	"github.com/contest-platform/contest-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	contestHandler *ContestHandler
	juryHandler    *JuryHandler
	fileHandler    *FileHandler
	userHandler    *UserHandler
	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger, jwtSecret string) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(jwtSecret)

	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		contestHandler: NewContestHandler(serviceManager.Contest(), serviceManager.Export(), logger),
		juryHandler:    NewJuryHandler(serviceManager.Jury(), logger),
		fileHandler:    NewFileHandler(serviceManager.File(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Auth routes (register/login are public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.GetMe)
		}

		// Contest routes
		contests := v1.Group("/contests")
		{
			// Public reads (caller-specific flags when a token is present)
			contests.GET("", hm.contestHandler.ListContests)
			contests.GET("/:id", hm.authMiddleware.OptionalAuthMiddleware(), hm.contestHandler.GetContest)

			// Admin management
			contests.POST("", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.contestHandler.CreateContest)
			contests.PUT("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.contestHandler.UpdateContest)
			contests.POST("/:id/judging", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.contestHandler.StartJudging)
			contests.GET("/:id/applications", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.contestHandler.ListApplications)
			contests.GET("/:id/export", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.contestHandler.ExportResults)

			// Jury management (admin)
			contests.POST("/:id/jury/:userId", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.juryHandler.AssignJury)
			contests.GET("/:id/jury", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.juryHandler.ListAssignments)

			// Participation (any authenticated user)
			contests.POST("/:id/apply", hm.authMiddleware.AuthMiddleware(), hm.contestHandler.Apply)
			contests.GET("/:id/can-submit", hm.authMiddleware.AuthMiddleware(), hm.contestHandler.CanSubmit)
			contests.POST("/:id/submissions", hm.authMiddleware.AuthMiddleware(), hm.contestHandler.CreateSubmission)
		}

		// Application review (admin)
		applications := v1.Group("/applications")
		applications.Use(hm.authMiddleware.AuthMiddleware())
		{
			applications.PUT("/:id/review", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.contestHandler.ReviewApplication)
		}

		// Jury routes
		jury := v1.Group("/jury")
		jury.Use(hm.authMiddleware.AuthMiddleware())
		{
			jury.POST("/submissions/:id/score", hm.authMiddleware.RequireRoleMiddleware(models.RoleJury), hm.juryHandler.ScoreSubmission)
			jury.GET("/contests/:id/submissions", hm.authMiddleware.RequireRoleMiddleware(models.RoleJury), hm.juryHandler.GetContestSubmissions)
		}

		// File routes
		submissions := v1.Group("/submissions")
		submissions.Use(hm.authMiddleware.AuthMiddleware())
		{
			submissions.POST("/:id/files", hm.fileHandler.UploadFile)
			submissions.DELETE("/:id/files", hm.fileHandler.DeleteFiles)
		}
		files := v1.Group("/files")
		files.Use(hm.authMiddleware.AuthMiddleware())
		{
			files.GET("/:fileId", hm.fileHandler.DownloadFile)
		}

		// User profile routes
		users := v1.Group("/users")
		{
			users.GET("/:id/profile", hm.userHandler.GetProfile)
			users.PUT("/:id/profile", hm.authMiddleware.AuthMiddleware(), hm.userHandler.UpdateProfile)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "contest-service",
	})
}
