package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deniz/bookbridge/internal/app/controllers"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/middleware"
	"github.com/deniz/bookbridge/internal/pkg/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	bookController *controllers.BookController,
	reportController *controllers.ReportController,
	postController *controllers.PostController,
	wsHandler *realtime.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Profile
		authenticated.GET("/users/me", authController.GetProfile)
		authenticated.PUT("/users/me", authController.UpdateProfile)

		// Book listings and lifecycle
		books := authenticated.Group("/books")
		{
			books.GET("", bookController.GetBooks)
			books.POST("", bookController.CreateBook)
			books.GET("/:id", bookController.GetBook)
			books.PUT("/:id", bookController.UpdateBook)
			books.DELETE("/:id", bookController.DeleteBook)

			// Waitlist transitions
			books.POST("/:id/requests", bookController.SubmitRequest)
			books.POST("/:id/requests/:uid/approve", bookController.ApproveRequest)
			books.POST("/:id/requests/:uid/reject", bookController.RejectRequest)
			books.POST("/:id/requests/:uid/handover", bookController.HandoverRequest)
			books.POST("/:id/receive", bookController.ConfirmReceipt)

			// Complaints
			books.POST("/:id/report", reportController.CreateReport)
		}

		// Pending-request notifications for the caller
		authenticated.GET("/notifications", bookController.GetNotifications)

		// Community board
		posts := authenticated.Group("/posts")
		{
			posts.GET("", postController.GetPosts)
			posts.POST("", postController.CreatePost)
		}

		// Live collection snapshots
		authenticated.GET("/ws", wsHandler.HandleConnection)

		// Admin routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			admin.GET("/reports", reportController.GetReports)
			admin.DELETE("/reports/:id", reportController.DismissReport)
			admin.POST("/reports/:id/delete-book", reportController.ResolveReport)
			admin.DELETE("/posts/:id", postController.DeletePost)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
