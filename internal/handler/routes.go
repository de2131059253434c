package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, userHandler *UserHandler, mentorHandler *MentorHandler, messageHandler *MessageHandler, saleHandler *SaleHandler, parameterHandler *ParameterHandler, reportHandler *ReportHandler, statsHandler *StatsHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := middleware.RateLimitMiddleware(rateLimiter)

	// User routes (protected)
	users := api.Group("/users")
	users.Use(authMiddleware.Authenticate(), protected)
	users.GET("/:userId", userHandler.GetProfile)
	users.PUT("/:userId", userHandler.UpdateProfile)
	users.PUT("/:userId/business", userHandler.UpdateBusiness)

	// Admin routes (protected, admin only)
	admin := api.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), protected, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.PUT("/users/:userId", userHandler.UpdateProfile)
	admin.DELETE("/users/:userId", userHandler.DeleteUser)
	admin.GET("/mentors", userHandler.ListMentors)
	admin.PUT("/users/:userId/mentor", mentorHandler.AssignMentor)
	admin.GET("/statistics", statsHandler.GetPlatformStatistics)
	admin.GET("/statistics/mentors", statsHandler.GetMentorPerformance)

	// Mentorship routes (protected)
	mentors := api.Group("/mentors")
	mentors.Use(authMiddleware.Authenticate(), protected)
	mentors.GET("/:mentorId/users", mentorHandler.ListMentees)
	mentors.POST("/requests/:userId", mentorHandler.RequestMentor)
	mentors.GET("/requests/:userId", mentorHandler.ListUserInvitations)
	mentors.GET("/:mentorId/invitations", mentorHandler.ListMentorInvitations)
	mentors.PUT("/invitations/:invitationId", mentorHandler.RespondInvitation)

	// Message routes (protected)
	messages := api.Group("/messages")
	messages.Use(authMiddleware.Authenticate(), protected)
	messages.GET("/:userId", messageHandler.GetConversation)
	messages.POST("/:userId", messageHandler.SendMessage)
	messages.PUT("/:userId/read", messageHandler.MarkRead)
	messages.GET("/:userId/unread", messageHandler.GetUnreadCounts)

	// Sales routes (protected). Parameters and report are registered
	// before the generic :userId routes so echo matches them first.
	sales := api.Group("/sales")
	sales.Use(authMiddleware.Authenticate(), protected)
	sales.GET("/parameters/:userId", parameterHandler.GetParameters)
	sales.PUT("/parameters/:userId", parameterHandler.UpdateParameters)
	sales.GET("/report/:userId", reportHandler.GetReport)
	sales.GET("/:userId", saleHandler.ListSales)
	sales.POST("/:userId", saleHandler.RecordSale)
	sales.DELETE("/:userId/:saleId", saleHandler.DeleteSale)

	// WebSocket endpoint (token via query parameter)
	api.GET("/ws", wsHandler.HandleWS)
}
