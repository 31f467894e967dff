package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services groups everything the HTTP layer calls into.
type Services struct {
	Auth          service.AuthService
	Plans         service.PlanService
	Logs          service.LogService
	Scanner       service.ComplianceScanner
	Notifications service.NotificationService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	planHandler := NewPlanHandler(svc.Plans)
	logHandler := NewLogHandler(svc.Logs)
	scanHandler := NewScanHandler(svc.Scanner)
	notificationHandler := NewNotificationHandler(svc.Notifications)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			requester, ok := getRequester(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": requester.ID.Hex(), "role": requester.Role})
		})

		// --- Training plans ---
		plans := protected.Group("/plans")
		{
			plans.POST("", RoleMiddleware(domain.RoleTrainer), planHandler.CreatePlan)
			// Visibility is scoped by role inside the service.
			plans.GET("", planHandler.ListPlans)
			plans.GET("/active", RoleMiddleware(domain.RoleClient), planHandler.GetActivePlan)
		}

		// --- Client check-ins ---
		client := protected.Group("/client")
		client.Use(RoleMiddleware(domain.RoleClient))
		{
			client.POST("/logs", logHandler.CreateLog)
			client.POST("/logs/proof-upload-url", logHandler.RequestProofUpload)
			client.GET("/logs", logHandler.GetClientLogs)
			client.GET("/stats", logHandler.GetClientStats)
		}

		trainer := protected.Group("/trainer")
		trainer.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainer.GET("/clients/:clientId/logs", logHandler.GetClientLogsForTrainer)
		}

		// --- Manual compliance sweeps ---
		check := protected.Group("/workout-check")
		check.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		{
			check.POST("/check-today", scanHandler.CheckToday)
			check.POST("/check-missed", scanHandler.CheckMissed)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}
	}
}
