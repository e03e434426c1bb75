package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/skillswap/internal/app/controllers"
	"github.com/yigit/skillswap/internal/middleware"
	"github.com/yigit/skillswap/internal/pkg/websocket"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Match        *controllers.MatchController
	Connection   *controllers.ConnectionController
	Conversation *controllers.ConversationController
	Campus       *controllers.CampusController
	Dashboard    *controllers.DashboardController
	WebSocket    *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}
	v1.GET("/profile/options", h.Profile.GetProfileOptions)
	v1.GET("/campus/locations", h.Campus.GetLocations)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", h.Profile.GetMyProfile)

		profile := authenticated.Group("/profile")
		{
			profile.GET("/me", h.Profile.GetMyProfile)
			profile.PATCH("/me", h.Profile.UpdateMyProfile)
		}
		authenticated.GET("/profiles/:id", h.Profile.GetProfileByID)

		authenticated.GET("/matches", h.Match.GetMatches)
		authenticated.GET("/dashboard", h.Dashboard.GetDashboard)
		authenticated.GET("/campus/peers", h.Campus.GetPeers)

		connections := authenticated.Group("/connections")
		{
			connections.GET("", h.Connection.ListConnections)
			connections.POST("", h.Connection.SendRequest)
			connections.PUT("/:id", h.Connection.Respond)
			connections.GET("/status/:userId", h.Connection.GetStatus)
		}

		conversations := authenticated.Group("/conversations")
		{
			conversations.GET("", h.Conversation.ListConversations)
			conversations.GET("/:id/messages", h.Conversation.GetMessages)
			conversations.POST("/:id/messages", h.Conversation.SendMessage)
			conversations.GET("/:id/ws", h.WebSocket.HandleConnection)
		}
	}
}
