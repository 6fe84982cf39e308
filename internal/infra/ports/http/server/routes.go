package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supdesk/supdesk/internal/application/config"
	"github.com/supdesk/supdesk/internal/infra/ports/http/handlers"
	"github.com/supdesk/supdesk/internal/infra/ports/http/middleware"
	"github.com/supdesk/supdesk/internal/usecase"
)

func New(
	cfg *config.Config,
	authUsecase usecase.AuthUsecase,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()

	e.HideBanner = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Supdesk API!"})
	})

	e.POST("/auth/chat", authHandler.Login)
	e.POST("/admin/token", authHandler.AdminToken)

	// The ws endpoint carries its credential as a query parameter and runs
	// its own verification, so it sits outside the bearer middleware.
	e.GET("/ws/chat/:room_id", wsHandler.Handle)

	authorized := e.Group("", middleware.JWTAuthMiddleware(authUsecase))
	{
		authorized.GET("/me", authHandler.GetMe)

		authorized.GET("/chat/room/:room_id/messages", chatHandler.RoomMessages)
		authorized.POST("/chat/message", chatHandler.SendMessage)

		admin := authorized.Group("/admin", middleware.AdminOnly())
		{
			admin.GET("/all_chats", chatHandler.AllChats)
			admin.GET("/rooms", chatHandler.RoomSummaries)
			admin.POST("/reply_message", chatHandler.AdminReply)
		}
	}

	return e
}
