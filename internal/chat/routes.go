package chat

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all chat-related routes on the given Echo instance.
// Everything that touches user-scoped data sits behind requireAuth; only the
// readiness blurb is public.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	e.GET("/api/chatbot", h.Info)

	g := e.Group("/api/chat", requireAuth)
	g.POST("", h.Send)
	g.POST("/log", h.Log)
	g.GET("/history", h.History)
}
