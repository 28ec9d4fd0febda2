package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/banterhq/banter/internal/middleware"
)

// RegisterRoutes sets up all auth-related routes on the given Echo instance.
// Register and login are public; the RequireAuth middleware is exported
// separately for other packages to mount on their route groups.
//
// Both credential endpoints are rate-limited per IP: they run an argon2
// hash per attempt, so unthrottled traffic is both a brute-force and a
// CPU-exhaustion vector. 10 attempts per minute for login, 5 for register.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	g := e.Group("/api/auth")

	g.POST("/register", h.Register, middleware.RateLimit(5, time.Minute))
	g.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))

	g.GET("/me", h.Me, requireAuth)
}
