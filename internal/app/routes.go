package app

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/banterhq/banter/internal/auth"
	"github.com/banterhq/banter/internal/chat"
)

// RegisterRoutes constructs the feature services from the App's shared
// dependencies and mounts all HTTP routes on the Echo instance.
func (a *App) RegisterRoutes() {
	// Root welcome route, useful as a quick liveness probe for humans.
	a.Echo.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Welcome to the Banter API",
		})
	})

	// Health check: verifies DB and Redis connectivity.
	a.Echo.GET("/healthz", a.healthz)

	// Auth feature.
	tokens := auth.NewTokenService(a.Config.Auth.SigningSecret, a.Config.Auth.TokenTTL)
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, tokens, a.Config.Auth.HashMaxConcurrent)
	authHandler := auth.NewHandler(authService, tokens)
	requireAuth := auth.RequireAuth(authService)
	auth.RegisterRoutes(a.Echo, authHandler, requireAuth)

	// Chat feature.
	var responder chat.Responder
	if a.Config.Bot.URL != "" {
		responder = chat.NewHTTPResponder(a.Config.Bot.URL, a.Config.Bot.Timeout)
	} else {
		responder = chat.StaticResponder{}
	}
	messageRepo := chat.NewMessageRepository(a.DB)
	chatService := chat.NewChatService(messageRepo, responder, a.Redis)
	chatHandler := chat.NewHandler(chatService)
	chat.RegisterRoutes(a.Echo, chatHandler, requireAuth)
}

// healthz reports whether the server and its backing stores are reachable.
func (a *App) healthz(c echo.Context) error {
	ctx := c.Request().Context()

	status := http.StatusOK
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	if err := a.DB.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
