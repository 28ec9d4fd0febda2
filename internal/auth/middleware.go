package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/banterhq/banter/internal/apperror"
)

// contextKeyUser is the Echo context key for the authenticated user. Other
// packages access it via the exported GetUser function.
const contextKeyUser = "auth_user"

// RequireAuth returns middleware that extracts the bearer token from the
// Authorization header, authorizes it, and injects the resolved user into
// the request context. Every protected route group mounts this middleware;
// handlers behind it can assume GetUser returns a live identity.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := service.Authorize(c.Request().Context(), token)
			if err != nil {
				// Authorize already returns a typed apperror: 401 for any
				// token failure, 404 for a deleted account. The central
				// error handler maps it; routes get one consistent scheme.
				return err
			}

			c.Set(contextKeyUser, user)

			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Missing or malformed headers are an authentication failure, not a
// bad request: the response must not differ from any other rejected token.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", apperror.NewUnauthorized("authentication required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperror.NewUnauthorized("invalid authorization header, use: Bearer <token>")
	}

	return parts[1], nil
}

// GetUser retrieves the authenticated user from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}
