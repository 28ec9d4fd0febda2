package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/banterhq/banter/internal/apperror"
)

// Handler handles HTTP requests for authentication (register, login, me).
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service AuthService
	tokens  *TokenService
}

// NewHandler creates a new auth handler with the given service. The token
// service is only consulted for the advertised expires_in value.
func NewHandler(service AuthService, tokens *TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// Register processes a registration request (POST /api/auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if msg := validateCredentials(req.Username, req.Password); msg != "" {
		return apperror.NewValidation(msg)
	}

	user, err := h.service.Register(c.Request().Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisteredResponse{
		Message: "User registered successfully",
		User:    PublicUser{Username: user.Username},
	})
}

// Login processes a login request (POST /api/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	token, err := h.service.Login(c.Request().Context(), LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokens.TTL().Seconds()),
	})
}

// Me returns the authenticated user's profile (GET /api/auth/me).
// RequireAuth has already resolved the token to a live user.
func (h *Handler) Me(c echo.Context) error {
	user := GetUser(c)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	return c.JSON(http.StatusOK, PublicUser{Username: user.Username})
}

// validateCredentials performs basic server-side validation of registration
// input. Returns an empty string when valid, otherwise a client-safe message.
func validateCredentials(username, password string) string {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return "username is required"
	case len(username) > 64:
		return "username must be at most 64 characters"
	case strings.ContainsAny(username, " \t\r\n"):
		return "username must not contain whitespace"
	case password == "":
		return "password is required"
	case len(password) < 8:
		return "password must be at least 8 characters"
	case len(password) > 128:
		return "password must be at most 128 characters"
	}
	return ""
}
