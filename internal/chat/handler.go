package chat

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/banterhq/banter/internal/apperror"
	"github.com/banterhq/banter/internal/auth"
)

// Handler handles HTTP requests for chat. Handlers are thin: they bind the
// request, call the service, and render the response.
type Handler struct {
	service ChatService
}

// NewHandler creates a new chat handler with the given service.
func NewHandler(service ChatService) *Handler {
	return &Handler{service: service}
}

// Send relays a message to the model (POST /api/chat).
func (h *Handler) Send(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	resp, err := h.service.Send(c.Request().Context(), user, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Log stores an externally produced exchange (POST /api/chat/log).
func (h *Handler) Log(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	var req LogRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	chatID, err := h.service.Log(c.Request().Context(), user, req.Message, req.Response)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, LoggedResponse{
		Message: "Chat log saved successfully",
		ChatID:  chatID,
	})
}

// History returns a page of the caller's conversation history
// (GET /api/chat/history?skip=0&limit=10).
func (h *Handler) History(c echo.Context) error {
	user := auth.GetUser(c)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 0)

	resp, err := h.service.History(c.Request().Context(), user, skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Info is a public readiness blurb for the chatbot API (GET /api/chatbot).
func (h *Handler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Chatbot API is ready!",
	})
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage. Range clamping happens in the service.
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
