// Package chat provides the HTTP handlers of the web chat API.
package chat

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ykres/ai-salon-assistant/internal/logging"
)

// Relay is the part of the service the chat API needs.
type Relay interface {
	CreateSession(ctx context.Context) (string, error)
	Send(ctx context.Context, key, text string) (string, error)
}

// Handler handles web chat requests.
type Handler struct {
	relay  Relay
	logger *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(relay Relay, logger *slog.Logger) *Handler {
	return &Handler{
		relay:  relay,
		logger: logging.Component(logger, "http"),
	}
}

// RegisterRoutes registers the chat routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat/start", h.Start)
	e.POST("/chat/message", h.Message)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
