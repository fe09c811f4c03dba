// Package http provides the HTTP server of the web chat API.
package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ykres/ai-salon-assistant/internal/transport/http/chat"
)

// NewServer creates and configures the web chat HTTP server.
func NewServer(relay chat.Relay, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"*"},
		AllowHeaders: []string{"*"},
	}))

	// Handlers
	chatHandler := chat.NewHandler(relay, logger)

	// Register Routes
	chatHandler.RegisterRoutes(e)

	return e
}
