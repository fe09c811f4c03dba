package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

const (
	detailUnknownSession = "Unknown sessionId. Call /chat/start first."
	detailEmptyText      = "text is required"
	detailTimeout        = "The assistant did not answer in time. Please try again."
	detailInternal       = "Failed to process the message."
)

// Start opens a new chat session.
// POST /chat/start
func (h *Handler) Start(c echo.Context) error {
	key, err := h.relay.CreateSession(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to start session", "err", err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Detail: "Failed to start a chat session."})
	}
	return c.JSON(http.StatusOK, domain.StartResponse{SessionID: key})
}

// Message relays one user message and returns the assistant's reply.
// POST /chat/message
func (h *Handler) Message(c echo.Context) error {
	var req domain.MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Detail: "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Detail: detailUnknownSession})
	}

	reply, err := h.relay.Send(c.Request().Context(), req.SessionID, req.Text)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, domain.MessageResponse{Reply: reply})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Detail: detailUnknownSession})
	case errors.Is(err, domain.ErrEmptyMessage):
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Detail: detailEmptyText})
	case domain.IsTimeout(err):
		h.logger.Warn("assistant timed out", "session_key", req.SessionID, "err", err)
		return c.JSON(http.StatusGatewayTimeout, domain.ErrorResponse{Detail: detailTimeout})
	default:
		h.logger.Error("failed to process message", "session_key", req.SessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Detail: detailInternal})
	}
}
