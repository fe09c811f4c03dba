package assistant

import (
	"log/slog"

	"github.com/ykres/ai-salon-assistant/internal/config"
)

// NewClient creates the assistant client selected by the configuration.
// ASSISTANT_MODE=MOCK returns a MockClient; otherwise an OpenAIClient.
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	if cfg.Mock() {
		if logger != nil {
			logger.Info("ASSISTANT_MODE=MOCK detected, using mock assistant client")
		}
		return NewMockClient()
	}
	return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIAssistantID)
}
