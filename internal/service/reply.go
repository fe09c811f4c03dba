package service

import (
	"strings"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

// ExtractReply returns the text of the newest assistant message in messages,
// which must be ordered newest first. Text parts are joined with a blank line
// and trimmed. Assistant messages without text are skipped. It returns "" when
// no assistant message carries text.
func ExtractReply(messages []domain.Message) string {
	for _, msg := range messages {
		if msg.Role != domain.RoleAssistant {
			continue
		}
		var parts []string
		for _, part := range msg.Content {
			if part.Type == domain.ContentTypeText {
				parts = append(parts, part.Text)
			}
		}
		if reply := strings.TrimSpace(strings.Join(parts, "\n\n")); reply != "" {
			return reply
		}
	}
	return ""
}
