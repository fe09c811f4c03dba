package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

func TestExtractReply(t *testing.T) {
	image := domain.ContentPart{Type: domain.ContentTypeImageFile}

	tests := []struct {
		name     string
		messages []domain.Message
		want     string
	}{
		{
			name:     "newest assistant message wins",
			messages: []domain.Message{assistantMessage("second"), userMessage("q"), assistantMessage("first")},
			want:     "second",
		},
		{
			name:     "skips user messages",
			messages: []domain.Message{userMessage("q"), assistantMessage("answer")},
			want:     "answer",
		},
		{
			name:     "joins text parts with a blank line and trims",
			messages: []domain.Message{assistantMessage("  Hello", "World  ")},
			want:     "Hello\n\nWorld",
		},
		{
			name: "ignores non-text parts",
			messages: []domain.Message{{
				Role:    domain.RoleAssistant,
				Content: []domain.ContentPart{image, domain.TextPart("caption")},
			}},
			want: "caption",
		},
		{
			name: "skips assistant messages without text",
			messages: []domain.Message{
				{Role: domain.RoleAssistant, Content: []domain.ContentPart{image}},
				assistantMessage("earlier"),
			},
			want: "earlier",
		},
		{
			name:     "no assistant messages",
			messages: []domain.Message{userMessage("q")},
			want:     "",
		},
		{
			name: "empty history",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReply(tt.messages))
			assert.Equal(t, tt.want, ExtractReply(tt.messages))
		})
	}
}
