// Package assistant provides the client for the remote assistant service.
package assistant

import (
	"context"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

// Client defines the remote assistant operations the run loop needs.
type Client interface {
	// CreateThread starts a new persistent conversation.
	CreateThread(ctx context.Context) (string, error)

	// AddUserMessage appends a user turn to the thread.
	AddUserMessage(ctx context.Context, threadID, text string) error

	// CreateRun starts a run of the configured assistant on the thread.
	CreateRun(ctx context.Context, threadID string) (*domain.Run, error)

	// GetRun retrieves the current state of a run.
	GetRun(ctx context.Context, threadID, runID string) (*domain.Run, error)

	// SubmitToolOutputs submits the outputs for every pending request of a run in one batch.
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.CapabilityOutput) (*domain.Run, error)

	// ListMessages returns up to limit messages, newest first.
	ListMessages(ctx context.Context, threadID string, limit int) ([]domain.Message, error)
}

// Ensure implementations satisfy Client.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*MockClient)(nil)
)
