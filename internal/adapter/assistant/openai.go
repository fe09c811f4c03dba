package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

const defaultRequestTimeout = 60 * time.Second

// OpenAIClient talks to the OpenAI Assistants API (threads, runs, messages).
type OpenAIClient struct {
	client      openai.Client
	assistantID string
}

// NewOpenAIClient creates a client bound to one assistant. baseURL may be
// empty to use the public endpoint.
func NewOpenAIClient(apiKey, baseURL, assistantID string, opts ...option.RequestOption) *OpenAIClient {
	reqOpts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: defaultRequestTimeout}),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIClient{
		client:      openai.NewClient(reqOpts...),
		assistantID: assistantID,
	}
}

// CreateThread creates an empty thread.
func (c *OpenAIClient) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", transportError("create thread", err)
	}
	return thread.ID, nil
}

// AddUserMessage appends a user message to the thread.
func (c *OpenAIClient) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := c.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return transportError("add message", err)
	}
	return nil
}

// CreateRun starts the assistant on the thread.
func (c *OpenAIClient) CreateRun(ctx context.Context, threadID string) (*domain.Run, error) {
	run, err := c.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: c.assistantID,
	})
	if err != nil {
		return nil, transportError("create run", err)
	}
	return toDomainRun(run), nil
}

// GetRun retrieves a run.
func (c *OpenAIClient) GetRun(ctx context.Context, threadID, runID string) (*domain.Run, error) {
	run, err := c.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return nil, transportError("retrieve run", err)
	}
	return toDomainRun(run), nil
}

// SubmitToolOutputs submits a batch of tool outputs for a run.
func (c *OpenAIClient) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.CapabilityOutput) (*domain.Run, error) {
	params := openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(outputs)),
	}
	for _, out := range outputs {
		params.ToolOutputs = append(params.ToolOutputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(out.RequestID),
			Output:     openai.String(out.Output),
		})
	}

	run, err := c.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, params)
	if err != nil {
		return nil, transportError("submit tool outputs", err)
	}
	return toDomainRun(run), nil
}

// ListMessages lists the most recent messages, newest first.
func (c *OpenAIClient) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.Message, error) {
	page, err := c.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Limit: openai.Int(int64(limit)),
		Order: openai.BetaThreadMessageListParamsOrderDesc,
	})
	if err != nil {
		return nil, transportError("list messages", err)
	}

	messages := make([]domain.Message, 0, len(page.Data))
	for _, msg := range page.Data {
		messages = append(messages, toDomainMessage(msg))
	}
	return messages, nil
}

func toDomainRun(run *openai.Run) *domain.Run {
	out := &domain.Run{
		ID:        run.ID,
		ThreadID:  run.ThreadID,
		Status:    domain.RunStatus(run.Status),
		CreatedAt: time.Unix(run.CreatedAt, 0),
	}
	for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		out.RequiredAction = append(out.RequiredAction, domain.CapabilityRequest{
			ID:           tc.ID,
			Name:         tc.Function.Name,
			Arguments:    domain.ParseArguments(tc.Function.Arguments),
			RawArguments: tc.Function.Arguments,
		})
	}
	if run.LastError.Message != "" || run.LastError.Code != "" {
		out.LastError = &domain.RunError{
			Code:    string(run.LastError.Code),
			Message: run.LastError.Message,
		}
	}
	return out
}

func toDomainMessage(msg openai.Message) domain.Message {
	out := domain.Message{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		RunID:     msg.RunID,
		Role:      domain.Role(msg.Role),
		CreatedAt: time.Unix(msg.CreatedAt, 0),
	}
	for _, part := range msg.Content {
		cp := domain.ContentPart{Type: domain.ContentType(part.Type)}
		if cp.Type == domain.ContentTypeText {
			cp.Text = part.Text.Value
		}
		out.Content = append(out.Content, cp)
	}
	return out
}

func transportError(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		err = fmt.Errorf("OpenAI API request failed (status=%d): %s: %w",
			apiErr.StatusCode, strings.TrimSpace(apiErr.Message), err)
	}
	return &domain.TransportError{Op: op, Err: err}
}
