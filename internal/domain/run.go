package domain

import (
	"encoding/json"
	"time"
)

// Run is one asynchronous invocation of the remote agent against a thread.
type Run struct {
	ID             string              `json:"id"`
	ThreadID       string              `json:"thread_id"`
	Status         RunStatus           `json:"status"`
	RequiredAction []CapabilityRequest `json:"required_action,omitempty"`
	LastError      *RunError           `json:"last_error,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// RunError is the error the remote service attached to a failed run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CapabilityRequest is a pending tool call surfaced by a requires_action run.
type CapabilityRequest struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Arguments    map[string]any `json:"arguments"`
	RawArguments string         `json:"raw_arguments,omitempty"`
}

// CapabilityOutput is the canonical string result submitted for a request.
type CapabilityOutput struct {
	RequestID string `json:"tool_call_id"`
	Output    string `json:"output"`
}

// ParseArguments decodes a tool call argument payload. Anything that is not
// a JSON object yields an empty map instead of an error.
func ParseArguments(raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		return args
	}
	return parsed
}

// Message is one entry of a thread's history.
type Message struct {
	ID        string        `json:"id"`
	ThreadID  string        `json:"thread_id,omitempty"`
	RunID     string        `json:"run_id,omitempty"`
	Role      Role          `json:"role"`
	Content   []ContentPart `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

// ContentPart is a typed piece of message content. Only text parts carry Text.
type ContentPart struct {
	Type ContentType `json:"type"`
	Text string      `json:"text,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}
