package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

// MockClient is an in-memory assistant used for local runs and tests.
//
// Every GetRun advances the run one step: queued -> in_progress -> completed.
// A user message mentioning a booking makes the run stop in requires_action
// with one save_booking_data call until its output is submitted.
type MockClient struct {
	mu      sync.Mutex
	threads map[string][]domain.Message
	runs    map[string]*mockRun
}

type mockRun struct {
	run       domain.Run
	userText  string
	wantsTool bool
	outputs   []domain.CapabilityOutput
}

// NewMockClient creates a new mock assistant client.
func NewMockClient() *MockClient {
	return &MockClient{
		threads: make(map[string][]domain.Message),
		runs:    make(map[string]*mockRun),
	}
}

// CreateThread creates an empty in-memory thread.
func (m *MockClient) CreateThread(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "thread_" + uuid.New().String()[:8]
	m.threads[id] = nil
	return id, nil
}

// AddUserMessage appends a user message.
func (m *MockClient) AddUserMessage(ctx context.Context, threadID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.threads[threadID]; !ok {
		return &domain.TransportError{Op: "add message", Err: fmt.Errorf("no thread found with id '%s'", threadID)}
	}
	m.appendLocked(threadID, "", domain.RoleUser, text)
	return nil
}

// CreateRun queues a run answering the latest user message.
func (m *MockClient) CreateRun(ctx context.Context, threadID string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs, ok := m.threads[threadID]
	if !ok {
		return nil, &domain.TransportError{Op: "create run", Err: fmt.Errorf("no thread found with id '%s'", threadID)}
	}

	var userText string
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser && len(msgs[i].Content) > 0 {
			userText = msgs[i].Content[0].Text
			break
		}
	}

	r := &mockRun{
		run: domain.Run{
			ID:        "run_" + uuid.New().String()[:8],
			ThreadID:  threadID,
			Status:    domain.RunStatusQueued,
			CreatedAt: time.Now(),
		},
		userText:  userText,
		wantsTool: mentionsBooking(userText),
	}
	m.runs[r.run.ID] = r
	run := r.run
	return &run, nil
}

// GetRun advances the run one step and returns it.
func (m *MockClient) GetRun(ctx context.Context, threadID, runID string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok || r.run.ThreadID != threadID {
		return nil, &domain.TransportError{Op: "retrieve run", Err: fmt.Errorf("no run found with id '%s'", runID)}
	}

	switch r.run.Status {
	case domain.RunStatusQueued:
		r.run.Status = domain.RunStatusInProgress
	case domain.RunStatusInProgress:
		if r.wantsTool && r.outputs == nil {
			r.run.Status = domain.RunStatusRequiresAction
			r.run.RequiredAction = []domain.CapabilityRequest{bookingRequest(r.userText)}
		} else {
			r.run.Status = domain.RunStatusCompleted
			r.run.RequiredAction = nil
			m.appendLocked(threadID, runID, domain.RoleAssistant, m.replyFor(r))
		}
	}
	run := r.run
	return &run, nil
}

// SubmitToolOutputs records the outputs and resumes the run.
func (m *MockClient) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.CapabilityOutput) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok || r.run.ThreadID != threadID {
		return nil, &domain.TransportError{Op: "submit tool outputs", Err: fmt.Errorf("no run found with id '%s'", runID)}
	}
	if r.run.Status != domain.RunStatusRequiresAction {
		return nil, &domain.TransportError{Op: "submit tool outputs", Err: fmt.Errorf("run %s is not waiting for tool outputs", runID)}
	}
	if len(outputs) != len(r.run.RequiredAction) {
		return nil, &domain.TransportError{Op: "submit tool outputs", Err: fmt.Errorf("expected %d tool outputs, got %d", len(r.run.RequiredAction), len(outputs))}
	}
	r.outputs = append([]domain.CapabilityOutput{}, outputs...)
	r.run.Status = domain.RunStatusInProgress
	r.run.RequiredAction = nil
	run := r.run
	return &run, nil
}

// ListMessages returns the newest messages first.
func (m *MockClient) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs, ok := m.threads[threadID]
	if !ok {
		return nil, &domain.TransportError{Op: "list messages", Err: fmt.Errorf("no thread found with id '%s'", threadID)}
	}
	out := make([]domain.Message, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func (m *MockClient) appendLocked(threadID, runID string, role domain.Role, text string) {
	m.threads[threadID] = append(m.threads[threadID], domain.Message{
		ID:        "msg_" + uuid.New().String()[:8],
		ThreadID:  threadID,
		RunID:     runID,
		Role:      role,
		Content:   []domain.ContentPart{domain.TextPart(text)},
		CreatedAt: time.Now(),
	})
}

func (m *MockClient) replyFor(r *mockRun) string {
	if len(r.outputs) > 0 {
		return fmt.Sprintf("[MOCK] Booking processed: %s", r.outputs[0].Output)
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(r.userText, 100))
}

func mentionsBooking(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "book") || strings.Contains(lower, "запис")
}

func bookingRequest(text string) domain.CapabilityRequest {
	raw, _ := json.Marshal(map[string]string{"comments": text})
	return domain.CapabilityRequest{
		ID:           "call_" + uuid.New().String()[:8],
		Name:         "save_booking_data",
		Arguments:    domain.ParseArguments(string(raw)),
		RawArguments: string(raw),
	}
}

// truncate truncates a string to the given number of runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
