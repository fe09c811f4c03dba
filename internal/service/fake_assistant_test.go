package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

// scriptedAssistant replays a fixed sequence of run snapshots and records
// every call made against it.
type scriptedAssistant struct {
	mu sync.Mutex

	// script is consumed one entry per GetRun; once exhausted the run
	// reports completed.
	script   []domain.Run
	messages []domain.Message

	addErr       error
	createRunErr error

	threads   int
	added     []string
	submitted [][]domain.CapabilityOutput
	calls     []string
	runs      int
}

func (a *scriptedAssistant) record(call string) {
	a.calls = append(a.calls, call)
}

func (a *scriptedAssistant) CreateThread(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.threads++
	a.record("create_thread")
	return fmt.Sprintf("t_%d", a.threads), nil
}

func (a *scriptedAssistant) AddUserMessage(ctx context.Context, threadID, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("add_message")
	if a.addErr != nil {
		return a.addErr
	}
	a.added = append(a.added, threadID+":"+text)
	return nil
}

func (a *scriptedAssistant) CreateRun(ctx context.Context, threadID string) (*domain.Run, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("create_run")
	if a.createRunErr != nil {
		return nil, a.createRunErr
	}
	a.runs++
	return &domain.Run{ID: fmt.Sprintf("run_%d", a.runs), ThreadID: threadID, Status: domain.RunStatusQueued}, nil
}

func (a *scriptedAssistant) GetRun(ctx context.Context, threadID, runID string) (*domain.Run, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("get_run")
	run := domain.Run{ID: runID, ThreadID: threadID, Status: domain.RunStatusCompleted}
	if len(a.script) > 0 {
		run = a.script[0]
		run.ID = runID
		run.ThreadID = threadID
		a.script = a.script[1:]
	}
	return &run, nil
}

func (a *scriptedAssistant) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.CapabilityOutput) (*domain.Run, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("submit")
	a.submitted = append(a.submitted, outputs)
	return &domain.Run{ID: runID, ThreadID: threadID, Status: domain.RunStatusInProgress}, nil
}

func (a *scriptedAssistant) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("list_messages")
	if len(a.messages) > limit {
		return a.messages[:limit], nil
	}
	return a.messages, nil
}

func (a *scriptedAssistant) callLog() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// fakeClock advances only when the service sleeps.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps++
	return nil
}

func assistantMessage(texts ...string) domain.Message {
	msg := domain.Message{Role: domain.RoleAssistant}
	for _, t := range texts {
		msg.Content = append(msg.Content, domain.TextPart(t))
	}
	return msg
}

func userMessage(text string) domain.Message {
	return domain.Message{Role: domain.RoleUser, Content: []domain.ContentPart{domain.TextPart(text)}}
}
