package service

import (
	"context"
	"fmt"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

// SendAndRespond appends text to the thread, runs the assistant on it and
// returns the assistant's reply. Capability requests raised by the run are
// answered through dispatcher and submitted back as one batch.
//
// On timeout the remote run is left outstanding.
func (s *Service) SendAndRespond(ctx context.Context, threadID, text string, dispatcher Dispatcher) (string, error) {
	logger := s.logger.With("thread_id", threadID)

	if err := s.assistant.AddUserMessage(ctx, threadID, text); err != nil {
		return "", fmt.Errorf("failed to add user message: %w", err)
	}

	run, err := s.assistant.CreateRun(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	runID := run.ID
	started := s.now()
	logger = logger.With("run_id", runID)
	logger.Debug("run created")

	for {
		if elapsed := s.now().Sub(started); elapsed > s.config.RunTimeout {
			logger.Warn("run timed out", "elapsed", elapsed)
			return "", &domain.TimeoutError{RunID: runID, Elapsed: elapsed, Limit: s.config.RunTimeout}
		}

		run, err = s.assistant.GetRun(ctx, threadID, runID)
		if err != nil {
			return "", fmt.Errorf("failed to retrieve run: %w", err)
		}

		switch run.Status.Class() {
		case domain.StatusClassSucceeded:
			logger.Debug("run completed", "elapsed", s.now().Sub(started))
			return s.latestReply(ctx, threadID)

		case domain.StatusClassActionRequired:
			outputs := make([]domain.CapabilityOutput, 0, len(run.RequiredAction))
			for _, req := range run.RequiredAction {
				logger.Info("dispatching capability", "capability", req.Name, "tool_call_id", req.ID)
				outputs = append(outputs, dispatcher.Dispatch(ctx, req))
			}
			if _, err := s.assistant.SubmitToolOutputs(ctx, threadID, runID, outputs); err != nil {
				return "", fmt.Errorf("failed to submit tool outputs: %w", err)
			}

		case domain.StatusClassWaiting:
			if err := s.sleep(ctx, s.config.PollInterval); err != nil {
				return "", fmt.Errorf("run %s interrupted: %w", runID, err)
			}

		default:
			failed := &domain.RunFailedError{RunID: runID, Status: run.Status}
			if run.LastError != nil {
				failed.Code = run.LastError.Code
				failed.Message = run.LastError.Message
			}
			logger.Error("run failed", "status", run.Status, "error", failed)
			return "", failed
		}
	}
}

func (s *Service) latestReply(ctx context.Context, threadID string) (string, error) {
	messages, err := s.assistant.ListMessages(ctx, threadID, s.config.MessageWindow)
	if err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}
	return ExtractReply(messages), nil
}
