package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// CreateSession starts a new remote thread under a fresh session key.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	key := uuid.New().String()
	threadID, err := s.assistant.CreateThread(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	if err := s.store.SetThread(ctx, key, threadID); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Info("session created", "session_key", key, "thread_id", threadID)
	return key, nil
}

// Send relays text on an existing session.
func (s *Service) Send(ctx context.Context, key, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyMessage
	}
	threadID, ok := s.store.GetThread(ctx, key)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return s.relay(ctx, key, threadID, text)
}

// SendOrStart relays text on the session, creating its thread on first use.
func (s *Service) SendOrStart(ctx context.Context, key, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyMessage
	}
	threadID, err := s.threadFor(ctx, key)
	if err != nil {
		return "", err
	}
	return s.relay(ctx, key, threadID, text)
}

// threadFor returns the session's thread, creating it once for concurrent
// first messages.
func (s *Service) threadFor(ctx context.Context, key string) (string, error) {
	if threadID, ok := s.store.GetThread(ctx, key); ok {
		return threadID, nil
	}
	v, err, _ := s.creating.Do(key, func() (any, error) {
		if threadID, ok := s.store.GetThread(ctx, key); ok {
			return threadID, nil
		}
		threadID, err := s.assistant.CreateThread(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to create thread: %w", err)
		}
		if err := s.store.SetThread(ctx, key, threadID); err != nil {
			return "", fmt.Errorf("failed to save session: %w", err)
		}
		s.logger.Info("session started", "session_key", key, "thread_id", threadID)
		return threadID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// relay runs one turn while holding the session's lock, so a thread never
// has two active runs.
func (s *Service) relay(ctx context.Context, key, threadID, text string) (string, error) {
	unlock := s.lock(key)
	defer unlock()
	return s.SendAndRespond(ctx, threadID, text, s.dispatcher)
}

func (s *Service) lock(key string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sessionLock{}
		s.locks[key] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.locksMu.Unlock()
	}
}
