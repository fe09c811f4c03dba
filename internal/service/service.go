// Package service relays user turns to the remote assistant and drives each
// run to completion.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ykres/ai-salon-assistant/internal/adapter/assistant"
	"github.com/ykres/ai-salon-assistant/internal/config"
	"github.com/ykres/ai-salon-assistant/internal/domain"
	"github.com/ykres/ai-salon-assistant/internal/logging"
	"github.com/ykres/ai-salon-assistant/internal/repository"
)

// Dispatcher answers one capability request. It never fails; errors travel
// back to the assistant as payloads.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.CapabilityRequest) domain.CapabilityOutput
}

type Service struct {
	assistant  assistant.Client
	store      repository.Store
	dispatcher Dispatcher
	config     *config.Config
	logger     *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	creating singleflight.Group
	locksMu  sync.Mutex
	locks    map[string]*sessionLock
}

func New(client assistant.Client, store repository.Store, dispatcher Dispatcher, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		assistant:  client,
		store:      store,
		dispatcher: dispatcher,
		config:     cfg,
		logger:     logging.Component(logger, "service"),
		now:        time.Now,
		sleep:      sleepContext,
		locks:      make(map[string]*sessionLock),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
