package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ykres/ai-salon-assistant/internal/adapter/assistant"
	"github.com/ykres/ai-salon-assistant/internal/adapter/sheets"
	"github.com/ykres/ai-salon-assistant/internal/config"
	"github.com/ykres/ai-salon-assistant/internal/logging"
	"github.com/ykres/ai-salon-assistant/internal/repository"
	"github.com/ykres/ai-salon-assistant/internal/service"
	"github.com/ykres/ai-salon-assistant/internal/tools"
	"github.com/ykres/ai-salon-assistant/policy"
)

// app holds the components shared by both front ends.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   repository.Store
	service *service.Service
}

// loadConfig loads and validates the configuration and builds the logger.
func loadConfig(requireBot bool) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(requireBot); err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel), nil
}

// newApp wires the service. threadsPath is the JSON store used by the file
// backend; the sqlite backend uses DatabaseURL for both front ends.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, threadsPath string) (*app, error) {
	location := threadsPath
	if cfg.SessionBackend == config.BackendSQLite {
		location = cfg.DatabaseURL
	}
	logger.Info("opening session store", "backend", cfg.SessionBackend, "location", location)
	store, err := repository.Open(cfg.SessionBackend, location, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	sink, err := newBookingSink(ctx, cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	policyEngine, err := newPolicyEngine(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	registry := tools.NewRegistry()
	registry.MustRegister(tools.SaveBookingName, tools.NewSaveBooking(sink, time.Now))
	dispatcher := tools.NewDispatcher(registry, policyEngine, logger)
	logger.Info("capabilities registered",
		"capabilities", registry.Names(),
		"disabled", cfg.DisabledCapabilities,
	)

	client := assistant.NewClient(cfg, logger)
	svc := service.New(client, store, dispatcher, cfg, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: svc,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close session store", "err", err)
	}
}

func newBookingSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (tools.BookingSink, error) {
	if cfg.Mock() {
		logger.Info("ASSISTANT_MODE=MOCK detected, bookings are logged instead of written to Google Sheets")
		return sheets.NewLogSink(logger), nil
	}
	logger.Info("connecting to Google Sheets",
		"spreadsheet_id", cfg.SheetID,
		"service_account", cfg.GoogleServiceAccount,
	)
	client, err := sheets.NewClient(ctx, cfg.GoogleServiceAccountFile, cfg.SheetID, cfg.SheetWorksheet, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets: %w", err)
	}
	return client, nil
}

func newPolicyEngine(ctx context.Context, cfg *config.Config) (*policy.Engine, error) {
	if cfg.PolicyFile != "" {
		return policy.LoadEngine(ctx, cfg.PolicyFile, cfg.DisabledCapabilities)
	}
	return policy.NewEngine(ctx, policy.DefaultPolicy, cfg.DisabledCapabilities)
}
