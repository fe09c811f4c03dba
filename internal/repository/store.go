// Package repository persists the session key -> remote thread mapping.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ykres/ai-salon-assistant/internal/config"
)

// Store maps caller-visible session keys to remote thread ids.
//
// GetThread never fails: a store that cannot be read answers "absent", so a
// caller at worst starts a fresh conversation. Snapshot is the strict read
// that surfaces the underlying error.
//
// Writers to the same key race with last-write-wins; the expected pattern is
// one write per key.
type Store interface {
	GetThread(ctx context.Context, key string) (string, bool)
	SetThread(ctx context.Context, key, threadID string) error
	Snapshot(ctx context.Context) (map[string]string, error)
	Close() error
}

// Open builds the store selected by backend. For the file backend location
// is a JSON file path, for sqlite it is a DSN.
func Open(backend, location string, logger *slog.Logger) (Store, error) {
	switch backend {
	case config.BackendFile, "":
		return NewFileStore(location, logger), nil
	case config.BackendSQLite:
		return NewSQLiteStore(location, logger)
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
