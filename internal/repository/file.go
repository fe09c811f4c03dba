package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ykres/ai-salon-assistant/internal/logging"
)

// FileStore keeps the whole mapping in one JSON object file. Every read loads
// the whole file and every write rewrites it.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens path, creating it with an empty mapping if needed.
// Setup failures are logged and surface later as absent lookups or write
// errors; they never fail construction.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	s := &FileStore{
		path:   path,
		logger: logging.Component(logger, "session_store").With("path", path),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Warn("failed to create session store directory", "err", err)
		return s
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(map[string]string{}); err != nil {
			s.logger.Warn("failed to initialize session store", "err", err)
		}
	}
	return s
}

// GetThread returns the thread for key. Read failures degrade to absent.
func (s *FileStore) GetThread(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		s.logger.Warn("session store unreadable, treating as empty", "err", err)
		return "", false
	}
	threadID, ok := data[key]
	return threadID, ok && threadID != ""
}

// SetThread upserts key and rewrites the file before returning.
func (s *FileStore) SetThread(ctx context.Context, key, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		s.logger.Warn("session store unreadable, rewriting from empty", "err", err)
		data = map[string]string{}
	}
	data[key] = threadID
	if err := s.write(data); err != nil {
		return fmt.Errorf("failed to save session %s: %w", key, err)
	}
	return nil
}

// Snapshot returns a copy of the whole mapping or the read error.
func (s *FileStore) Snapshot(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Close is a no-op; the file is not held open.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	data := map[string]string{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	return data, nil
}

func (s *FileStore) write(data map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
