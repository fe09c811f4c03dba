package sheets

import (
	"context"
	"log/slog"

	"github.com/ykres/ai-salon-assistant/internal/logging"
)

// LogSink records rows in the log instead of a spreadsheet. It backs the
// booking capability in mock mode.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logging.Component(logger, "sheets")}
}

// AppendRow logs the row.
func (s *LogSink) AppendRow(ctx context.Context, row []string) error {
	s.logger.Info("booking row (mock sink)", "row", row)
	return nil
}
