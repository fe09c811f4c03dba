package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykres/ai-salon-assistant/internal/domain"
)

type recordingSink struct {
	rows [][]string
	err  error
}

func (s *recordingSink) AppendRow(ctx context.Context, row []string) error {
	s.rows = append(s.rows, row)
	return s.err
}

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

func TestSaveBookingAppendsRow(t *testing.T) {
	sink := &recordingSink{}
	handler := NewSaveBooking(sink, fixedNow)

	result, err := handler(context.Background(), map[string]any{
		"name":            "Ann",
		"phone":           "+7 900 000 00 00",
		"service":         "manicure",
		"datetime":        "2025-03-02 12:00",
		"master_category": "top",
	})
	require.NoError(t, err)

	want := []string{"2025-03-01T09:30:00.000000", "Ann", "+7 900 000 00 00", "manicure", "2025-03-02 12:00", "top", ""}
	require.Len(t, sink.rows, 1)
	assert.Equal(t, want, sink.rows[0])
	assert.Equal(t, map[string]any{"status": "ok", "appended": want}, result)
}

func TestSaveBookingDefaultsMissingFields(t *testing.T) {
	sink := &recordingSink{}
	handler := NewSaveBooking(sink, fixedNow)

	_, err := handler(context.Background(), map[string]any{"name": "Ann"})
	require.NoError(t, err)

	row := sink.rows[0]
	assert.Equal(t, "Ann", row[1])
	assert.Equal(t, []string{"", "", "", "", ""}, row[2:])
}

func TestSaveBookingKeepsNumbersInPlainForm(t *testing.T) {
	sink := &recordingSink{}
	handler := NewSaveBooking(sink, fixedNow)

	args := domain.ParseArguments(`{"name":"Ann","phone":79161234567,"datetime":20250301,"comments":1.5}`)
	_, err := handler(context.Background(), args)
	require.NoError(t, err)

	row := sink.rows[0]
	assert.Equal(t, "79161234567", row[2])
	assert.Equal(t, "20250301", row[4])
	assert.Equal(t, "1.5", row[6])
}

func TestSaveBookingSinkFailureIsReported(t *testing.T) {
	sink := &recordingSink{err: errors.New("quota exceeded")}
	handler := NewSaveBooking(sink, fixedNow)

	result, err := handler(context.Background(), map[string]any{"name": "Ann"})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Equal(t, "quota exceeded", m["message"])
	assert.Len(t, m["row"], 7)
}
