package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykres/ai-salon-assistant/internal/adapter/assistant"
	"github.com/ykres/ai-salon-assistant/internal/config"
	"github.com/ykres/ai-salon-assistant/internal/domain"
	"github.com/ykres/ai-salon-assistant/internal/logging"
	"github.com/ykres/ai-salon-assistant/internal/repository"
	"github.com/ykres/ai-salon-assistant/internal/service"
	"github.com/ykres/ai-salon-assistant/internal/tools"
)

type fakeRelay struct {
	key     string
	reply   string
	err     error
	gotKey  string
	gotText string
}

func (f *fakeRelay) CreateSession(ctx context.Context) (string, error) {
	return f.key, f.err
}

func (f *fakeRelay) Send(ctx context.Context, key, text string) (string, error) {
	f.gotKey, f.gotText = key, text
	return f.reply, f.err
}

func postJSON(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Detail
}

func TestMessageReturnsReply(t *testing.T) {
	relay := &fakeRelay{reply: "Hello!"}
	h := NewHandler(relay, logging.Discard())

	rec := postJSON(t, h.Message, `{"sessionId":"42","text":"Hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply":"Hello!"}`, rec.Body.String())
	assert.Equal(t, "42", relay.gotKey)
	assert.Equal(t, "Hi", relay.gotText)
}

func TestMessageErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"unknown session", `{"sessionId":"nope","text":"Hi"}`, domain.ErrSessionNotFound, http.StatusBadRequest, detailUnknownSession},
		{"missing session id", `{"text":"Hi"}`, nil, http.StatusBadRequest, detailUnknownSession},
		{"empty text", `{"sessionId":"42","text":""}`, domain.ErrEmptyMessage, http.StatusBadRequest, detailEmptyText},
		{"malformed body", `{"sessionId":`, nil, http.StatusBadRequest, "invalid request body"},
		{"timeout", `{"sessionId":"42","text":"Hi"}`, &domain.TimeoutError{RunID: "run_1", Elapsed: 121 * time.Second, Limit: 120 * time.Second}, http.StatusGatewayTimeout, detailTimeout},
		{"run failed", `{"sessionId":"42","text":"Hi"}`, &domain.RunFailedError{RunID: "run_1", Status: domain.RunStatusFailed, Message: "secret upstream detail"}, http.StatusInternalServerError, detailInternal},
		{"transport", `{"sessionId":"42","text":"Hi"}`, errors.New("dial tcp: connection refused"), http.StatusInternalServerError, detailInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeRelay{err: tt.err}, logging.Discard())

			rec := postJSON(t, h.Message, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, decodeDetail(t, rec))
		})
	}
}

func TestStartFailureIsInternalError(t *testing.T) {
	h := NewHandler(&fakeRelay{err: errors.New("boom")}, logging.Discard())

	rec := postJSON(t, h.Start, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestChatRoundTripWithMockAssistant(t *testing.T) {
	cfg := config.Default()
	cfg.PollInterval = time.Millisecond

	store := repository.NewFileStore(filepath.Join(t.TempDir(), "web_threads.json"), logging.Discard())
	dispatcher := tools.NewDispatcher(tools.NewRegistry(), nil, logging.Discard())
	svc := service.New(assistant.NewMockClient(), store, dispatcher, cfg, logging.Discard())
	h := NewHandler(svc, logging.Discard())

	rec := postJSON(t, h.Start, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var start domain.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	require.NotEmpty(t, start.SessionID)

	rec = postJSON(t, h.Message, `{"sessionId":"`+start.SessionID+`","text":"Hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "Hello")
	assert.Contains(t, resp.Reply, "[MOCK]")
}
