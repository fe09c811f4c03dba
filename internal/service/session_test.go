package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykres/ai-salon-assistant/internal/config"
	"github.com/ykres/ai-salon-assistant/internal/domain"
	"github.com/ykres/ai-salon-assistant/internal/logging"
	"github.com/ykres/ai-salon-assistant/internal/tools"
	"github.com/ykres/ai-salon-assistant/tests/helpers"
)

func TestCreateSessionStoresThread(t *testing.T) {
	client := &scriptedAssistant{}
	svc, _, store := newTestService(t, client, nil)

	key, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(key)
	assert.NoError(t, err)

	threadID, ok := store.GetThread(context.Background(), key)
	require.True(t, ok)
	assert.Equal(t, "t_1", threadID)
}

func TestSendUnknownSession(t *testing.T) {
	client := &scriptedAssistant{}
	svc, _, _ := newTestService(t, client, nil)

	_, err := svc.Send(context.Background(), "nope", "Hi")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, client.callLog())
}

func TestSendRejectsBlankText(t *testing.T) {
	client := &scriptedAssistant{}
	svc, _, _ := newTestService(t, client, nil)

	_, err := svc.Send(context.Background(), "42", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	_, err = svc.SendOrStart(context.Background(), "42", "")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestSendOrStartCreatesThreadOnce(t *testing.T) {
	client := &scriptedAssistant{messages: []domain.Message{assistantMessage("hi there")}}
	svc, _, store := newTestService(t, client, nil)

	reply, err := svc.SendOrStart(context.Background(), "1001", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	_, err = svc.SendOrStart(context.Background(), "1001", "again")
	require.NoError(t, err)

	assert.Equal(t, 1, client.threads)
	threadID, ok := store.GetThread(context.Background(), "1001")
	require.True(t, ok)
	assert.Equal(t, []string{threadID + ":hello", threadID + ":again"}, client.added)
}

func TestSendOrStartConcurrentFirstMessages(t *testing.T) {
	client := &scriptedAssistant{messages: []domain.Message{assistantMessage("ok")}}
	svc, _, _ := newTestService(t, client, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SendOrStart(context.Background(), "chat-7", fmt.Sprintf("msg %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, client.threads)
	assert.Len(t, client.added, n)
	assert.Empty(t, svc.locks)
}

func TestSessionLockSerializesPerKey(t *testing.T) {
	svc, _, _ := newTestService(t, &scriptedAssistant{}, nil)

	unlockA := svc.lock("a")
	acquired := make(chan struct{})
	go func() {
		unlock := svc.lock("a")
		close(acquired)
		unlock()
	}()

	unlockB := svc.lock("b")
	unlockB()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a locked key")
	default:
	}

	unlockA()
	<-acquired
}

func TestSendOrStartWithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestSQLiteStore(t)
	client := &scriptedAssistant{messages: []domain.Message{assistantMessage("Welcome back")}}
	dispatcher := tools.NewDispatcher(tools.NewRegistry(), nil, logging.Discard())
	svc := New(client, db, dispatcher, config.Default(), logging.Discard())

	reply, err := svc.SendOrStart(ctx, "2002", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back", reply)

	snapshot, err := db.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2002": "t_1"}, snapshot)
}
