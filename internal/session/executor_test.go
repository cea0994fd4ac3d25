package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhub/sitechat-go/internal/metrics"
	"github.com/planhub/sitechat-go/internal/models"
)

type fakeActionClient struct {
	mu       sync.Mutex
	execute  func(ctx context.Context, projectID, actionID string) (*models.ChatAction, error)
	reject   func(ctx context.Context, projectID, actionID string) (*models.ChatAction, error)
	executed int
}

func (f *fakeActionClient) ExecuteAction(ctx context.Context, projectID, actionID string) (*models.ChatAction, error) {
	f.mu.Lock()
	f.executed++
	f.mu.Unlock()
	return f.execute(ctx, projectID, actionID)
}

func (f *fakeActionClient) RejectAction(ctx context.Context, projectID, actionID string) (*models.ChatAction, error) {
	return f.reject(ctx, projectID, actionID)
}

func (f *fakeActionClient) executeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executed
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestExecutor(t *testing.T, fake *fakeActionClient) (*ActionExecutor, *MessageStore) {
	t.Helper()
	store := NewMessageStore()
	store.Append(remoteMsg("m1", "I can update the crane.", proposedAction("a1")))
	return NewActionExecutor(fake, store, testLogger(), metrics.NewCollector()), store
}

func TestExecutePatchesAuthoritativeRecord(t *testing.T) {
	fake := &fakeActionClient{
		execute: func(_ context.Context, projectID, actionID string) (*models.ChatAction, error) {
			assert.Equal(t, "proj-1", projectID)
			updated := proposedAction(actionID)
			updated.Status = models.ActionExecuted
			updated.Result = &models.ActionResult{OK: true}
			return &updated, nil
		},
	}
	executor, store := newTestExecutor(t, fake)

	updated, err := executor.Execute(context.Background(), "proj-1", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ActionExecuted, updated.Status)

	// The record was replaced in place, no duplicate anywhere.
	total := 0
	for _, msg := range store.Messages() {
		for _, a := range msg.PendingActions {
			if a.ID == "a1" {
				total++
				assert.Equal(t, models.ActionExecuted, a.Status)
			}
		}
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, store.Len(), "no extra message on success")
}

func TestExecuteNetworkFailureLeavesCardUnpatched(t *testing.T) {
	fake := &fakeActionClient{
		execute: func(context.Context, string, string) (*models.ChatAction, error) {
			return nil, errors.New("connection refused")
		},
	}
	executor, store := newTestExecutor(t, fake)

	_, err := executor.Execute(context.Background(), "proj-1", "a1")
	require.Error(t, err)

	msgs := store.Messages()
	require.Len(t, msgs, 2, "exactly one synthesized error bubble")
	assert.Equal(t, models.ActionProposed, msgs[0].PendingActions[0].Status,
		"server state unknown, card stays proposed")
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.True(t, msgs[1].ID.Local())
	assert.Empty(t, msgs[1].PendingActions)
}

func TestRejectPath(t *testing.T) {
	fake := &fakeActionClient{
		reject: func(_ context.Context, _, actionID string) (*models.ChatAction, error) {
			updated := proposedAction(actionID)
			updated.Status = models.ActionRejected
			return &updated, nil
		},
	}
	executor, store := newTestExecutor(t, fake)

	updated, err := executor.Reject(context.Background(), "proj-1", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ActionRejected, updated.Status)

	record, _, ok := store.FindAction("a1")
	require.True(t, ok)
	assert.Equal(t, models.ActionRejected, record.Status)
}

func TestSecondCallWhileInFlightIsRefused(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fake := &fakeActionClient{
		execute: func(_ context.Context, _, actionID string) (*models.ChatAction, error) {
			close(started)
			<-release
			updated := proposedAction(actionID)
			updated.Status = models.ActionExecuted
			return &updated, nil
		},
	}
	executor, _ := newTestExecutor(t, fake)

	done := make(chan error, 1)
	go func() {
		_, err := executor.Execute(context.Background(), "proj-1", "a1")
		done <- err
	}()

	<-started
	assert.True(t, executor.InFlight("a1"))

	_, err := executor.Execute(context.Background(), "proj-1", "a1")
	assert.ErrorIs(t, err, ErrActionInFlight)
	_, err = executor.Reject(context.Background(), "proj-1", "a1")
	assert.ErrorIs(t, err, ErrActionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, executor.InFlight("a1"))
	assert.Equal(t, 1, fake.executeCalls(), "the side effect must run exactly once")
}

func TestTerminalActionsAreRefused(t *testing.T) {
	fake := &fakeActionClient{
		execute: func(_ context.Context, _, actionID string) (*models.ChatAction, error) {
			updated := proposedAction(actionID)
			updated.Status = models.ActionExecuted
			return &updated, nil
		},
	}
	executor, _ := newTestExecutor(t, fake)

	_, err := executor.Execute(context.Background(), "proj-1", "a1")
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), "proj-1", "a1")
	assert.ErrorIs(t, err, ErrActionSettled)
	_, err = executor.Reject(context.Background(), "proj-1", "a1")
	assert.ErrorIs(t, err, ErrActionSettled)
	assert.Equal(t, 1, fake.executeCalls())
}

func TestFailedActionStaysRetryable(t *testing.T) {
	calls := 0
	fake := &fakeActionClient{
		execute: func(_ context.Context, _, actionID string) (*models.ChatAction, error) {
			calls++
			updated := proposedAction(actionID)
			if calls == 1 {
				// Server applied nothing and reported a failure.
				updated.Status = models.ActionFailed
				updated.Result = &models.ActionResult{Error: "equipment is locked"}
				return &updated, nil
			}
			updated.Status = models.ActionExecuted
			updated.Result = &models.ActionResult{OK: true}
			return &updated, nil
		},
	}
	executor, store := newTestExecutor(t, fake)

	updated, err := executor.Execute(context.Background(), "proj-1", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ActionFailed, updated.Status)
	assert.Equal(t, "equipment is locked", updated.Result.Error)

	// failed is not terminal; the retry goes through.
	updated, err = executor.Execute(context.Background(), "proj-1", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ActionExecuted, updated.Status)

	record, _, _ := store.FindAction("a1")
	assert.Equal(t, models.ActionExecuted, record.Status)
}

func TestUnknownActionID(t *testing.T) {
	fake := &fakeActionClient{}
	executor, _ := newTestExecutor(t, fake)

	_, err := executor.Execute(context.Background(), "proj-1", "missing")
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestDifferentActionsMayRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	fake := &fakeActionClient{
		execute: func(_ context.Context, _, actionID string) (*models.ChatAction, error) {
			started <- struct{}{}
			<-release
			updated := proposedAction(actionID)
			updated.Status = models.ActionExecuted
			return &updated, nil
		},
	}

	store := NewMessageStore()
	store.Append(remoteMsg("m1", "two proposals", proposedAction("a1"), proposedAction("a2")))
	executor := NewActionExecutor(fake, store, testLogger(), metrics.NewCollector())

	var wg sync.WaitGroup
	for _, id := range []string{"a1", "a2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := executor.Execute(context.Background(), "proj-1", id)
			assert.NoError(t, err)
		}(id)
	}

	// Both must get past the per-card guard before either completes.
	for range 2 {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("concurrent execution of different actions was blocked")
		}
	}
	close(release)
	wg.Wait()
}
