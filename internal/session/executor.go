package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/planhub/sitechat-go/internal/metrics"
	"github.com/planhub/sitechat-go/internal/models"
)

var (
	// ErrActionInFlight means an approve/reject request for this action id
	// is already outstanding; the caller must wait for it to settle.
	ErrActionInFlight = errors.New("action request already in flight")

	// ErrActionSettled means the action is already executed or rejected.
	ErrActionSettled = errors.New("action already settled")

	// ErrActionNotFound means no message in the store carries the action.
	ErrActionNotFound = errors.New("action not found")
)

// DefaultActionErrorNotice is the assistant bubble shown when an
// approve/reject request never reached the server.
const DefaultActionErrorNotice = "Sorry, I couldn't process that action. The request didn't reach the server — the action is still waiting for your decision."

// ActionClient is the backend slice the executor needs.
type ActionClient interface {
	ExecuteAction(ctx context.Context, projectID, actionID string) (*models.ChatAction, error)
	RejectAction(ctx context.Context, projectID, actionID string) (*models.ChatAction, error)
}

// ActionExecutor performs the approve/reject transition for single action
// records and reconciles the result into the store.
//
// At most one request per action id may be outstanding; a second call
// while the first is in flight fails with ErrActionInFlight. Requests for
// different actions may run concurrently.
type ActionExecutor struct {
	client      ActionClient
	store       *MessageStore
	logger      *slog.Logger
	collector   *metrics.Collector
	errorNotice string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewActionExecutor creates an executor bound to a store.
func NewActionExecutor(client ActionClient, store *MessageStore, logger *slog.Logger, collector *metrics.Collector) *ActionExecutor {
	return &ActionExecutor{
		client:      client,
		store:       store,
		logger:      logger,
		collector:   collector,
		errorNotice: DefaultActionErrorNotice,
		inFlight:    make(map[string]struct{}),
	}
}

// SetErrorNotice overrides the synthesized error bubble text, e.g. with a
// localized string.
func (e *ActionExecutor) SetErrorNotice(notice string) {
	if notice != "" {
		e.errorNotice = notice
	}
}

// InFlight reports whether a request for the action is outstanding. The UI
// uses this to swap the approve/reject controls for a busy indicator.
func (e *ActionExecutor) InFlight(actionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inFlight[actionID]
	return ok
}

// Execute approves the action and patches the authoritative record into
// the store. On transport failure the card is left un-patched (server
// state is unknown) and an assistant error bubble is appended instead.
func (e *ActionExecutor) Execute(ctx context.Context, projectID, actionID string) (*models.ChatAction, error) {
	return e.transition(ctx, projectID, actionID, metrics.OpExecuteAction, e.client.ExecuteAction)
}

// Reject is symmetric to Execute for the rejection path.
func (e *ActionExecutor) Reject(ctx context.Context, projectID, actionID string) (*models.ChatAction, error) {
	return e.transition(ctx, projectID, actionID, metrics.OpRejectAction, e.client.RejectAction)
}

type transitionFunc func(ctx context.Context, projectID, actionID string) (*models.ChatAction, error)

func (e *ActionExecutor) transition(ctx context.Context, projectID, actionID, op string, call transitionFunc) (*models.ChatAction, error) {
	record, containing, ok := e.store.FindAction(actionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}
	if record.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrActionSettled, actionID, record.Status)
	}

	if err := e.acquire(actionID); err != nil {
		return nil, err
	}
	defer e.release(actionID)

	start := time.Now()
	updated, err := call(ctx, projectID, actionID)
	e.collector.RecordTiming(op, time.Since(start))

	if err != nil {
		e.logger.Error("action transition failed", "action_id", actionID, "op", op, "error", err)
		e.store.Append(models.NewAssistantNotice(containing.ConversationID, e.errorNotice))
		return nil, err
	}

	e.store.PatchAction(actionID, *updated)
	e.logger.Info("action settled", "action_id", actionID, "op", op, "status", updated.Status)
	return updated, nil
}

func (e *ActionExecutor) acquire(actionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.inFlight[actionID]; ok {
		return fmt.Errorf("%w: %s", ErrActionInFlight, actionID)
	}
	e.inFlight[actionID] = struct{}{}
	return nil
}

func (e *ActionExecutor) release(actionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, actionID)
}
