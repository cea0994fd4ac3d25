package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/planhub/sitechat-go/internal/client"
	"github.com/planhub/sitechat-go/internal/metrics"
	"github.com/planhub/sitechat-go/internal/models"
)

// State is the controller's lifecycle state for the active conversation.
type State int

const (
	// StateIdle is the initial state: no conversation id, empty store.
	StateIdle State = iota
	// StateSending means a send is in flight; further sends are refused.
	StateSending
	// StateReady means the last send completed and the conversation id is
	// set for subsequent sends.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrSendInFlight means a send for this session is already outstanding.
	ErrSendInFlight = errors.New("send already in flight")

	// ErrNoProject means the controller has no project context.
	ErrNoProject = errors.New("no project selected")
)

// DefaultSendErrorNotice is the assistant bubble appended when a send
// never produced a reply.
const DefaultSendErrorNotice = "Sorry, I couldn't reach the assistant. Your message was not delivered — please try again."

// Backend is the REST surface the controller consumes.
type Backend interface {
	ActionClient
	SendMessage(ctx context.Context, projectID, conversationID, message string) (*client.SendMessageResponse, error)
	ListConversations(ctx context.Context, projectID string) ([]models.Conversation, error)
	GetConversation(ctx context.Context, projectID, conversationID string) ([]models.ChatMessage, error)
	DeleteConversation(ctx context.Context, projectID, conversationID string) error
}

// Controller orchestrates a single active conversation: optimistic sends,
// reconciliation of confirmed messages, action approval, and the
// conversation history lifecycle. The store and its action records are
// owned exclusively by the controller.
type Controller struct {
	backend   Backend
	store     *MessageStore
	executor  *ActionExecutor
	logger    *slog.Logger
	collector *metrics.Collector

	sendErrorNotice string

	mu             sync.Mutex
	projectID      string
	conversationID string
	state          State

	// epoch guards against a stale reply landing in a different
	// conversation: every reset bumps it, and a send whose epoch no longer
	// matches discards its reply instead of reconciling it.
	epoch uint64
}

// NewController creates a controller scoped to a project context.
func NewController(backend Backend, projectID string, logger *slog.Logger, collector *metrics.Collector) *Controller {
	store := NewMessageStore()
	return &Controller{
		backend:         backend,
		store:           store,
		executor:        NewActionExecutor(backend, store, logger, collector),
		logger:          logger,
		collector:       collector,
		sendErrorNotice: DefaultSendErrorNotice,
		projectID:       projectID,
		state:           StateIdle,
	}
}

// SetSendErrorNotice overrides the synthesized send-failure bubble text.
func (c *Controller) SetSendErrorNotice(notice string) {
	if notice != "" {
		c.sendErrorNotice = notice
	}
}

// Store returns the transcript store for rendering.
func (c *Controller) Store() *MessageStore { return c.store }

// Executor returns the action executor for approve/reject controls.
func (c *Controller) Executor() *ActionExecutor { return c.executor }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConversationID returns the active conversation id, empty while Idle.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// ProjectID returns the current project context.
func (c *Controller) ProjectID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectID
}

// Send posts a user message through the optimistic protocol: append a
// placeholder, call the backend, then swap the placeholder for the
// confirmed user echo and assistant reply. On transport failure the
// placeholder stays (the user's own words remain visible), an assistant
// error bubble is appended, and the error is returned for logging; the
// session still moves to Ready either way.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.projectID == "" {
		c.mu.Unlock()
		return ErrNoProject
	}
	if c.state == StateSending {
		c.mu.Unlock()
		return ErrSendInFlight
	}

	projectID := c.projectID
	conversationID := c.conversationID
	epoch := c.epoch
	c.state = StateSending

	optimistic := models.NewUserMessage(conversationID, text)
	c.store.Append(optimistic)
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.backend.SendMessage(ctx, projectID, conversationID, text)
	c.collector.RecordTiming(metrics.OpSendMessage, time.Since(start))

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		// The session was reset while the send was in flight; this reply
		// belongs to a transcript that no longer exists.
		c.logger.Warn("discarding stale send reply", "conversation_id", conversationID)
		return nil
	}

	c.state = StateReady

	if err != nil {
		c.logger.Error("send failed", "conversation_id", conversationID, "error", err)
		c.store.Append(models.NewAssistantNotice(conversationID, c.sendErrorNotice))
		return err
	}

	c.conversationID = resp.ConversationID
	c.store.ReplaceOptimistic(optimistic.ID, resp.UserMessage, resp.AssistantMessage)
	c.logger.Info("send confirmed",
		"conversation_id", resp.ConversationID,
		"actions", len(resp.AssistantMessage.PendingActions))
	return nil
}

// ExecuteAction approves an action within the current project context.
func (c *Controller) ExecuteAction(ctx context.Context, actionID string) (*models.ChatAction, error) {
	return c.executor.Execute(ctx, c.ProjectID(), actionID)
}

// RejectAction rejects an action within the current project context.
func (c *Controller) RejectAction(ctx context.Context, actionID string) (*models.ChatAction, error) {
	return c.executor.Reject(ctx, c.ProjectID(), actionID)
}

// ListConversations returns the project's conversation history.
func (c *Controller) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	start := time.Now()
	convs, err := c.backend.ListConversations(ctx, c.ProjectID())
	c.collector.RecordTiming(metrics.OpListConversations, time.Since(start))
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// LoadConversation replaces the transcript wholesale with the server's
// copy and makes the conversation active. On error the current transcript
// is left untouched.
func (c *Controller) LoadConversation(ctx context.Context, conversationID string) error {
	start := time.Now()
	messages, err := c.backend.GetConversation(ctx, c.ProjectID(), conversationID)
	c.collector.RecordTiming(metrics.OpLoadConversation, time.Since(start))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.store.Reset()
	for _, msg := range messages {
		c.store.Append(msg)
	}
	c.conversationID = conversationID
	c.state = StateReady
	c.logger.Info("conversation loaded", "conversation_id", conversationID, "messages", len(messages))
	return nil
}

// DeleteConversation removes a conversation server-side. Deleting the
// active conversation resets the session to Idle.
func (c *Controller) DeleteConversation(ctx context.Context, conversationID string) error {
	start := time.Now()
	err := c.backend.DeleteConversation(ctx, c.ProjectID(), conversationID)
	c.collector.RecordTiming(metrics.OpDeleteConversation, time.Since(start))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conversationID == conversationID {
		c.resetLocked()
	}
	return nil
}

// NewChat resets the session to Idle without deleting anything
// server-side.
func (c *Controller) NewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// SetProject switches the project context. A conversation is scoped to
// exactly one project, so switching always resets the session.
func (c *Controller) SetProject(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if projectID == c.projectID {
		return
	}
	c.projectID = projectID
	c.resetLocked()
}

// resetLocked clears the transcript and bumps the epoch so in-flight
// replies are discarded. Caller must hold c.mu.
func (c *Controller) resetLocked() {
	c.epoch++
	c.store.Reset()
	c.conversationID = ""
	c.state = StateIdle
}
