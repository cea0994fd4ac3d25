// Package client provides the REST client for the project-assistant chat
// backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/planhub/sitechat-go/internal/models"
)

// Client talks to the chat surface of the backend. Every call is scoped by
// the project id supplied by the caller; the client never caches it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new chat client.
// If baseURL is empty, uses the SITECHAT_SERVER_URL env var or defaults to
// localhost:8080. The request timeout can be configured via
// SITECHAT_CLIENT_TIMEOUT (default 2m; sends wait on the language model).
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("SITECHAT_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout := 2 * time.Minute
	if t := os.Getenv("SITECHAT_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// sendMessageRequest is the wire body for a send.
type sendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// SendMessageResponse is the backend's reply to a send: the now-confirmed
// user message and the assistant message, which may carry proposed actions.
type SendMessageResponse struct {
	ConversationID   string             `json:"conversationId"`
	UserMessage      models.ChatMessage `json:"userMessage"`
	AssistantMessage models.ChatMessage `json:"assistantMessage"`
}

// SendMessage posts a user message. conversationID may be empty for the
// first message of a new conversation; the backend mints the id.
func (c *Client) SendMessage(ctx context.Context, projectID, conversationID, message string) (*SendMessageResponse, error) {
	body := sendMessageRequest{Message: message, ConversationID: conversationID}

	var result SendMessageResponse
	path := fmt.Sprintf("/projects/%s/chat", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &result, nil
}

// ListConversations returns the project's conversation history summaries.
func (c *Client) ListConversations(ctx context.Context, projectID string) ([]models.Conversation, error) {
	var result []models.Conversation
	path := fmt.Sprintf("/projects/%s/chat/conversations", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return result, nil
}

// GetConversation returns the full transcript of a conversation.
func (c *Client) GetConversation(ctx context.Context, projectID, conversationID string) ([]models.ChatMessage, error) {
	var result struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	path := fmt.Sprintf("/projects/%s/chat/conversations/%s",
		url.PathEscape(projectID), url.PathEscape(conversationID))
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return result.Messages, nil
}

// DeleteConversation removes a conversation and its messages server-side.
func (c *Client) DeleteConversation(ctx context.Context, projectID, conversationID string) error {
	path := fmt.Sprintf("/projects/%s/chat/conversations/%s",
		url.PathEscape(projectID), url.PathEscape(conversationID))
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// ExecuteAction approves a proposed action and returns the authoritative
// updated record.
func (c *Client) ExecuteAction(ctx context.Context, projectID, actionID string) (*models.ChatAction, error) {
	var result models.ChatAction
	path := fmt.Sprintf("/projects/%s/chat/actions/%s/execute",
		url.PathEscape(projectID), url.PathEscape(actionID))
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, fmt.Errorf("execute action: %w", err)
	}
	return &result, nil
}

// RejectAction rejects a proposed action and returns the authoritative
// updated record.
func (c *Client) RejectAction(ctx context.Context, projectID, actionID string) (*models.ChatAction, error) {
	var result models.ChatAction
	path := fmt.Sprintf("/projects/%s/chat/actions/%s/reject",
		url.PathEscape(projectID), url.PathEscape(actionID))
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, fmt.Errorf("reject action: %w", err)
	}
	return &result, nil
}

// do sends one request and decodes the response into result (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server error: %s - %s", resp.Status, string(data))
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
