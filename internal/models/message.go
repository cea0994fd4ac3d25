// Package models defines the chat domain types shared by the client,
// session core and UI.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// localIDPrefix marks client-minted message ids so they are recognizable in
// logs. Disjointness from server ids is guaranteed by construction, not by
// this prefix: remote ids only ever enter through JSON decoding.
const localIDPrefix = "temp-"

// MessageID is a message identifier that is either local (client-minted,
// optimistic) or remote (server-assigned, durable). The zero value is the
// empty remote id.
type MessageID struct {
	value string
	local bool
}

// NewLocalMessageID mints a fresh local id for an optimistic message.
func NewLocalMessageID() MessageID {
	return MessageID{value: localIDPrefix + uuid.NewString(), local: true}
}

// RemoteMessageID wraps a server-assigned id.
func RemoteMessageID(id string) MessageID {
	return MessageID{value: id}
}

// Local reports whether the id was minted on this client.
func (id MessageID) Local() bool { return id.local }

// IsZero reports whether the id is unset.
func (id MessageID) IsZero() bool { return id.value == "" }

func (id MessageID) String() string { return id.value }

// MarshalJSON encodes the id as its plain string value.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON decodes a server id. Ids arriving over the wire are always
// remote; local ids never round-trip through JSON.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = MessageID{value: s}
	return nil
}

// Conversation is the history-list summary of a chat session. The client
// never updates one in place; conversations are created implicitly by the
// first send and deleted explicitly.
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	MessageCount int       `json:"messageCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ChatMessage is a single transcript entry. Once created a message is
// immutable except for in-place replacement of individual pending actions.
type ChatMessage struct {
	ID             MessageID    `json:"id"`
	ConversationID string       `json:"conversationId"`
	Role           Role         `json:"role"`
	Content        string       `json:"content"`
	PendingActions []ChatAction `json:"pendingActions,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NewUserMessage builds an optimistic user message with a local id and a
// client-stamped timestamp. conversationID is empty for the first message
// of a not-yet-created conversation.
func NewUserMessage(conversationID, content string) ChatMessage {
	return ChatMessage{
		ID:             NewLocalMessageID(),
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// NewAssistantNotice builds a locally synthesized assistant message, used
// for the error bubbles that stand in for a failed request. It carries no
// pending actions.
func NewAssistantNotice(conversationID, content string) ChatMessage {
	return ChatMessage{
		ID:             NewLocalMessageID(),
		ConversationID: conversationID,
		Role:           RoleAssistant,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// ActionByID returns the pending action with the given id, if present.
func (m ChatMessage) ActionByID(actionID string) (ChatAction, bool) {
	for _, a := range m.PendingActions {
		if a.ID == actionID {
			return a, true
		}
	}
	return ChatAction{}, false
}
