// Package session implements the conversational action-approval core: the
// message store, the action executor and the conversation controller.
package session

import (
	"sync"

	"github.com/planhub/sitechat-go/internal/models"
)

// MessageStore holds the ordered transcript of the active conversation.
// It is append-mostly; the only in-place mutation is replacing a single
// action record with its server-confirmed update. All methods are safe for
// concurrent use because UI commands complete on their own goroutines.
type MessageStore struct {
	mu       sync.RWMutex
	messages []models.ChatMessage
}

// NewMessageStore creates an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Append adds a message to the end of the transcript.
func (s *MessageStore) Append(msg models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// ReplaceOptimistic removes the placeholder with the given local id and
// splices the confirmed messages into its position, leaving every other
// message where it was. If the placeholder is gone the confirmed messages
// are appended at the end instead.
func (s *MessageStore) ReplaceOptimistic(tempID models.MessageID, confirmed ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, msg := range s.messages {
		if msg.ID == tempID {
			replaced := make([]models.ChatMessage, 0, len(s.messages)-1+len(confirmed))
			replaced = append(replaced, s.messages[:i]...)
			replaced = append(replaced, confirmed...)
			replaced = append(replaced, s.messages[i+1:]...)
			s.messages = replaced
			return
		}
	}
	s.messages = append(s.messages, confirmed...)
}

// PatchAction replaces every action record matching actionID with the
// updated record. Missing ids are a silent no-op so the store stays
// tolerant of out-of-order or duplicate server events. The containing
// message's action slice is copied, never mutated, so snapshots taken
// before the patch remain stable.
func (s *MessageStore) PatchAction(actionID string, updated models.ChatAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, msg := range s.messages {
		patched := false
		for _, a := range msg.PendingActions {
			if a.ID == actionID {
				patched = true
				break
			}
		}
		if !patched {
			continue
		}

		actions := make([]models.ChatAction, len(msg.PendingActions))
		for j, a := range msg.PendingActions {
			if a.ID == actionID {
				actions[j] = updated
			} else {
				actions[j] = a
			}
		}
		s.messages[i].PendingActions = actions
	}
}

// FindAction returns the first action with the given id together with its
// containing message.
func (s *MessageStore) FindAction(actionID string) (models.ChatAction, models.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, msg := range s.messages {
		if a, ok := msg.ActionByID(actionID); ok {
			return a, msg, true
		}
	}
	return models.ChatAction{}, models.ChatMessage{}, false
}

// Reset clears the transcript, used when switching conversations or
// starting a new chat.
func (s *MessageStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Messages returns a snapshot of the transcript in order.
func (s *MessageStore) Messages() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
