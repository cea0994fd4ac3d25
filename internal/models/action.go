package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ActionStatus is the lifecycle state of a proposed action.
//
// Transitions: proposed -> executed | rejected | failed. A failed record is
// still actionable (the failure was transient, the action itself was never
// applied as far as the client knows); executed and rejected are terminal.
type ActionStatus string

const (
	ActionProposed ActionStatus = "proposed"
	ActionExecuted ActionStatus = "executed"
	ActionRejected ActionStatus = "rejected"
	ActionFailed   ActionStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s ActionStatus) Terminal() bool {
	return s == ActionExecuted || s == ActionRejected
}

// Actionable reports whether the user may still approve or reject.
func (s ActionStatus) Actionable() bool {
	return s == ActionProposed || s == ActionFailed
}

// CanTransition reports whether moving from s to next is a legal
// transition of the action state machine.
func (s ActionStatus) CanTransition(next ActionStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case ActionExecuted, ActionRejected, ActionFailed:
		return true
	}
	return false
}

// ActionResult is present once an action has been executed or has failed.
// For failed actions Error carries the server-reported message, surfaced
// verbatim in the card.
type ActionResult struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// ChatAction is a single AI-proposed, human-approvable side effect. Exactly
// one record exists per proposed action for its whole lifetime; approving
// or rejecting replaces the record in place, never duplicates it.
type ChatAction struct {
	ID          string        `json:"id"`
	EntityType  EntityType    `json:"entityType"`
	Description string        `json:"description"`
	Parameters  Parameters    `json:"parameters,omitempty"`
	Status      ActionStatus  `json:"status"`
	Result      *ActionResult `json:"result,omitempty"`
}

// Parameter is one intended input of a proposed action.
type Parameter struct {
	Name  string
	Value any
}

// Parameters preserves the server's field order, which encoding into a Go
// map would lose.
type Parameters []Parameter

// UnmarshalJSON decodes a JSON object keeping key order.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("parameters: expected object, got %v", tok)
	}

	var out Parameters
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("parameters: expected key, got %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Parameter{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON encodes the parameters back into a JSON object in order.
func (p Parameters) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Display returns the parameters worth rendering in a detail view: nulls
// and empty strings are dropped.
func (p Parameters) Display() []Parameter {
	var out []Parameter
	for _, param := range p {
		if param.Value == nil {
			continue
		}
		if s, ok := param.Value.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, param)
	}
	return out
}
