package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/planhub/sitechat-go/internal/session"
)

// sendResultMsg reports a completed send. The transcript is already
// reconciled by the controller; err is informational.
type sendResultMsg struct {
	err error
}

// actionResultMsg reports a settled approve/reject request.
type actionResultMsg struct {
	actionID string
	err      error
}

// Model is the bubbletea model for an interactive chat session.
type Model struct {
	ctrl  *session.Controller
	input textinput.Model
	spin  spinner.Model
	theme Theme

	width  int
	height int

	sending     bool
	chips       []string
	chipIndex   int
	actionIDs   []string
	actionIndex int

	quitting bool
}

// New creates a chat model bound to a session controller.
func New(ctrl *session.Controller) Model {
	input := textinput.New()
	input.Placeholder = "Ask the assistant…"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctrl:        ctrl,
		input:       input,
		spin:        spin,
		theme:       defaultTheme,
		chipIndex:   -1,
		actionIndex: -1,
	}
	// A resumed conversation may already have cards and chips.
	m.refresh()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case sendResultMsg:
		m.sending = false
		m.refresh()
		return m, nil

	case actionResultMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		// No cancellation: anything in flight keeps running and is
		// reconciled into the store regardless.
		m.quitting = true
		return m, tea.Quit

	case "ctrl+n":
		m.ctrl.NewChat()
		m.input.SetValue("")
		m.refresh()
		return m, nil

	case "tab":
		m.chipIndex = cycleIndex(m.chipIndex, len(m.chips))
		return m, nil

	case "up":
		m.actionIndex = prevIndex(m.actionIndex, len(m.actionIDs))
		return m, nil

	case "down":
		m.actionIndex = cycleIndex(m.actionIndex, len(m.actionIDs))
		return m, nil

	case "ctrl+a":
		return m.decide(true)

	case "ctrl+x":
		return m.decide(false)

	case "enter":
		if m.chipIndex >= 0 && m.chipIndex < len(m.chips) {
			text := m.chips[m.chipIndex]
			return m.send(text)
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		return m.send(text)
	}

	if m.sending {
		// Input stays disabled while a send is in flight; the controller
		// would refuse a second send anyway.
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send starts the optimistic send protocol for text.
func (m Model) send(text string) (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	m.sending = true
	m.input.SetValue("")
	m.chips = nil
	m.chipIndex = -1

	ctrl := m.ctrl
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return sendResultMsg{err: ctrl.Send(context.Background(), text)}
	})
}

// decide approves or rejects the selected action card.
func (m Model) decide(approve bool) (tea.Model, tea.Cmd) {
	if m.actionIndex < 0 || m.actionIndex >= len(m.actionIDs) {
		return m, nil
	}
	actionID := m.actionIDs[m.actionIndex]
	if m.ctrl.Executor().InFlight(actionID) {
		return m, nil
	}

	ctrl := m.ctrl
	cmd := func() tea.Msg {
		var err error
		if approve {
			_, err = ctrl.ExecuteAction(context.Background(), actionID)
		} else {
			_, err = ctrl.RejectAction(context.Background(), actionID)
		}
		return actionResultMsg{actionID: actionID, err: err}
	}
	return m, tea.Batch(m.spin.Tick, cmd)
}

// refresh re-derives chips and actionable cards from the store.
func (m *Model) refresh() {
	messages := m.ctrl.Store().Messages()
	m.chips = lastSuggestions(messages)
	m.chipIndex = -1
	m.actionIDs = actionableIDs(messages)
	if m.actionIndex >= len(m.actionIDs) {
		m.actionIndex = len(m.actionIDs) - 1
	}
}

// prevIndex is the upward counterpart of cycleIndex.
func prevIndex(current, n int) int {
	if n == 0 {
		return -1
	}
	if current < 0 {
		return n - 1
	}
	return current - 1
}

// View renders the chat screen.
func (m Model) View() tea.View {
	return tea.NewView(m.renderScreen())
}

func (m Model) renderScreen() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf("sitechat — project %s", m.ctrl.ProjectID())
	if id := m.ctrl.ConversationID(); id != "" {
		header += " · " + id
	} else {
		header += " · new conversation"
	}
	b.WriteString(m.theme.accentStyle().Render(header))
	b.WriteString("\n\n")

	selected := ""
	if m.actionIndex >= 0 && m.actionIndex < len(m.actionIDs) {
		selected = m.actionIDs[m.actionIndex]
	}

	var entries []string
	for _, msg := range m.ctrl.Store().Messages() {
		entries = append(entries, m.renderMessage(msg, selected))
	}
	transcript := strings.Join(entries, "\n\n")
	if m.height > 0 {
		// Keep room for header, chips, input and help.
		transcript = tailLines(transcript, m.height-8)
	}
	b.WriteString(transcript)
	b.WriteString("\n\n")

	if chips := m.renderChips(); chips != "" {
		b.WriteString(chips)
		b.WriteString("\n")
	}

	if m.sending {
		b.WriteString(m.spin.View() + " assistant is thinking…")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(m.theme.hintStyle().Render(
		"enter send · tab chips · ↑/↓ cards · ctrl+a approve · ctrl+x reject · ctrl+n new chat · ctrl+c quit"))

	return b.String()
}

// Run starts the interactive chat program and blocks until the user
// quits.
func Run(ctrl *session.Controller) error {
	p := tea.NewProgram(New(ctrl))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
