package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planhub/sitechat-go/internal/models"
	"github.com/planhub/sitechat-go/internal/parser"
)

// actionableIDs collects the ids of actions the user can still decide on,
// in transcript order.
func actionableIDs(messages []models.ChatMessage) []string {
	var ids []string
	for _, msg := range messages {
		for _, a := range msg.PendingActions {
			if a.Status.Actionable() {
				ids = append(ids, a.ID)
			}
		}
	}
	return ids
}

// lastSuggestions returns the chips of the newest assistant message, if
// any.
func lastSuggestions(messages []models.ChatMessage) []string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != models.RoleAssistant {
			continue
		}
		return parser.ExtractSuggestions(messages[i].Content).Suggestions
	}
	return nil
}

// cycleIndex advances a selection index over n entries; -1 means nothing
// selected and follows after the last entry.
func cycleIndex(current, n int) int {
	if n == 0 {
		return -1
	}
	next := current + 1
	if next >= n {
		return -1
	}
	return next
}

// statusLabel renders an action status for the card footer.
func statusLabel(a models.ChatAction) string {
	switch a.Status {
	case models.ActionExecuted:
		return "✓ executed"
	case models.ActionRejected:
		return "✗ rejected"
	case models.ActionFailed:
		if a.Result != nil && a.Result.Error != "" {
			return "! failed: " + a.Result.Error
		}
		return "! failed"
	default:
		return "proposed"
	}
}

// formatParameters renders the non-empty parameters as "name: value"
// lines in server order.
func formatParameters(p models.Parameters) []string {
	shown := p.Display()
	lines := make([]string, 0, len(shown))
	for _, param := range shown {
		lines = append(lines, fmt.Sprintf("%s: %v", param.Name, param.Value))
	}
	return lines
}

// renderAction builds an action card.
func (m Model) renderAction(a models.ChatAction, selected bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s", a.EntityType.Icon(), a.EntityType.Label())
	b.WriteString(m.theme.accentStyle().Render(header))
	b.WriteString("\n")
	b.WriteString(a.Description)

	if params := formatParameters(a.Parameters); len(params) > 0 {
		for _, line := range params {
			b.WriteString("\n  ")
			b.WriteString(m.theme.hintStyle().Render(line))
		}
	}

	b.WriteString("\n")
	switch {
	case m.ctrl.Executor().InFlight(a.ID):
		b.WriteString(m.spin.View() + " working…")
	case a.Status == models.ActionExecuted:
		b.WriteString(m.theme.successStyle().Render(statusLabel(a)))
	case a.Status == models.ActionRejected:
		b.WriteString(m.theme.hintStyle().Render(statusLabel(a)))
	case a.Status == models.ActionFailed:
		b.WriteString(m.theme.errorStyle().Render(statusLabel(a)))
		b.WriteString(m.theme.hintStyle().Render("  ctrl+a approve again · ctrl+x reject"))
	default:
		b.WriteString(m.theme.hintStyle().Render("ctrl+a approve · ctrl+x reject"))
	}

	style := m.theme.cardStyle()
	if selected {
		style = m.theme.selectedCardStyle()
	}
	return style.Render(b.String())
}

// renderMessage builds one transcript entry including its action cards.
func (m Model) renderMessage(msg models.ChatMessage, selectedAction string) string {
	var b strings.Builder

	switch msg.Role {
	case models.RoleUser:
		b.WriteString(m.theme.userStyle().Render("You"))
	default:
		b.WriteString(m.theme.accentStyle().Render("Assistant"))
	}
	b.WriteString("\n")

	content := msg.Content
	if msg.Role == models.RoleAssistant {
		content = parser.ExtractSuggestions(content).CleanContent
	}
	if content != "" {
		b.WriteString(m.theme.assistantStyle().Render(content))
	}

	for _, a := range msg.PendingActions {
		b.WriteString("\n")
		b.WriteString(m.renderAction(a, a.ID == selectedAction))
	}

	return b.String()
}

// renderChips builds the suggestion chip row.
func (m Model) renderChips() string {
	if len(m.chips) == 0 {
		return ""
	}
	rendered := make([]string, len(m.chips))
	for i, chip := range m.chips {
		style := m.theme.chipStyle()
		if i == m.chipIndex {
			style = m.theme.selectedChipStyle()
		}
		rendered[i] = style.Render(chip)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

// tailLines returns the last max lines of s.
func tailLines(s string, max int) string {
	if max <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[len(lines)-max:], "\n")
}
