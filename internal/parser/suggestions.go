// Package parser extracts quick-reply suggestion chips from assistant
// Markdown replies.
package parser

import (
	"regexp"
	"strings"
)

// chipRegex matches a single suggestion line like "- [Show RFIs]" or
// "* [Show equipment]".
var chipRegex = regexp.MustCompile(`^[-*]\s*\[(.+)\]\s*$`)

// Parsed is the result of splitting an assistant reply into prose and
// trailing suggestion chips.
type Parsed struct {
	// CleanContent is the reply with the suggestion block removed and
	// trailing whitespace trimmed. Equal to the input when no chips were
	// found.
	CleanContent string

	// Suggestions holds the chip texts in their original order.
	Suggestions []string
}

// ExtractSuggestions detects a trailing block of suggestion lines,
// optionally preceded by a "---" separator, and splits it off the prose.
//
// The scan runs from the last line upward: chip lines are consumed, blank
// lines and bold-only wrapper lines (e.g. a "**Suggested follow-ups**"
// header) are skipped, a "---" line closes the block, and any other
// content halts the scan. The function is total and idempotent:
// re-parsing CleanContent yields no further suggestions.
func ExtractSuggestions(content string) Parsed {
	lines := strings.Split(content, "\n")

	var reversed []string
	cut := -1 // index of the topmost consumed line

scan:
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case chipRegex.MatchString(line):
			match := chipRegex.FindStringSubmatch(line)
			reversed = append(reversed, match[1])
			cut = i

		case trimmed == "---" && len(reversed) > 0:
			// Separator closes the block.
			cut = i
			break scan

		case trimmed == "" || strings.HasPrefix(trimmed, "**"):
			// Decorative wrapper line, skipped without consuming.

		default:
			break scan
		}
	}

	if len(reversed) == 0 {
		return Parsed{CleanContent: content}
	}

	suggestions := make([]string, len(reversed))
	for i, s := range reversed {
		suggestions[len(reversed)-1-i] = s
	}

	clean := strings.TrimRight(strings.Join(lines[:cut], "\n"), " \t\r\n")
	return Parsed{CleanContent: clean, Suggestions: suggestions}
}
