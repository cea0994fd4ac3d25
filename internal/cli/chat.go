package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/planhub/sitechat-go/internal/tui"
)

var chatConversation string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat session",
	Long: `Open the interactive chat UI for the selected project.

Proposed actions appear as cards in the transcript; select one with the
arrow keys and approve (ctrl+a) or reject (ctrl+x) it. Suggestion chips
under the reply can be cycled with tab and sent with enter.

Examples:
  sitechat chat --project site-42
  sitechat chat --project site-42 --conversation conv-81`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "resume an existing conversation")
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireProject(); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chat needs an interactive terminal; use 'sitechat send' in scripts")
	}

	if chatConversation != "" {
		if err := controller.LoadConversation(context.Background(), chatConversation); err != nil {
			return fmt.Errorf("resume conversation: %w", err)
		}
	}

	if err := tui.Run(controller); err != nil {
		return err
	}

	if verbose {
		fmt.Println(collector.Snapshot().Summary())
	}
	return nil
}
