package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planhub/sitechat-go/internal/models"
	"github.com/planhub/sitechat-go/internal/parser"
)

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List, show or delete conversations",
	Long: `Manage the chat history of the selected project.

Subcommands:
  list    List conversations (default)
  show    Print a conversation transcript
  delete  Delete a conversation

Examples:
  sitechat conversations --project site-42
  sitechat conversations show conv-81 -p site-42
  sitechat conversations delete conv-81 -p site-42`,
	RunE: runListConversations,
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE:  runListConversations,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowConversation,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteConversation,
}

func init() {
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)
}

func runListConversations(cmd *cobra.Command, args []string) error {
	if err := requireProject(); err != nil {
		return err
	}

	convs, err := controller.ListConversations(context.Background())
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(convs) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	fmt.Printf("Conversations (%d):\n\n", len(convs))
	for _, c := range convs {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("- %s  %s  (%d messages, updated %s)\n",
			c.ID, title, c.MessageCount, c.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runShowConversation(cmd *cobra.Command, args []string) error {
	if err := requireProject(); err != nil {
		return err
	}

	if err := controller.LoadConversation(context.Background(), args[0]); err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	for _, msg := range controller.Store().Messages() {
		switch msg.Role {
		case models.RoleUser:
			fmt.Printf("You: %s\n", msg.Content)
		default:
			fmt.Printf("Assistant: %s\n", parser.ExtractSuggestions(msg.Content).CleanContent)
		}
		for _, a := range msg.PendingActions {
			printAction(a)
		}
		fmt.Println()
	}
	return nil
}

func runDeleteConversation(cmd *cobra.Command, args []string) error {
	if err := requireProject(); err != nil {
		return err
	}

	if err := controller.DeleteConversation(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	fmt.Printf("Deleted %s.\n", args[0])
	return nil
}
