package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planhub/sitechat-go/internal/models"
	"github.com/planhub/sitechat-go/internal/parser"
)

var sendConversation string

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a single message and print the reply",
	Long: `Send one message to the project assistant and print the reply,
including any proposed actions. Useful for scripting; approve or reject
printed actions with 'sitechat actions'.

Examples:
  sitechat send "which cranes are free tomorrow?" --project site-42
  sitechat send "create an RFI for the slab detail" -p site-42 -c conv-81`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendConversation, "conversation", "c", "", "continue an existing conversation")
}

func runSend(cmd *cobra.Command, args []string) error {
	if err := requireProject(); err != nil {
		return err
	}
	ctx := context.Background()

	if sendConversation != "" {
		if err := controller.LoadConversation(ctx, sendConversation); err != nil {
			return fmt.Errorf("load conversation: %w", err)
		}
	}

	if err := controller.Send(ctx, args[0]); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	messages := controller.Store().Messages()
	if len(messages) == 0 {
		return nil
	}
	reply := messages[len(messages)-1]
	if reply.Role != models.RoleAssistant {
		return nil
	}

	parsed := parser.ExtractSuggestions(reply.Content)
	fmt.Println(parsed.CleanContent)

	if len(reply.PendingActions) > 0 {
		fmt.Println("\nProposed actions:")
		for _, a := range reply.PendingActions {
			printAction(a)
		}
	}

	if len(parsed.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range parsed.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}

	fmt.Printf("\nConversation: %s\n", controller.ConversationID())
	return nil
}

// printAction writes one action with its non-empty parameters.
func printAction(a models.ChatAction) {
	fmt.Printf("  [%s] %s %s — %s (%s)\n", a.ID, a.EntityType.Icon(), a.EntityType.Label(), a.Description, a.Status)
	for _, p := range a.Parameters.Display() {
		fmt.Printf("      %s: %v\n", p.Name, p.Value)
	}
	if a.Result != nil && a.Result.Error != "" {
		fmt.Printf("      error: %s\n", a.Result.Error)
	}
}
