package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var actionsConversation string

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Approve or reject proposed actions",
	Long: `Decide on actions the assistant proposed in a conversation.

An action is applied exactly once: approving an already executed or
rejected action fails. A previously failed action can be retried.

Examples:
  sitechat actions approve act-17 -c conv-81 -p site-42
  sitechat actions reject act-17 -c conv-81 -p site-42`,
}

var actionsApproveCmd = &cobra.Command{
	Use:   "approve <action-id>",
	Short: "Approve an action and execute it",
	Args:  cobra.ExactArgs(1),
	RunE:  runApproveAction,
}

var actionsRejectCmd = &cobra.Command{
	Use:   "reject <action-id>",
	Short: "Reject an action without executing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRejectAction,
}

func init() {
	actionsCmd.PersistentFlags().StringVarP(&actionsConversation, "conversation", "c", "", "conversation containing the action (required)")

	actionsCmd.AddCommand(actionsApproveCmd)
	actionsCmd.AddCommand(actionsRejectCmd)
}

func runApproveAction(cmd *cobra.Command, args []string) error {
	return decideAction(args[0], true)
}

func runRejectAction(cmd *cobra.Command, args []string) error {
	return decideAction(args[0], false)
}

func decideAction(actionID string, approve bool) error {
	if err := requireProject(); err != nil {
		return err
	}
	if actionsConversation == "" {
		return fmt.Errorf("--conversation is required")
	}
	ctx := context.Background()

	if err := controller.LoadConversation(ctx, actionsConversation); err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	var err error
	if approve {
		_, err = controller.ExecuteAction(ctx, actionID)
	} else {
		_, err = controller.RejectAction(ctx, actionID)
	}
	if err != nil {
		return err
	}

	updated, _, ok := controller.Store().FindAction(actionID)
	if !ok {
		return fmt.Errorf("action %s missing after update", actionID)
	}
	printAction(updated)
	return nil
}
