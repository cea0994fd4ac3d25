package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/planhub/sitechat-go/internal/auth"
)

var authToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the backend access token",
	Long: `Store or remove the bearer token used to talk to the backend.
Tokens are kept in the operating system keyring, one per server.

Examples:
  sitechat auth login
  sitechat auth login --token "$PLANHUB_TOKEN"
  sitechat auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a backend token",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored backend token",
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "token value (prompted when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	token := authToken
	if token == "" {
		fmt.Fprintf(os.Stderr, "Token for %s: ", cfg.ServerURL)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}

	if err := tokens.SetToken(cfg.ServerURL, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Printf("Token stored for %s.\n", auth.NormalizeEndpoint(cfg.ServerURL))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	err := tokens.DeleteToken(cfg.ServerURL)
	if errors.Is(err, auth.ErrTokenNotFound) {
		fmt.Println("No token stored.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	fmt.Println("Token removed.")
	return nil
}
