package commands

import (
	"github.com/spf13/cobra"

	"github.com/onmitsuX/key-vault-manager/internal/config"
	"github.com/onmitsuX/key-vault-manager/internal/session"
	kvexec "github.com/onmitsuX/key-vault-manager/pkg/exec"
)

// NewLoginCommand runs the session check on its own: verifies the az CLI is
// installed and authenticated, starts 'az login' when it is not, and switches
// the active subscription when one is given.
func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var subscription string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check or establish the Azure session",
		Long: `Verify the az CLI session used by pull and push. Starts an interactive
'az login' when no session exists.

Examples:
  kvsync login
  kvsync login --subscription 00000000-0000-0000-0000-000000000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			manager := session.NewManager(kvexec.DefaultExecutor(), cfg.Logger)
			sess, err := manager.Ensure(cmd.Context(), cfg.ResolveSubscription(subscription))
			if err != nil {
				return err
			}

			if sess.SubscriptionID != "" {
				cfg.Printer.Successf("Authenticated, subscription %s active", sess.SubscriptionID)
			} else {
				cfg.Printer.Successf("Authenticated")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subscription, "subscription", "", "Azure subscription ID (default: $"+config.EnvSubscriptionID+")")

	return cmd
}
