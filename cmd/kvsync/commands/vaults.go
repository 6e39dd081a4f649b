package commands

import (
	"github.com/spf13/cobra"

	"github.com/onmitsuX/key-vault-manager/internal/azure"
	"github.com/onmitsuX/key-vault-manager/internal/config"
	"github.com/onmitsuX/key-vault-manager/internal/match"
	"github.com/onmitsuX/key-vault-manager/internal/session"
	kvexec "github.com/onmitsuX/key-vault-manager/pkg/exec"
)

// NewVaultsCommand lists the vaults visible to the active subscription,
// optionally filtered by a wildcard pattern. Useful for checking what a
// --vaultname pattern would match before pulling.
func NewVaultsCommand(cfg *config.Config) *cobra.Command {
	var subscription string

	cmd := &cobra.Command{
		Use:   "vaults [pattern]",
		Short: "List Key Vaults visible to the active subscription",
		Long: `List the Key Vaults your az session can see, optionally filtered by a
name pattern with a single '*' wildcard.

Examples:
  kvsync vaults
  kvsync vaults "proj-*-kv"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			if err := match.ValidatePattern(pattern); err != nil {
				return err
			}

			if err := cfg.Load(); err != nil {
				return err
			}

			executor := kvexec.DefaultExecutor()
			manager := session.NewManager(executor, cfg.Logger)
			if _, err := manager.Ensure(cmd.Context(), cfg.ResolveSubscription(subscription)); err != nil {
				return err
			}

			client := azure.NewCLIClient(executor, cfg.Logger)
			names, err := client.ListVaults(cmd.Context())
			if err != nil {
				return err
			}

			shown := 0
			for _, name := range names {
				if pattern != "" && !match.MatchName(name, pattern) {
					continue
				}
				cfg.Printer.ListItemf("%s", name)
				shown++
			}
			if shown == 0 {
				cfg.Printer.Mutedf("No vaults matched.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subscription, "subscription", "", "Azure subscription ID (default: $"+config.EnvSubscriptionID+")")

	return cmd
}
