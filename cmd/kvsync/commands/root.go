package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onmitsuX/key-vault-manager/internal/config"
	"github.com/onmitsuX/key-vault-manager/internal/logging"
	"github.com/onmitsuX/key-vault-manager/internal/ui"
)

// BuildInfo carries the ldflags-injected version identifiers.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand builds the kvsync command tree. The root command itself runs
// the pull/push transfer; subcommands cover vault discovery, login, and
// completion.
func NewRootCommand(info BuildInfo) *cobra.Command {
	cfg := &config.Config{}
	opts := &syncOptions{}

	rootCmd := &cobra.Command{
		Use:   "kvsync",
		Short: "Sync secrets between Azure Key Vault and a local JSON file",
		Long: `kvsync pulls secrets from an Azure Key Vault into a local JSON file and
pushes them back, with optional filtering by tags and name patterns.

The vault name may contain a single '*' wildcard, resolved against the vaults
visible to the active subscription. Authentication reuses your az CLI session,
starting 'az login' when none exists.

Examples:
  # Pull every secret into secrets.json
  kvsync --direction pull --vaultname my-vault --filename secrets.json

  # Pull only production secrets, showing values
  kvsync --direction pull --vaultname my-vault --filename secrets.json \
    --tags "env=='prod'" --verbose

  # Push a file into a vault resolved by pattern
  kvsync --direction push --vaultname "proj-*-kv" --filename secrets.json --yes`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Logger = logging.New(cfg.Debug, cfg.NoColor)
			cfg.Printer = ui.NewPrinter(cfg.NoColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), cfg, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Path, "config", config.DefaultPath, "Defaults file path")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&cfg.AssumeYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.PersistentFlags().BoolVar(&cfg.UseSDK, "use-sdk", false, "Use the Azure SDK data plane instead of the az CLI for secret operations")

	registerSyncFlags(rootCmd, opts)

	rootCmd.AddCommand(
		NewVaultsCommand(cfg),
		NewLoginCommand(cfg),
		NewCompletionCommand(cfg),
	)

	return rootCmd
}
