package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onmitsuX/key-vault-manager/internal/azure"
	"github.com/onmitsuX/key-vault-manager/internal/config"
	kverrors "github.com/onmitsuX/key-vault-manager/internal/errors"
	"github.com/onmitsuX/key-vault-manager/internal/match"
	"github.com/onmitsuX/key-vault-manager/internal/session"
	"github.com/onmitsuX/key-vault-manager/internal/transfer"
	kvexec "github.com/onmitsuX/key-vault-manager/pkg/exec"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

type syncOptions struct {
	direction    string
	vaultName    string
	filename     string
	tags         []string
	namePattern  string
	subscription string
	verbose      bool
}

func registerSyncFlags(cmd *cobra.Command, opts *syncOptions) {
	cmd.Flags().StringVar(&opts.direction, "direction", "", "Transfer direction: pull or push (required)")
	cmd.Flags().StringVar(&opts.vaultName, "vaultname", "", "Key Vault name, may contain one '*' wildcard (default: $"+config.EnvVaultName+")")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "Secrets file path (JSON)")
	cmd.Flags().StringArrayVar(&opts.tags, "tags", nil, "Tag filter in key=='value' form, repeatable (pull only)")
	cmd.Flags().StringVar(&opts.namePattern, "name", "", "Secret name or name pattern to pull (pull only)")
	cmd.Flags().StringVar(&opts.subscription, "subscription", "", "Azure subscription ID (default: $"+config.EnvSubscriptionID+")")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Show secret values in the terminal when pulling")

	_ = cmd.MarkFlagRequired("direction")
}

func runSync(ctx context.Context, cfg *config.Config, opts *syncOptions) error {
	if opts.direction != "pull" && opts.direction != "push" {
		return kverrors.UserError{
			Message:    fmt.Sprintf("Invalid direction: %q", opts.direction),
			Suggestion: "Use --direction pull or --direction push",
		}
	}

	if err := cfg.Load(); err != nil {
		return err
	}

	vaultName, err := cfg.ResolveVaultName(opts.vaultName)
	if err != nil {
		return err
	}
	filename, err := cfg.ResolveFilename(opts.filename)
	if err != nil {
		return err
	}
	subscription := cfg.ResolveSubscription(opts.subscription)

	if err := match.ValidatePattern(vaultName); err != nil {
		return err
	}
	if err := match.ValidatePattern(opts.namePattern); err != nil {
		return err
	}

	tagFilters, err := match.ParseTagExpressions(opts.tags)
	if err != nil {
		return err
	}

	if opts.direction == "push" {
		if len(tagFilters) > 0 {
			return kverrors.UserError{
				Message:    "--tags only applies to pull",
				Suggestion: "Push writes every entry in the file; edit the file to select secrets",
			}
		}
		if opts.namePattern != "" {
			return kverrors.UserError{
				Message:    "--name only applies to pull",
				Suggestion: "Push writes every entry in the file; edit the file to select secrets",
			}
		}
	}

	executor := kvexec.DefaultExecutor()
	if _, err := session.NewManager(executor, cfg.Logger).Ensure(ctx, subscription); err != nil {
		return decorate(err)
	}

	if !cfg.AssumeYes && !confirmAction(os.Stdin, cfg.Printer.Writer(), opts.direction, vaultName) {
		cfg.Printer.Mutedf("Operation cancelled.")
		return nil
	}

	client := buildClient(cfg, executor)
	engine := transfer.NewEngine(client, cfg.Logger, cfg.Printer, opts.verbose)

	switch opts.direction {
	case "pull":
		return decorate(engine.Pull(ctx, transfer.PullOptions{
			VaultName:   vaultName,
			Filename:    filename,
			NamePattern: opts.namePattern,
			TagFilters:  tagFilters,
		}))
	default:
		report, err := engine.Push(ctx, transfer.PushOptions{
			VaultName: vaultName,
			Filename:  filename,
		})
		if err != nil {
			return decorate(err)
		}
		if !report.Ok() {
			return kverrors.UserError{
				Message:    fmt.Sprintf("%d of %d secrets failed to push", len(report.Failed), len(report.Failed)+len(report.Pushed)),
				Suggestion: "Fix the failing entries and push again; successful entries are already in the vault",
			}
		}
		return nil
	}
}

// buildClient selects the vault transport. The SDK transport still uses the
// az CLI for vault discovery.
func buildClient(cfg *config.Config, executor kvexec.CommandExecutor) vault.Client {
	cli := azure.NewCLIClient(executor, cfg.Logger)
	if cfg.UseSDK {
		return azure.NewSDKClient(cli, cfg.Logger)
	}
	return cli
}

// decorate attaches a next-step suggestion to transport errors before they
// surface at the command boundary.
func decorate(err error) error {
	if err == nil {
		return nil
	}
	var provErr vault.ProviderError
	var authErr vault.AuthError
	if errors.As(err, &provErr) || errors.As(err, &authErr) {
		return kverrors.UserError{Err: err, Suggestion: kverrors.AzureSuggestion(err)}
	}
	return err
}

// confirmAction asks for a y/n answer before touching a vault. Anything other
// than y declines.
func confirmAction(in io.Reader, out io.Writer, action, vaultName string) bool {
	fmt.Fprintf(out, "Are you sure you want to %s secrets in the vault '%s'? [y/n]: ", action, vaultName)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
