// Package transfer orchestrates the pull and push flows between a Key Vault
// and the local secrets file.
package transfer

import (
	"context"
	"sort"
	"strings"

	"github.com/onmitsuX/key-vault-manager/internal/logging"
	"github.com/onmitsuX/key-vault-manager/internal/match"
	"github.com/onmitsuX/key-vault-manager/internal/ui"
	"github.com/onmitsuX/key-vault-manager/internal/vaultfile"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

// Engine runs pull and push against a vault client. Calls are sequential;
// there is no retry and no concurrency.
type Engine struct {
	client  vault.Client
	logger  *logging.Logger
	printer *ui.Printer
	verbose bool
}

// NewEngine creates a transfer engine.
func NewEngine(client vault.Client, logger *logging.Logger, printer *ui.Printer, verbose bool) *Engine {
	return &Engine{client: client, logger: logger, printer: printer, verbose: verbose}
}

// PullOptions selects what a pull fetches and where it lands.
type PullOptions struct {
	VaultName   string // literal name or pattern with one '*'
	Filename    string
	NamePattern string // optional secret-name filter
	TagFilters  []match.TagExpression
}

// PushOptions selects what a push reads and which vault it targets.
type PushOptions struct {
	VaultName string
	Filename  string
}

// PushFailure records one secret that could not be written.
type PushFailure struct {
	Name string
	Err  error
}

// PushReport aggregates the outcome of a push batch.
type PushReport struct {
	Pushed []string
	Failed []PushFailure
}

// Ok reports whether every entry was written.
func (r *PushReport) Ok() bool {
	return len(r.Failed) == 0
}

// ResolveVault turns a vault name pattern into exactly one vault name. A
// literal name passes through without enumeration. A pattern matching no vault
// is a NotFoundError; matching more than one is an AmbiguousVaultError.
func (e *Engine) ResolveVault(ctx context.Context, pattern string) (string, error) {
	if !strings.Contains(pattern, "*") {
		return pattern, nil
	}

	names, err := e.client.ListVaults(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, name := range names {
		if match.MatchName(name, pattern) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", vault.NotFoundError{Vault: pattern}
	case 1:
		e.logger.Debug("Vault pattern %s resolved to %s", pattern, matches[0])
		return matches[0], nil
	default:
		return "", vault.AmbiguousVaultError{Pattern: pattern, Matches: matches}
	}
}

// Pull fetches the filtered secret set and fully replaces the local file with
// it. Any vault error is fatal and reported with the offending secret name.
func (e *Engine) Pull(ctx context.Context, opts PullOptions) error {
	vaultName, err := e.ResolveVault(ctx, opts.VaultName)
	if err != nil {
		return err
	}

	e.printer.Infof("Pulling secrets from vault: %s", vaultName)

	names, err := e.client.ListSecretNames(ctx, vaultName)
	if err != nil {
		return err
	}
	sort.Strings(names)

	doc := vaultfile.Document{}
	for _, name := range names {
		if opts.NamePattern != "" && !match.MatchName(name, opts.NamePattern) {
			continue
		}

		if len(opts.TagFilters) > 0 {
			tags, err := e.client.GetTags(ctx, vaultName, name)
			if err != nil {
				return err
			}
			if !match.MatchTags(tags, opts.TagFilters) {
				continue
			}
		}

		record, err := e.client.GetSecret(ctx, vaultName, name)
		if err != nil {
			return err
		}

		entry := vaultfile.Entry{Value: record.Value}
		if len(record.Tags) > 0 {
			entry.Tags = record.Tags
		}
		doc[name] = entry

		if e.verbose {
			e.printer.ListItemf("%s = %s", name, record.Value)
		} else {
			e.printer.ListItemf("%s (value hidden)", name)
		}
	}

	if err := vaultfile.Write(opts.Filename, doc); err != nil {
		return err
	}

	e.printer.Successf("Pulled %d secrets from %s to %s", len(doc), vaultName, opts.Filename)
	return nil
}

// Push reads the secrets file and writes every entry to the vault. The batch
// continues past individual failures and aggregates them in the report; only
// a broken file or vault resolution stops it before any write.
func (e *Engine) Push(ctx context.Context, opts PushOptions) (*PushReport, error) {
	doc, err := vaultfile.Read(opts.Filename)
	if err != nil {
		return nil, err
	}

	vaultName, err := e.ResolveVault(ctx, opts.VaultName)
	if err != nil {
		return nil, err
	}

	e.printer.Infof("Pushing %d secrets to vault: %s", len(doc), vaultName)

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &PushReport{}
	for _, name := range names {
		entry := doc[name]
		if err := e.client.SetSecret(ctx, vaultName, name, entry.Value, entry.Tags); err != nil {
			e.printer.Errorf("✗ %s: %v", name, err)
			report.Failed = append(report.Failed, PushFailure{Name: name, Err: err})
			continue
		}
		e.printer.ListItemf("%s pushed", name)
		report.Pushed = append(report.Pushed, name)
	}

	if report.Ok() {
		e.printer.Successf("Pushed %d secrets to %s", len(report.Pushed), vaultName)
	} else {
		e.printer.Warnf("Pushed %d secrets to %s, %d failed", len(report.Pushed), vaultName, len(report.Failed))
	}
	return report, nil
}
