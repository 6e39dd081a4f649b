// Package azure implements the vault.Client interface against Azure Key Vault,
// either through the az CLI or through the Azure SDK data plane.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/onmitsuX/key-vault-manager/internal/logging"
	kvexec "github.com/onmitsuX/key-vault-manager/pkg/exec"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

// CLIClient shells out to the az CLI for every vault operation. This is the
// default transport; it reuses whatever session `az login` established.
type CLIClient struct {
	exec   kvexec.CommandExecutor
	logger *logging.Logger
}

// NewCLIClient creates an az CLI-backed vault client.
func NewCLIClient(executor kvexec.CommandExecutor, logger *logging.Logger) *CLIClient {
	return &CLIClient{exec: executor, logger: logger}
}

// cliSecret is the shape returned by `az keyvault secret show` with the
// name/value/tags query projection.
type cliSecret struct {
	Name  string            `json:"name"`
	Value string            `json:"value"`
	Tags  map[string]string `json:"tags"`
}

// ListVaults enumerates the vault names visible to the active subscription.
func (c *CLIClient) ListVaults(ctx context.Context) ([]string, error) {
	stdout, stderr, err := c.exec.Execute(ctx, "az", "keyvault", "list", "--query", "[].name", "-o", "json")
	if err != nil {
		return nil, vault.ProviderError{Op: "list-vaults", Detail: string(stderr), Err: err}
	}

	var names []string
	if err := json.Unmarshal(stdout, &names); err != nil {
		return nil, vault.ProviderError{Op: "list-vaults", Detail: "unexpected az output: " + err.Error(), Err: err}
	}
	sort.Strings(names)
	return names, nil
}

// ListSecretNames enumerates the secret names in a vault.
func (c *CLIClient) ListSecretNames(ctx context.Context, vaultName string) ([]string, error) {
	stdout, stderr, err := c.exec.Execute(ctx, "az", "keyvault", "secret", "list",
		"--vault-name", vaultName, "--query", "[].name", "-o", "json")
	if err != nil {
		return nil, c.classify("list", vaultName, "", stderr, err)
	}

	var names []string
	if err := json.Unmarshal(stdout, &names); err != nil {
		return nil, vault.ProviderError{Op: "list", Vault: vaultName, Detail: "unexpected az output: " + err.Error(), Err: err}
	}
	sort.Strings(names)
	return names, nil
}

// GetSecret fetches a secret's current value and tags.
func (c *CLIClient) GetSecret(ctx context.Context, vaultName, name string) (vault.SecretRecord, error) {
	c.logger.Debug("Fetching secret %s from vault %s", name, vaultName)

	stdout, stderr, err := c.exec.Execute(ctx, "az", "keyvault", "secret", "show",
		"--vault-name", vaultName, "--name", name,
		"--query", "{name: name, value: value, tags: tags}", "-o", "json")
	if err != nil {
		return vault.SecretRecord{}, c.classify("get", vaultName, name, stderr, err)
	}

	var secret cliSecret
	if err := json.Unmarshal(stdout, &secret); err != nil {
		return vault.SecretRecord{}, vault.ProviderError{
			Op: "get", Vault: vaultName, Name: name,
			Detail: "unexpected az output: " + err.Error(), Err: err,
		}
	}
	if secret.Tags == nil {
		secret.Tags = map[string]string{}
	}
	return vault.SecretRecord{Name: secret.Name, Value: secret.Value, Tags: secret.Tags}, nil
}

// GetTags fetches only a secret's tags.
func (c *CLIClient) GetTags(ctx context.Context, vaultName, name string) (map[string]string, error) {
	stdout, stderr, err := c.exec.Execute(ctx, "az", "keyvault", "secret", "show",
		"--vault-name", vaultName, "--name", name, "--query", "tags", "-o", "json")
	if err != nil {
		return nil, c.classify("get", vaultName, name, stderr, err)
	}

	// az renders untagged secrets as null.
	var tags map[string]string
	if err := json.Unmarshal(stdout, &tags); err != nil {
		return nil, vault.ProviderError{
			Op: "get", Vault: vaultName, Name: name,
			Detail: "unexpected az output: " + err.Error(), Err: err,
		}
	}
	if tags == nil {
		tags = map[string]string{}
	}
	return tags, nil
}

// SetSecret writes a secret value, applying tags when present.
func (c *CLIClient) SetSecret(ctx context.Context, vaultName, name, value string, tags map[string]string) error {
	args := []string{"keyvault", "secret", "set",
		"--vault-name", vaultName, "--name", name, "--value", value}
	if len(tags) > 0 {
		args = append(args, "--tags")
		args = append(args, flattenTags(tags)...)
	}

	if c.logger.DebugEnabled() {
		c.logger.Debug("az %s", logging.Redact(strings.Join(args, " "), []string{value}))
	}
	if _, stderr, err := c.exec.Execute(ctx, "az", args...); err != nil {
		return c.classify("set", vaultName, name, stderr, err)
	}
	return nil
}

// flattenTags renders tags as the space-separated key=value arguments the az
// CLI expects, in stable order.
func flattenTags(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, fmt.Sprintf("%s=%s", k, tags[k]))
	}
	return args
}

// classify maps az stderr text onto the error taxonomy.
func (c *CLIClient) classify(op, vaultName, name string, stderr []byte, err error) error {
	detail := strings.TrimSpace(string(stderr))
	lower := strings.ToLower(detail)

	switch {
	case strings.Contains(lower, "secretnotfound") || strings.Contains(lower, "(notfound)"):
		return vault.NotFoundError{Vault: vaultName, Name: name}
	case name == "" && strings.Contains(lower, "not found"):
		return vault.NotFoundError{Vault: vaultName}
	case strings.Contains(lower, "vault") && strings.Contains(lower, "not found"):
		return vault.NotFoundError{Vault: vaultName}
	case strings.Contains(lower, "az login") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "forbidden") || strings.Contains(lower, "credential"):
		return vault.AuthError{Message: detail, Err: err}
	default:
		return vault.ProviderError{Op: op, Vault: vaultName, Name: name, Detail: detail, Err: err}
	}
}
