// Package config holds the runtime configuration for one invocation and the
// layering of defaults: command-line flags override environment variables,
// which override the optional kvsync.yaml file. A .env file in the working
// directory is loaded into the environment first.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	kverrors "github.com/onmitsuX/key-vault-manager/internal/errors"
	"github.com/onmitsuX/key-vault-manager/internal/logging"
	"github.com/onmitsuX/key-vault-manager/internal/ui"
)

// DefaultPath is the optional defaults file looked up in the working directory.
const DefaultPath = "kvsync.yaml"

// Environment variables honored as defaults.
const (
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	EnvVaultName      = "AZURE_KEYVAULT_NAME"
)

// Defaults are the values a kvsync.yaml file may pre-set.
type Defaults struct {
	VaultName    string `yaml:"vaultname"`
	Subscription string `yaml:"subscription"`
	Filename     string `yaml:"filename"`
}

// Config is the runtime configuration threaded through the commands.
type Config struct {
	Path      string
	Logger    *logging.Logger
	Printer   *ui.Printer
	Debug     bool
	NoColor   bool
	AssumeYes bool
	UseSDK    bool
	Defaults  Defaults
}

// Load reads the optional .env and defaults files and overlays environment
// variables. Missing files are not errors; a broken defaults file is.
func (c *Config) Load() error {
	// Hydrates AZURE_* variables for local development. Missing .env is fine.
	_ = godotenv.Load()

	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &c.Defaults); err != nil {
			return kverrors.ConfigError{
				Field:      "defaults",
				Value:      path,
				Message:    fmt.Sprintf("invalid YAML: %v", err),
				Suggestion: "Check for indentation errors and missing quotes",
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := os.Getenv(EnvVaultName); v != "" {
		c.Defaults.VaultName = v
	}
	if v := os.Getenv(EnvSubscriptionID); v != "" {
		c.Defaults.Subscription = v
	}
	return nil
}

// ResolveVaultName applies flag-over-default precedence for the vault name.
func (c *Config) ResolveVaultName(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.Defaults.VaultName != "" {
		return c.Defaults.VaultName, nil
	}
	return "", kverrors.ConfigError{
		Field:      "vaultname",
		Message:    "no vault name provided",
		Suggestion: "Use --vaultname, set " + EnvVaultName + ", or add 'vaultname' to " + DefaultPath,
	}
}

// ResolveSubscription applies flag-over-default precedence for the
// subscription ID. An empty result means the active az subscription is kept.
func (c *Config) ResolveSubscription(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return c.Defaults.Subscription
}

// ResolveFilename applies flag-over-default precedence for the secrets file.
func (c *Config) ResolveFilename(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.Defaults.Filename != "" {
		return c.Defaults.Filename, nil
	}
	return "", kverrors.ConfigError{
		Field:      "filename",
		Message:    "no secrets file provided",
		Suggestion: "Use --filename or add 'filename' to " + DefaultPath,
	}
}
