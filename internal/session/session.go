// Package session establishes an authenticated Azure CLI session before any
// vault operation runs.
package session

import (
	"context"
	"strings"

	"github.com/onmitsuX/key-vault-manager/internal/logging"
	kvexec "github.com/onmitsuX/key-vault-manager/pkg/exec"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

// Context is the authenticated state for one invocation. It is created once
// by Ensure and read-only afterward.
type Context struct {
	SubscriptionID string
	Authenticated  bool
}

// Manager checks and establishes az CLI authentication.
type Manager struct {
	exec   kvexec.CommandExecutor
	logger *logging.Logger
}

// NewManager creates a session manager using the given executor.
func NewManager(executor kvexec.CommandExecutor, logger *logging.Logger) *Manager {
	return &Manager{exec: executor, logger: logger}
}

// Ensure verifies the az CLI is installed and logged in, starting an
// interactive `az login` when it is not, and switches the active subscription
// when one is given. Any failure here is fatal to the whole invocation.
func (m *Manager) Ensure(ctx context.Context, subscriptionID string) (Context, error) {
	if _, err := m.exec.LookPath("az"); err != nil {
		return Context{}, vault.AuthError{
			Message: "Azure CLI 'az' not found in PATH. Install from: https://learn.microsoft.com/cli/azure/install-azure-cli",
			Err:     err,
		}
	}

	if _, _, err := m.exec.Execute(ctx, "az", "account", "show"); err != nil {
		m.logger.Warn("Not logged in to Azure, starting 'az login'")
		if err := m.exec.RunInteractive(ctx, "az", "login"); err != nil {
			return Context{}, vault.AuthError{
				Message: "Azure login failed. Try logging in manually with 'az login'",
				Err:     err,
			}
		}
		m.logger.Info("Azure login successful")
	}

	if subscriptionID != "" {
		m.logger.Debug("Switching to subscription %s", subscriptionID)
		_, stderr, err := m.exec.Execute(ctx, "az", "account", "set", "--subscription", subscriptionID)
		if err != nil {
			return Context{}, vault.AuthError{
				Message: "failed to switch to subscription " + subscriptionID + ": " + strings.TrimSpace(string(stderr)),
				Err:     err,
			}
		}
		m.logger.Debug("Subscription switched")
	}

	return Context{SubscriptionID: subscriptionID, Authenticated: true}, nil
}
