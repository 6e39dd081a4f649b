package vault

import (
	"fmt"
	"strings"
)

// AuthError indicates that establishing an authenticated Azure session failed.
// It is fatal: no vault operation may proceed after it.
type AuthError struct {
	Message string
	Err     error
}

func (e AuthError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
	return "authentication failed: " + e.Message
}

func (e AuthError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates a missing vault or secret. Name is empty when the
// vault itself was not found.
type NotFoundError struct {
	Vault string
	Name  string
}

func (e NotFoundError) Error() string {
	if e.Name == "" {
		return "vault not found: " + e.Vault
	}
	return fmt.Sprintf("secret not found: %s in vault %s", e.Name, e.Vault)
}

// AmbiguousVaultError indicates a vault name pattern matched more than one
// vault and the caller did not disambiguate.
type AmbiguousVaultError struct {
	Pattern string
	Matches []string
}

func (e AmbiguousVaultError) Error() string {
	return fmt.Sprintf("vault pattern %q matches %d vaults: %s",
		e.Pattern, len(e.Matches), strings.Join(e.Matches, ", "))
}

// ProviderError surfaces an opaque failure from the Azure transport verbatim,
// attached to the operation and secret it came from.
type ProviderError struct {
	Op     string // "list", "get", "set", "list-vaults"
	Vault  string
	Name   string
	Detail string // provider diagnostic text (stderr or SDK error)
	Err    error
}

func (e ProviderError) Error() string {
	msg := fmt.Sprintf("vault %s failed", e.Op)
	if e.Name != "" {
		msg += " for secret " + e.Name
	}
	if e.Vault != "" {
		msg += " in vault " + e.Vault
	}
	if e.Detail != "" {
		msg += ": " + strings.TrimSpace(e.Detail)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ProviderError) Unwrap() error {
	return e.Err
}
