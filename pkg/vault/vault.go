// Package vault defines the client interface and types for Azure Key Vault access.
//
// The Client interface abstracts the vault transport so the transfer engine can
// run against the az CLI, the Azure SDK, or an in-memory fake in tests. All
// implementations address secrets by vault name and secret name; versioning is
// out of scope for sync operations, which always act on the current version.
package vault

import "context"

// SecretRecord is a single secret as it exists in a vault or in the local
// secrets file. Name is never empty. Tags may be nil when the secret carries
// no tags.
type SecretRecord struct {
	Name  string
	Value string
	Tags  map[string]string
}

// Client provides access to Key Vault secrets. Implementations must support
// context cancellation on every call and must never log secret values.
type Client interface {
	// ListVaults enumerates the vault names visible to the active subscription.
	ListVaults(ctx context.Context) ([]string, error)

	// ListSecretNames enumerates the secret names in the given vault.
	ListSecretNames(ctx context.Context, vaultName string) ([]string, error)

	// GetSecret fetches the current version of a secret, including its tags.
	// Returns NotFoundError if the secret does not exist.
	GetSecret(ctx context.Context, vaultName, name string) (SecretRecord, error)

	// GetTags fetches only the tags of a secret. Returns an empty map for an
	// untagged secret and NotFoundError if the secret does not exist.
	GetTags(ctx context.Context, vaultName, name string) (map[string]string, error)

	// SetSecret writes a secret value, overwriting any existing value. Tags are
	// applied only when non-empty.
	SetSecret(ctx context.Context, vaultName, name, value string, tags map[string]string) error
}
