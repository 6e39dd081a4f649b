// Package fakes provides in-memory test doubles for kvsync.
package fakes

import (
	"context"
	"sort"

	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

// FakeVaultClient is an in-memory vault.Client. Vaults map vault names to
// their secrets by name. Errors can be injected per secret name.
type FakeVaultClient struct {
	Vaults map[string]map[string]vault.SecretRecord

	// GetErrors maps secret names to errors returned by GetSecret/GetTags.
	GetErrors map[string]error
	// SetErrors maps secret names to errors returned by SetSecret.
	SetErrors map[string]error
	// ListVaultsErr is returned by ListVaults when set.
	ListVaultsErr error

	// SetCalls records every SetSecret invocation in order.
	SetCalls []SetCall
}

// SetCall records one SetSecret invocation.
type SetCall struct {
	Vault string
	Name  string
	Value string
	Tags  map[string]string
}

// NewFakeVaultClient creates an empty fake.
func NewFakeVaultClient() *FakeVaultClient {
	return &FakeVaultClient{
		Vaults:    make(map[string]map[string]vault.SecretRecord),
		GetErrors: make(map[string]error),
		SetErrors: make(map[string]error),
	}
}

// AddSecret seeds a secret into a vault, creating the vault when needed.
func (f *FakeVaultClient) AddSecret(vaultName string, record vault.SecretRecord) {
	if f.Vaults[vaultName] == nil {
		f.Vaults[vaultName] = make(map[string]vault.SecretRecord)
	}
	f.Vaults[vaultName][record.Name] = record
}

// AddVault seeds an empty vault.
func (f *FakeVaultClient) AddVault(vaultName string) {
	if f.Vaults[vaultName] == nil {
		f.Vaults[vaultName] = make(map[string]vault.SecretRecord)
	}
}

// ListVaults enumerates seeded vault names in sorted order.
func (f *FakeVaultClient) ListVaults(ctx context.Context) ([]string, error) {
	if f.ListVaultsErr != nil {
		return nil, f.ListVaultsErr
	}
	names := make([]string, 0, len(f.Vaults))
	for name := range f.Vaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListSecretNames enumerates secret names in sorted order.
func (f *FakeVaultClient) ListSecretNames(ctx context.Context, vaultName string) ([]string, error) {
	secrets, ok := f.Vaults[vaultName]
	if !ok {
		return nil, vault.NotFoundError{Vault: vaultName}
	}
	names := make([]string, 0, len(secrets))
	for name := range secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetSecret returns a seeded secret or an injected error.
func (f *FakeVaultClient) GetSecret(ctx context.Context, vaultName, name string) (vault.SecretRecord, error) {
	if err, ok := f.GetErrors[name]; ok {
		return vault.SecretRecord{}, err
	}
	secrets, ok := f.Vaults[vaultName]
	if !ok {
		return vault.SecretRecord{}, vault.NotFoundError{Vault: vaultName}
	}
	record, ok := secrets[name]
	if !ok {
		return vault.SecretRecord{}, vault.NotFoundError{Vault: vaultName, Name: name}
	}
	return record, nil
}

// GetTags returns a seeded secret's tags or an injected error.
func (f *FakeVaultClient) GetTags(ctx context.Context, vaultName, name string) (map[string]string, error) {
	record, err := f.GetSecret(ctx, vaultName, name)
	if err != nil {
		return nil, err
	}
	if record.Tags == nil {
		return map[string]string{}, nil
	}
	return record.Tags, nil
}

// SetSecret records the call and stores the secret, or returns an injected error.
func (f *FakeVaultClient) SetSecret(ctx context.Context, vaultName, name, value string, tags map[string]string) error {
	f.SetCalls = append(f.SetCalls, SetCall{Vault: vaultName, Name: name, Value: value, Tags: tags})
	if err, ok := f.SetErrors[name]; ok {
		return err
	}
	f.AddSecret(vaultName, vault.SecretRecord{Name: name, Value: value, Tags: tags})
	return nil
}
