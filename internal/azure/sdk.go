package azure

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/onmitsuX/key-vault-manager/internal/logging"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

// SecretsAPI is the subset of the azsecrets client used per vault. Narrowed to
// allow mocking in tests; the list pager stays on the concrete client because
// its generic pager type does not mock cleanly.
type SecretsAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
	SetSecret(ctx context.Context, name string, parameters azsecrets.SetSecretParameters, options *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error)
}

// SecretNameLister is implemented by test fakes that cannot expose the
// concrete pager.
type SecretNameLister interface {
	ListSecretNames(ctx context.Context) ([]string, error)
}

// VaultLister enumerates vault names. The data plane cannot list vaults, so
// the SDK client delegates discovery, normally to the az CLI transport.
type VaultLister interface {
	ListVaults(ctx context.Context) ([]string, error)
}

// SDKClient talks to Key Vault through the azsecrets data plane using an
// Azure CLI credential, one client per vault.
type SDKClient struct {
	lister  VaultLister
	logger  *logging.Logger
	cred    azcore.TokenCredential
	clients map[string]SecretsAPI
}

// SDKOption configures an SDKClient.
type SDKOption func(*SDKClient)

// WithSecretsClient injects a per-vault secrets client (for testing).
func WithSecretsClient(vaultName string, api SecretsAPI) SDKOption {
	return func(c *SDKClient) {
		c.clients[vaultName] = api
	}
}

// WithCredential overrides the default Azure CLI credential.
func WithCredential(cred azcore.TokenCredential) SDKOption {
	return func(c *SDKClient) {
		c.cred = cred
	}
}

// NewSDKClient creates an SDK-backed vault client.
func NewSDKClient(lister VaultLister, logger *logging.Logger, opts ...SDKOption) *SDKClient {
	c := &SDKClient{
		lister:  lister,
		logger:  logger,
		clients: make(map[string]SecretsAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// vaultURL renders the data-plane endpoint for a vault name.
func vaultURL(vaultName string) string {
	return fmt.Sprintf("https://%s.vault.azure.net", vaultName)
}

func (c *SDKClient) clientFor(vaultName string) (SecretsAPI, error) {
	if api, ok := c.clients[vaultName]; ok {
		return api, nil
	}

	if c.cred == nil {
		cred, err := azidentity.NewAzureCLICredential(nil)
		if err != nil {
			return nil, vault.AuthError{Message: "failed to create Azure CLI credential", Err: err}
		}
		c.cred = cred
	}

	client, err := azsecrets.NewClient(vaultURL(vaultName), c.cred, nil)
	if err != nil {
		return nil, vault.ProviderError{Op: "get", Vault: vaultName, Detail: "failed to create Key Vault client", Err: err}
	}
	c.clients[vaultName] = client
	return client, nil
}

// ListVaults delegates to the configured vault lister.
func (c *SDKClient) ListVaults(ctx context.Context) ([]string, error) {
	return c.lister.ListVaults(ctx)
}

// ListSecretNames enumerates secret names through the properties pager.
func (c *SDKClient) ListSecretNames(ctx context.Context, vaultName string) ([]string, error) {
	api, err := c.clientFor(vaultName)
	if err != nil {
		return nil, err
	}

	if nl, ok := api.(SecretNameLister); ok {
		return nl.ListSecretNames(ctx)
	}

	client, ok := api.(*azsecrets.Client)
	if !ok {
		return nil, fmt.Errorf("secrets client for vault %s does not support listing", vaultName)
	}

	var names []string
	pager := client.NewListSecretPropertiesPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, c.classifySDK("list", vaultName, "", err)
		}
		for _, props := range page.Value {
			if props.ID != nil {
				names = append(names, props.ID.Name())
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetSecret fetches the current version of a secret.
func (c *SDKClient) GetSecret(ctx context.Context, vaultName, name string) (vault.SecretRecord, error) {
	api, err := c.clientFor(vaultName)
	if err != nil {
		return vault.SecretRecord{}, err
	}

	c.logger.Debug("Fetching secret %s from vault %s via SDK", name, vaultName)
	resp, err := api.GetSecret(ctx, name, "", nil)
	if err != nil {
		return vault.SecretRecord{}, c.classifySDK("get", vaultName, name, err)
	}

	record := vault.SecretRecord{Name: name, Tags: fromPtrTags(resp.Tags)}
	if resp.Value != nil {
		record.Value = *resp.Value
	}
	return record, nil
}

// GetTags fetches a secret's tags. The data plane has no tags-only read, so
// this goes through GetSecret.
func (c *SDKClient) GetTags(ctx context.Context, vaultName, name string) (map[string]string, error) {
	record, err := c.GetSecret(ctx, vaultName, name)
	if err != nil {
		return nil, err
	}
	return record.Tags, nil
}

// SetSecret writes a secret value with optional tags.
func (c *SDKClient) SetSecret(ctx context.Context, vaultName, name, value string, tags map[string]string) error {
	api, err := c.clientFor(vaultName)
	if err != nil {
		return err
	}

	params := azsecrets.SetSecretParameters{Value: to.Ptr(value)}
	if len(tags) > 0 {
		params.Tags = toPtrTags(tags)
	}

	c.logger.Debug("Setting secret %s in vault %s via SDK", name, vaultName)
	if _, err := api.SetSecret(ctx, name, params, nil); err != nil {
		return c.classifySDK("set", vaultName, name, err)
	}
	return nil
}

// classifySDK maps SDK response errors onto the error taxonomy.
func (c *SDKClient) classifySDK(op, vaultName, name string, err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case 404:
			return vault.NotFoundError{Vault: vaultName, Name: name}
		case 401, 403:
			return vault.AuthError{Message: respErr.Error(), Err: err}
		}
	}
	return vault.ProviderError{Op: op, Vault: vaultName, Name: name, Err: err}
}

func fromPtrTags(tags map[string]*string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

func toPtrTags(tags map[string]string) map[string]*string {
	out := make(map[string]*string, len(tags))
	for k, v := range tags {
		out[k] = to.Ptr(v)
	}
	return out
}
