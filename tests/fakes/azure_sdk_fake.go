package fakes

import (
	"context"
	"net/http"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// FakeSecretsClient is an in-memory stand-in for the azsecrets data plane.
// It implements azure.SecretsAPI and azure.SecretNameLister.
type FakeSecretsClient struct {
	// Secrets maps secret names to their current state.
	Secrets map[string]FakeSecret

	// Errors maps secret names to errors returned by GetSecret/SetSecret.
	Errors map[string]error

	// SetCalls records SetSecret invocations by name.
	SetCalls []string
}

// FakeSecret holds the state of one mocked secret.
type FakeSecret struct {
	Value string
	Tags  map[string]*string
}

// NewFakeSecretsClient creates an empty fake secrets client.
func NewFakeSecretsClient() *FakeSecretsClient {
	return &FakeSecretsClient{
		Secrets: make(map[string]FakeSecret),
		Errors:  make(map[string]error),
	}
}

// AddSecret seeds a secret with optional tags.
func (f *FakeSecretsClient) AddSecret(name, value string, tags map[string]string) {
	ptrTags := make(map[string]*string, len(tags))
	for k, v := range tags {
		ptrTags[k] = to.Ptr(v)
	}
	f.Secrets[name] = FakeSecret{Value: value, Tags: ptrTags}
}

// NotFoundResponseError builds the 404 response error the SDK surfaces for a
// missing secret.
func NotFoundResponseError() *azcore.ResponseError {
	return &azcore.ResponseError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "SecretNotFound",
	}
}

// GetSecret returns a seeded secret or an injected error.
func (f *FakeSecretsClient) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	if err, ok := f.Errors[name]; ok {
		return azsecrets.GetSecretResponse{}, err
	}
	secret, ok := f.Secrets[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, NotFoundResponseError()
	}
	return azsecrets.GetSecretResponse{
		Secret: azsecrets.Secret{
			Value: to.Ptr(secret.Value),
			Tags:  secret.Tags,
		},
	}, nil
}

// SetSecret stores the secret or returns an injected error.
func (f *FakeSecretsClient) SetSecret(ctx context.Context, name string, parameters azsecrets.SetSecretParameters, options *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error) {
	f.SetCalls = append(f.SetCalls, name)
	if err, ok := f.Errors[name]; ok {
		return azsecrets.SetSecretResponse{}, err
	}
	secret := FakeSecret{Tags: parameters.Tags}
	if parameters.Value != nil {
		secret.Value = *parameters.Value
	}
	f.Secrets[name] = secret
	return azsecrets.SetSecretResponse{
		Secret: azsecrets.Secret{
			Value: parameters.Value,
			Tags:  parameters.Tags,
		},
	}, nil
}

// ListSecretNames enumerates seeded secret names in sorted order.
func (f *FakeSecretsClient) ListSecretNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.Secrets))
	for name := range f.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
