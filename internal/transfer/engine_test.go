package transfer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onmitsuX/key-vault-manager/internal/logging"
	"github.com/onmitsuX/key-vault-manager/internal/match"
	"github.com/onmitsuX/key-vault-manager/internal/transfer"
	"github.com/onmitsuX/key-vault-manager/internal/ui"
	"github.com/onmitsuX/key-vault-manager/internal/vaultfile"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
	"github.com/onmitsuX/key-vault-manager/tests/fakes"
)

func newEngine(client vault.Client, verbose bool) (*transfer.Engine, *bytes.Buffer) {
	out := &bytes.Buffer{}
	logger := logging.NewWithWriter(&bytes.Buffer{}, false, true)
	printer := ui.NewPrinterWithWriter(out, true)
	return transfer.NewEngine(client, logger, printer, verbose), out
}

func tempFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "secrets.json")
}

func TestResolveVaultLiteralName(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	engine, _ := newEngine(client, false)

	// A literal name passes through without enumerating vaults.
	client.ListVaultsErr = errors.New("should not be called")
	name, err := engine.ResolveVault(context.Background(), "my-vault")
	require.NoError(t, err)
	assert.Equal(t, "my-vault", name)
}

func TestResolveVaultSingleMatch(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddVault("proj-a-kv")
	client.AddVault("team-b-kv")
	engine, _ := newEngine(client, false)

	name, err := engine.ResolveVault(context.Background(), "proj-*-kv")
	require.NoError(t, err)
	assert.Equal(t, "proj-a-kv", name)
}

func TestResolveVaultAmbiguous(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddVault("proj-a-kv")
	client.AddVault("proj-b-kv")
	engine, _ := newEngine(client, false)

	_, err := engine.ResolveVault(context.Background(), "proj-*-kv")
	require.Error(t, err)
	var ambiguous vault.AmbiguousVaultError
	require.ErrorAs(t, err, &ambiguous)
	assert.ElementsMatch(t, []string{"proj-a-kv", "proj-b-kv"}, ambiguous.Matches)
}

func TestResolveVaultNoMatch(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddVault("team-b-kv")
	engine, _ := newEngine(client, false)

	_, err := engine.ResolveVault(context.Background(), "proj-*-kv")
	require.Error(t, err)
	var notFound vault.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPullWritesAllSecrets(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddSecret("my-vault", vault.SecretRecord{Name: "A", Value: "x", Tags: map[string]string{"env": "prod"}})
	client.AddSecret("my-vault", vault.SecretRecord{Name: "B", Value: "y"})
	engine, _ := newEngine(client, false)

	path := tempFile(t)
	err := engine.Pull(context.Background(), transfer.PullOptions{VaultName: "my-vault", Filename: path})
	require.NoError(t, err)

	doc, err := vaultfile.Read(path)
	require.NoError(t, err)
	assert.Len(t, doc, 2)
	assert.Equal(t, "x", doc["A"].Value)
	assert.Equal(t, map[string]string{"env": "prod"}, doc["A"].Tags)
	assert.Equal(t, "y", doc["B"].Value)
}

func TestPullTagFilter(t *testing.T) {
	t.Parallel()

	// Vault has A tagged env=prod and B tagged env=dev; pulling with
	// env=='prod' yields only A.
	client := fakes.NewFakeVaultClient()
	client.AddSecret("my-vault", vault.SecretRecord{Name: "A", Value: "x", Tags: map[string]string{"env": "prod"}})
	client.AddSecret("my-vault", vault.SecretRecord{Name: "B", Value: "y", Tags: map[string]string{"env": "dev"}})
	engine, _ := newEngine(client, false)

	path := tempFile(t)
	err := engine.Pull(context.Background(), transfer.PullOptions{
		VaultName:  "my-vault",
		Filename:   path,
		TagFilters: []match.TagExpression{{Key: "env", Value: "prod"}},
	})
	require.NoError(t, err)

	doc, err := vaultfile.Read(path)
	require.NoError(t, err)
	require.Len(t, doc, 1)
	assert.Equal(t, "x", doc["A"].Value)
}

func TestPullNamePatternFilter(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddSecret("my-vault", vault.SecretRecord{Name: "db-password", Value: "x"})
	client.AddSecret("my-vault", vault.SecretRecord{Name: "db-user", Value: "y"})
	client.AddSecret("my-vault", vault.SecretRecord{Name: "api-key", Value: "z"})
	engine, _ := newEngine(client, false)

	path := tempFile(t)
	err := engine.Pull(context.Background(), transfer.PullOptions{
		VaultName:   "my-vault",
		Filename:    path,
		NamePattern: "db-*",
	})
	require.NoError(t, err)

	doc, err := vaultfile.Read(path)
	require.NoError(t, err)
	assert.Len(t, doc, 2)
	assert.Contains(t, doc, "db-password")
	assert.Contains(t, doc, "db-user")
}

func TestPullIdempotent(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddSecret("my-vault", vault.SecretRecord{Name: "A", Value: "x", Tags: map[string]string{"env": "prod"}})
	client.AddSecret("my-vault", vault.SecretRecord{Name: "B", Value: "y"})
	engine, _ := newEngine(client, false)

	first := tempFile(t)
	second := tempFile(t)
	opts := transfer.PullOptions{VaultName: "my-vault", Filename: first}
	require.NoError(t, engine.Pull(context.Background(), opts))
	opts.Filename = second
	require.NoError(t, engine.Pull(context.Background(), opts))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPullFetchErrorIsFatal(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddSecret("my-vault", vault.SecretRecord{Name: "A", Value: "x"})
	client.GetErrors["A"] = vault.ProviderError{Op: "get", Vault: "my-vault", Name: "A", Detail: "throttled"}
	engine, _ := newEngine(client, false)

	path := tempFile(t)
	err := engine.Pull(context.Background(), transfer.PullOptions{VaultName: "my-vault", Filename: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A")

	// The file is not written on a failed pull.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPullVerboseShowsValues(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeVaultClient()
	client.AddSecret("my-vault", vault.SecretRecord{Name: "A", Value: "s3cret"})

	engine, out := newEngine(client, true)
	require.NoError(t, engine.Pull(context.Background(), transfer.PullOptions{VaultName: "my-vault", Filename: tempFile(t)}))
	assert.Contains(t, out.String(), "s3cret")

	engine, out = newEngine(client, false)
	require.NoError(t, engine.Pull(context.Background(), transfer.PullOptions{VaultName: "my-vault", Filename: tempFile(t)}))
	assert.NotContains(t, out.String(), "s3cret")
	assert.Contains(t, out.String(), "value hidden")
}

func TestPushWritesEveryEntry(t *testing.T) {
	t.Parallel()

	path := tempFile(t)
	require.NoError(t, vaultfile.Write(path, vaultfile.Document{
		"A": {Value: "x", Tags: map[string]string{"env": "prod"}},
		"B": {Value: "y"},
	}))

	client := fakes.NewFakeVaultClient()
	client.AddVault("my-vault")
	engine, _ := newEngine(client, false)

	report, err := engine.Push(context.Background(), transfer.PushOptions{VaultName: "my-vault", Filename: path})
	require.NoError(t, err)
	assert.True(t, report.Ok())
	assert.Equal(t, []string{"A", "B"}, report.Pushed)

	record, err := client.GetSecret(context.Background(), "my-vault", "A")
	require.NoError(t, err)
	assert.Equal(t, "x", record.Value)
	assert.Equal(t, map[string]string{"env": "prod"}, record.Tags)
}

func TestPushContinuesPastFailures(t *testing.T) {
	t.Parallel()

	path := tempFile(t)
	require.NoError(t, vaultfile.Write(path, vaultfile.Document{
		"A": {Value: "x"},
		"B": {Value: "y"},
		"C": {Value: "z"},
	}))

	client := fakes.NewFakeVaultClient()
	client.AddVault("my-vault")
	client.SetErrors["B"] = vault.ProviderError{Op: "set", Vault: "my-vault", Name: "B", Detail: "invalid name"}
	engine, _ := newEngine(client, false)

	report, err := engine.Push(context.Background(), transfer.PushOptions{VaultName: "my-vault", Filename: path})
	require.NoError(t, err)
	assert.False(t, report.Ok())
	assert.Equal(t, []string{"A", "C"}, report.Pushed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "B", report.Failed[0].Name)

	// The batch reached every entry despite the failure.
	assert.Len(t, client.SetCalls, 3)
}

func TestPushMalformedFileMakesNoVaultCalls(t *testing.T) {
	t.Parallel()

	path := tempFile(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"A": }`), 0o600))

	client := fakes.NewFakeVaultClient()
	client.AddVault("my-vault")
	engine, _ := newEngine(client, false)

	_, err := engine.Push(context.Background(), transfer.PushOptions{VaultName: "my-vault", Filename: path})
	require.Error(t, err)
	var malformed vaultfile.MalformedFileError
	assert.ErrorAs(t, err, &malformed)
	assert.Empty(t, client.SetCalls)
}

func TestPullThenPushRoundTrip(t *testing.T) {
	t.Parallel()

	source := fakes.NewFakeVaultClient()
	source.AddSecret("my-vault", vault.SecretRecord{Name: "A", Value: "x", Tags: map[string]string{"env": "prod"}})
	source.AddSecret("my-vault", vault.SecretRecord{Name: "B", Value: "y"})
	pullEngine, _ := newEngine(source, false)

	path := tempFile(t)
	require.NoError(t, pullEngine.Pull(context.Background(), transfer.PullOptions{VaultName: "my-vault", Filename: path}))

	target := fakes.NewFakeVaultClient()
	target.AddVault("my-vault")
	pushEngine, _ := newEngine(target, false)

	report, err := pushEngine.Push(context.Background(), transfer.PushOptions{VaultName: "my-vault", Filename: path})
	require.NoError(t, err)
	require.True(t, report.Ok())

	for _, name := range []string{"A", "B"} {
		want, err := source.GetSecret(context.Background(), "my-vault", name)
		require.NoError(t, err)
		got, err := target.GetSecret(context.Background(), "my-vault", name)
		require.NoError(t, err)
		assert.Equal(t, want.Value, got.Value)
	}
}
