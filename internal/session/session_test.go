package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onmitsuX/key-vault-manager/internal/logging"
	"github.com/onmitsuX/key-vault-manager/internal/session"
	"github.com/onmitsuX/key-vault-manager/tests/testutil"
	"github.com/onmitsuX/key-vault-manager/pkg/vault"
)

func newManager(executor *testutil.MockCommandExecutor) *session.Manager {
	return session.NewManager(executor, logging.New(false, true))
}

func TestEnsureAlreadyLoggedIn(t *testing.T) {
	t.Parallel()

	executor := testutil.NewMockCommandExecutor()
	executor.AddJSONResponse("az account show", `{"id": "sub-1"}`)

	sess, err := newManager(executor).Ensure(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Empty(t, sess.SubscriptionID)
	assert.Empty(t, executor.InteractiveCalls)
}

func TestEnsureRunsLoginWhenSessionMissing(t *testing.T) {
	t.Parallel()

	executor := testutil.NewMockCommandExecutor()
	executor.AddErrorResponse("az account show", "Please run 'az login' to setup account.", 1)

	sess, err := newManager(executor).Ensure(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	require.Len(t, executor.InteractiveCalls, 1)
	assert.Equal(t, "az", executor.InteractiveCalls[0].Command)
	assert.Equal(t, []string{"login"}, executor.InteractiveCalls[0].Args)
}

func TestEnsureLoginFailureIsFatal(t *testing.T) {
	t.Parallel()

	executor := testutil.NewMockCommandExecutor()
	executor.AddErrorResponse("az account show", "Please run 'az login' to setup account.", 1)
	executor.InteractiveErr = errors.New("browser flow aborted")

	_, err := newManager(executor).Ensure(context.Background(), "")
	require.Error(t, err)
	var authErr vault.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestEnsureMissingAzBinary(t *testing.T) {
	t.Parallel()

	executor := testutil.NewMockCommandExecutor()
	executor.MissingBinaries = []string{"az"}

	_, err := newManager(executor).Ensure(context.Background(), "")
	require.Error(t, err)
	var authErr vault.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "not found in PATH")
}

func TestEnsureSwitchesSubscription(t *testing.T) {
	t.Parallel()

	executor := testutil.NewMockCommandExecutor()
	executor.AddJSONResponse("az account show", `{"id": "sub-1"}`)
	executor.AddJSONResponse("az account set --subscription sub-2", ``)

	sess, err := newManager(executor).Ensure(context.Background(), "sub-2")
	require.NoError(t, err)
	assert.Equal(t, "sub-2", sess.SubscriptionID)
	assert.Contains(t, executor.Calls(), "az account set --subscription sub-2")
}

func TestEnsureSubscriptionNotFound(t *testing.T) {
	t.Parallel()

	executor := testutil.NewMockCommandExecutor()
	executor.AddJSONResponse("az account show", `{"id": "sub-1"}`)
	executor.AddErrorResponse("az account set --subscription missing",
		"The subscription of 'missing' doesn't exist in cloud 'AzureCloud'.", 1)

	_, err := newManager(executor).Ensure(context.Background(), "missing")
	require.Error(t, err)
	var authErr vault.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "missing")
	assert.Contains(t, authErr.Message, "doesn't exist")
}
