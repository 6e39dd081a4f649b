package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterPlainOutput(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	p := NewPrinterWithWriter(out, true)

	p.Successf("Pushed %d secrets to %s", 3, "team-kv")
	p.Errorf("✗ %s: %v", "db-password", "SecretNotFound")
	p.Warnf("%d failed", 1)
	p.Infof("Pulling secrets from vault: %s", "team-kv")
	p.Mutedf("Operation cancelled.")
	p.ListItemf("%s pushed", "db-password")

	got := out.String()
	assert.Contains(t, got, "Pushed 3 secrets to team-kv\n")
	assert.Contains(t, got, "✗ db-password: SecretNotFound\n")
	assert.Contains(t, got, "1 failed\n")
	assert.Contains(t, got, "Pulling secrets from vault: team-kv\n")
	assert.Contains(t, got, "Operation cancelled.\n")
	assert.Contains(t, got, "  db-password pushed\n")
}

func TestPrinterWriter(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	p := NewPrinterWithWriter(out, true)
	assert.Same(t, out, p.Writer().(*bytes.Buffer))
}
