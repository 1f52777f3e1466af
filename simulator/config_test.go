package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// unsetenv removes key for the duration of the test. godotenv does not
// override variables that are already set, even when empty.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestApplyEnvironmentFromFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRIGGER_DB_USER=shifter\nTRIGGER_DB_PASS=secret\n"), 0o600))
	unsetenv(t, "TRIGGER_DB_USER")
	unsetenv(t, "TRIGGER_DB_PASS")

	config := trigger.DefaultConfiguration()
	require.NoError(t, applyEnvironment(&config, envFile))
	assert.Equal(t, "shifter", config.User)
	assert.Equal(t, "secret", config.Passwd)
}

func TestApplyEnvironmentWithoutFile(t *testing.T) {
	t.Setenv("TRIGGER_DB_USER", "reader")
	t.Setenv("TRIGGER_DB_PASS", "")

	config := trigger.DefaultConfiguration()
	config.Passwd = "from-config"
	require.NoError(t, applyEnvironment(&config, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "reader", config.User)
	assert.Equal(t, "from-config", config.Passwd)
}
