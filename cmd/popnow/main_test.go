package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate", "seed"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestMigrateRejectsUnknownSubcommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "down"})

	err := root.Execute()
	assert.Error(t, err)
}

func TestSeedRequiresName(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"seed"})

	assert.Error(t, root.Execute())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("POPNOW_PORT", "9000")
	t.Setenv("POPNOW_MIGRATIONS", "from-env")

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--port", "7000"}))

	opts := &rootOptions{port: 7000}
	cfg, err := opts.loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.AppPort)
	assert.Equal(t, "from-env", cfg.MigrationDir)
}
