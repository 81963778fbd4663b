package registry_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/registry"
)

func TestParseConfig(t *testing.T) {
	cfg, err := registry.ParseConfig([]byte(`
resources: /var/lib/vis/resources
versions:
  - 3-4a
  - 3-5a
maxTraversalOccurrence: 2
cache:
  localIdCapacity: 1024
  localIdTTL: 5m
`))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/vis/resources", cfg.Resources)
	assert.Equal(t, []string{"3-4a", "3-5a"}, cfg.Versions)
	assert.Equal(t, 2, cfg.MaxTraversalOccurrence)
	assert.Equal(t, 1024, cfg.Cache.LocalIdCapacity)
	assert.Equal(t, registry.Duration(5*time.Minute), cfg.Cache.LocalIdTTL)
}

func TestParseConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing resources", "versions: [3-4a]"},
		{"unknown version", "resources: /r\nversions: [9-9x]"},
		{"bad duration", "resources: /r\ncache:\n  localIdTTL: soon"},
		{"not yaml", "{"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := registry.ParseConfig([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, verrors.IsConfigurationFault(err), "got: %v", err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources: /var/lib/vis\n"), 0o644))

	cfg, err := registry.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/vis", cfg.Resources)

	_, err = registry.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, verrors.IsConfigurationFault(err))
}
