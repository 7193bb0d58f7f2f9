package config

import (
	"os"
	"path/filepath"
	"testing"

	"gpause/manager"
	"gpause/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gpause.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.True(t, cfg.Inspector.RequireWindow)
	assert.Equal(t, "minimize", cfg.Window.OnPause)
	assert.Equal(t, "restore", cfg.Window.OnResume)
	assert.Equal(t, "/proc", cfg.Procfs.Root)
	assert.Equal(t, manager.DefaultPolicy, cfg.Policy())
	assert.Equal(t, process.DefaultDenylist().Len(), cfg.DenylistSet().Len())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
denylist:
  names: [steam, discord]
  extra: [obs]
inspector:
  require_window: false
window:
  on_pause: none
  on_resume: restore
procfs:
  root: /host/proc
`)

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	deny := cfg.DenylistSet()
	assert.Equal(t, []string{"discord", "obs", "steam"}, deny.Names())
	assert.False(t, deny.Contains("explorer"), "names replace the built-in list")
	assert.False(t, cfg.Inspector.RequireWindow)
	assert.Equal(t, manager.Policy{MinimizeOnPause: false, RestoreOnResume: true}, cfg.Policy())
	assert.Equal(t, "/host/proc", cfg.Procfs.Root)
}

func TestLoad_ExtraKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "denylist:\n  extra: [obs]\n")

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	deny := cfg.DenylistSet()
	assert.True(t, deny.Contains("obs"))
	assert.True(t, deny.Contains("explorer"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "window:\n  on_pause: minimize\n")
	t.Setenv("GPAUSE_WINDOW_ON_PAUSE", "none")

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Window.OnPause)
	assert.False(t, cfg.Policy().MinimizeOnPause)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"on_pause", "window:\n  on_pause: hide\n", "window.on_pause"},
		{"on_resume", "window:\n  on_resume: maximize\n", "window.on_resume"},
		{"yaml", "window: [\n", "reading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().WithConfigFile(writeConfig(t, tt.body)).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader().WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	assert.Error(t, err)
}
