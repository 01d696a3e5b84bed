package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("LUZI_TEST_DIR", "/tmp/luzi")

	home, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain path untouched", input: "/var/lib/luzi.db", want: "/var/lib/luzi.db"},
		{name: "tilde expands to home", input: "~/gastos.db", want: filepath.Join(home, "gastos.db")},
		{name: "bare tilde", input: "~", want: home},
		{name: "env var expands", input: "$LUZI_TEST_DIR/luzi.db", want: "/tmp/luzi/luzi.db"},
		{name: "empty path", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestDataDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "luzi"), dir)
}

func TestDatabasePath_PrefersConfigured(t *testing.T) {
	viper.Set("database.path", "/tmp/custom/luzi.db")
	t.Cleanup(func() { viper.Set("database.path", "") })

	path, err := DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom/luzi.db", path)
}

func TestDatabasePath_DefaultsToDataDir(t *testing.T) {
	viper.Set("database.path", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	path, err := DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "luzi", "luzi.db"), path)
}
