package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCWD(t *testing.T, dir string, err error) {
	t.Helper()
	orig := getwd
	getwd = func() (string, error) { return dir, err }
	t.Cleanup(func() { getwd = orig })
}

func TestResolveConfigDir(t *testing.T) {
	cwd := t.TempDir()
	flagDir := filepath.Join(t.TempDir(), "flag")
	envDir := filepath.Join(t.TempDir(), "env")

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{name: "flag wins over env", flag: flagDir, env: envDir, want: flagDir},
		{name: "env when no flag", env: envDir, want: envDir},
		{name: "cwd default", want: filepath.Join(cwd, DefaultConfigDirName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCWD(t, cwd, nil)
			t.Setenv(EnvConfigDir, tt.env)

			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd := t.TempDir()
	flagDir := filepath.Join(t.TempDir(), "flag")
	cfgDir := filepath.Join(t.TempDir(), "cfg")
	envDir := filepath.Join(t.TempDir(), "env")

	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{name: "flag wins", flag: flagDir, config: cfgDir, env: envDir, want: flagDir},
		{name: "config beats env", config: cfgDir, env: envDir, want: cfgDir},
		{name: "env when nothing else", env: envDir, want: envDir},
		{name: "cwd default", want: filepath.Join(cwd, DefaultDataDirName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCWD(t, cwd, nil)
			t.Setenv(EnvDataDir, tt.env)

			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelativeFlagIsAbsolute(t *testing.T) {
	got, err := ResolveConfigDir("rel/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveWorkingDirError(t *testing.T) {
	withCWD(t, "", errors.New("cwd removed"))
	t.Setenv(EnvDataDir, "")

	_, err := ResolveDataDir("", "")
	assert.EqualError(t, err, "cwd removed")
}
