package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/batchop/internal/config"
)

// isolateConfig points HOME at a temp dir, clears BATCHOP_* overrides and
// selects the memory driver so defaultApp touches nothing on disk.
func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{
		config.EnvConfig, config.EnvHelperPath, config.EnvStorageKey, config.EnvStorageDir,
		config.EnvStorageDSN, config.EnvS3Bucket, config.EnvMaxOutputBytes, config.EnvLogLevel,
	} {
		t.Setenv(env, "")
	}
	t.Setenv(config.EnvStorageDriver, "memory")

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return home
}

func TestDefaultAppExpandsHelperFlag(t *testing.T) {
	home := isolateConfig(t)

	app, err := defaultApp(context.Background(), &RootOptions{HelperPath: "~/bin/my-helper"}, io.Discard)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, filepath.Join(home, "bin", "my-helper"), app.Config.HelperPath)
}

func TestDefaultAppBadConfigIsConfigError(t *testing.T) {
	home := isolateConfig(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))

	_, err := defaultApp(context.Background(), &RootOptions{ConfigPath: path}, io.Discard)
	require.Error(t, err)
	code, exit, _ := errorCode(err)
	assert.Equal(t, ErrCodeConfig, code)
	assert.Equal(t, ExitCommandError, exit)
}

func TestConfigPath(t *testing.T) {
	home := isolateConfig(t)
	env := newTestEnv(t)

	out := env.mustExec("config", "path")
	assert.Equal(t, filepath.Join(home, ".batchop", "config.yaml")+"\n", out)

	out = env.mustExec("config", "path", "--config", "/etc/batchop.yaml")
	assert.Equal(t, "/etc/batchop.yaml\n", out)
}

func TestConfigInitWritesEffectiveConfig(t *testing.T) {
	home := isolateConfig(t)
	env := newTestEnv(t)
	path := filepath.Join(home, "conf", "batchop.yaml")

	out := env.mustExec("config", "init", "--config", path, "--helper", "~/bin/h")
	assert.Equal(t, "✓ Wrote "+path+"\n", out)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "bin", "h"), cfg.HelperPath)
	assert.Equal(t, "memory", cfg.Storage.Driver, "environment overrides are captured")
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	home := isolateConfig(t)
	env := newTestEnv(t)
	path := filepath.Join(home, "batchop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_key: mine\n"), 0o600))

	err := env.exec("config", "init", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, env.out.String(), "Error [E006]")
	assert.Contains(t, env.out.String(), "already exists")

	env.mustExec("config", "init", "--config", path, "--force")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.StorageKey, "--force rewrites the loaded file, keeping its keys")
}
