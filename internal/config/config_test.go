package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamkeys/tkbundle"
	"github.com/adamkeys/tkbundle/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, path, err := config.Load(config.LoadOptions{ConfigDirPath: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, path)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Equal(t, "tkinter", cfg.TkinterModule)
	assert.Equal(t, "interpreter", cfg.Probe)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "_MEI", cfg.Namespace)
	assert.True(t, cfg.VerifyRoots)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`platform: unix
python: /opt/python/bin/python3
probe: library
timeout: 5s
namespace: _internal
verify_roots: false
log_level: debug
`), 0o644))

	cfg, path, err := config.Load(config.LoadOptions{ConfigDirPath: dir})
	require.NoError(t, err)

	assert.Equal(t, file, path)
	assert.Equal(t, "unix", cfg.Platform)
	assert.Equal(t, "/opt/python/bin/python3", cfg.Python)
	assert.Equal(t, "library", cfg.Probe)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "_internal", cfg.Namespace)
	assert.False(t, cfg.VerifyRoots)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tkinter", cfg.TkinterModule)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tkbundle.yaml")
	require.NoError(t, os.WriteFile(file, []byte("python: /from/file\n"), 0o644))
	t.Setenv("TKBUNDLE_PYTHON", "/from/env")

	cfg, _, err := config.Load(config.LoadOptions{ConfigFilePath: file})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Python)
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := config.Load(config.LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("platform: [unix\n"), 0o644))
	_, _, err = config.Load(config.LoadOptions{ConfigFilePath: file})
	assert.Error(t, err)
}

func TestConfig_Options(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Platform = "windows"
	cfg.Python = `C:\Python312\python.exe`
	cfg.Probe = "library"
	cfg.Timeout = time.Second
	cfg.VerifyRoots = false

	logger := log.New(os.Stderr)
	opts, err := cfg.Options(logger)
	require.NoError(t, err)

	assert.Equal(t, tkbundle.PlatformWindows, opts.Platform)
	assert.Equal(t, "windows", opts.PlatformName)
	assert.Equal(t, `C:\Python312\python.exe`, opts.Python)
	assert.Equal(t, tkbundle.ProbeLibrary, opts.Probe)
	assert.Equal(t, time.Second, opts.Timeout)
	assert.True(t, opts.SkipVerify)
	assert.Same(t, logger, opts.Logger)
}

func TestConfig_OptionsCurrentPlatform(t *testing.T) {
	opts, err := config.DefaultConfig().Options(nil)
	require.NoError(t, err)
	assert.Equal(t, tkbundle.CurrentPlatform(), opts.Platform)
	assert.False(t, opts.SkipVerify)
}

func TestConfig_OptionsUnknownPlatform(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Platform = "plan9"

	opts, err := cfg.Options(nil)
	require.NoError(t, err)
	assert.Equal(t, tkbundle.PlatformUnsupported, opts.Platform)
	assert.Equal(t, "plan9", opts.PlatformName)
}

func TestConfig_OptionsInvalidProbe(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Probe = "guess"

	_, err := cfg.Options(nil)
	assert.Error(t, err)
}

func TestConfig_Level(t *testing.T) {
	cfg := config.DefaultConfig()
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)

	cfg.LogLevel = "debug"
	level, err = cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)

	cfg.LogLevel = "chatty"
	_, err = cfg.Level()
	assert.Error(t, err)
}
