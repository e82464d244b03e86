package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/adamkeys/tkbundle"
)

const (
	// AppName is the directory name under the user config directory.
	AppName = "tkbundle"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
	// EnvPrefix prefixes environment variable overrides, e.g. TKBUNDLE_PYTHON.
	EnvPrefix = "TKBUNDLE"
)

// Config holds the settings of a collection run.
type Config struct {
	// Platform overrides the detected platform family: darwin, unix or windows.
	Platform string `mapstructure:"platform" yaml:"platform"`
	// Python is the interpreter used by the shell probe.
	Python string `mapstructure:"python" yaml:"python"`
	// TkinterModule is the module exposing the Tcl class.
	TkinterModule string `mapstructure:"tkinter_module" yaml:"tkinter_module"`
	// Probe is interpreter or library.
	Probe string `mapstructure:"probe" yaml:"probe"`
	// Timeout bounds each interpreter invocation.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Namespace is the bundle directory for the libraries.
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// UserFrameworks is the per-user macOS framework directory.
	UserFrameworks string `mapstructure:"user_frameworks" yaml:"user_frameworks"`
	// VerifyRoots checks that interpreter-reported roots exist.
	VerifyRoots bool `mapstructure:"verify_roots" yaml:"verify_roots"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFilePath is used exclusively when set and must exist.
	ConfigFilePath string
	// ConfigDirPath replaces the user config directory.
	ConfigDirPath string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	opts := tkbundle.DefaultOptions()
	return &Config{
		Platform:       "",
		Python:         "",
		TkinterModule:  opts.TkinterModule,
		Probe:          opts.Probe.String(),
		Timeout:        opts.Timeout,
		Namespace:      opts.Namespace,
		UserFrameworks: opts.UserFrameworks,
		VerifyRoots:    true,
		LogLevel:       log.InfoLevel.String(),
	}
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads the configuration and returns it with the path of the file it came from, which is empty when only
// defaults and the environment were used.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("platform", defaults.Platform)
	v.SetDefault("python", defaults.Python)
	v.SetDefault("tkinter_module", defaults.TkinterModule)
	v.SetDefault("probe", defaults.Probe)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("user_frameworks", defaults.UserFrameworks)
	v.SetDefault("verify_roots", defaults.VerifyRoots)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
	} else {
		dir := opts.ConfigDirPath
		if dir == "" {
			var err error
			if dir, err = ConfigDir(); err != nil {
				return nil, "", err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	resolvedPath := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("reading config: %w", err)
		}
	} else {
		resolvedPath = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, resolvedPath, nil
}

// Options converts the configuration into pipeline options logging to logger.
func (c *Config) Options(logger *log.Logger) (*tkbundle.Options, error) {
	opts := tkbundle.DefaultOptions()
	opts.Logger = logger

	if c.Platform != "" {
		opts.Platform = tkbundle.ParsePlatform(c.Platform)
		opts.PlatformName = c.Platform
	}
	probe, err := tkbundle.ParseProbe(c.Probe)
	if err != nil {
		return nil, err
	}
	opts.Probe = probe
	opts.Python = c.Python
	if c.TkinterModule != "" {
		opts.TkinterModule = c.TkinterModule
	}
	if c.Timeout > 0 {
		opts.Timeout = c.Timeout
	}
	if c.Namespace != "" {
		opts.Namespace = c.Namespace
	}
	if c.UserFrameworks != "" {
		opts.UserFrameworks = c.UserFrameworks
	}
	opts.SkipVerify = !c.VerifyRoots
	return opts, nil
}

// Level parses the configured log level.
func (c *Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
