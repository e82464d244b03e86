package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/adamkeys/tkbundle"
	"github.com/adamkeys/tkbundle/internal/config"
)

// app carries the state shared by the subcommands once the root command has loaded the configuration.
type app struct {
	configFile string
	logLevel   string
	platform   string
	python     string
	probe      string

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand creates the tkbundle command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tkbundle",
		Short: "Collect the Tcl/Tk files a frozen Python application needs",
		Long: `tkbundle finds the Tcl and Tk script libraries used by a Python _tkinter extension
module and lists the files to ship with a packaged application.

On macOS the libraries are derived from the Tcl and Tk frameworks the module links
against. On other platforms a Python interpreter is asked where Tcl lives.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/tkbundle/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.platform, "platform", "", "platform family: darwin, unix or windows")
	flags.StringVar(&a.python, "python", "", "python interpreter used to probe Tcl")
	flags.StringVar(&a.probe, "probe", "", "probe implementation: interpreter or library")

	rootCmd.AddCommand(newCollectCommand(a))
	rootCmd.AddCommand(newRootsCommand(a))
	rootCmd.AddCommand(newEnvCommand(a))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// load reads the configuration, applies flag overrides and sets up the logger.
func (a *app) load(stderr io.Writer) error {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: a.configFile})
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.platform != "" {
		cfg.Platform = a.platform
	}
	if a.python != "" {
		cfg.Python = a.python
	}
	if a.probe != "" {
		cfg.Probe = a.probe
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.logger = log.NewWithOptions(stderr, log.Options{Prefix: "tkbundle", Level: level})
	if path != "" {
		a.logger.Debug("loaded config", "path", path)
	}
	a.cfg = cfg
	return nil
}

// options returns the pipeline options for the loaded configuration.
func (a *app) options() (*tkbundle.Options, error) {
	return a.cfg.Options(a.logger)
}
