// Command formwizard serves schema-driven multi-step forms over HTTP, fills
// them from the terminal, and checks schema documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/logging"
)

type rootFlags struct {
	configPath string
	logLevel   string
	debug      bool
}

func main() {
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "formwizard",
		Short:         "Schema-driven multi-step forms",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	root.AddCommand(serveCmd(flags))
	root.AddCommand(fillCmd(flags))
	root.AddCommand(checkCmd(flags))
	return root
}

// loadConfig reads the configuration file and applies the logging flags.
func (f *rootFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.debug {
		cfg.Log.Level = logging.LevelDebug
	}
	if _, err := logging.Install(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
