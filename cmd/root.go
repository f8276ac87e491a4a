// Package cmd wires the forcegraph command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/forcegraph/config"
	"github.com/TFMV/forcegraph/logging"
	"github.com/TFMV/forcegraph/ui"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "forcegraph",
		Short: "forcegraph: force directed graph editing and layout",
		Long: ui.Brand.Sprint("forcegraph") + " lays out graphs with a spring simulation\n" +
			ui.Subtle.Sprint("Import edge lists, run batch layouts, or serve a live editor over HTTP"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("forcegraph {{ .Version }}\n")

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		layoutCmd(),
		serveCmd(),
		convertCmd(),
		infoCmd(),
		configCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Fail(rootCmd.ErrOrStderr(), "%v", err)
	}
	return err
}

// loadConfig reads the config named by --config and applies --log-level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return logging.New(w, level), nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
