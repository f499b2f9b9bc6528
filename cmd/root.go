package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jandubois/servicecheck/internal/config"
	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X github.com/jandubois/servicecheck/cmd.Version=..."
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "servicecheck",
	Short: "One-shot service checks for a systems-monitoring agent",
	Long: `Servicecheck queries a service, prints its statistics as key=value lines,
and exits with the code the health map assigns to the verdict.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

const probeGroupID = "probes"

// exitCode is set by the probe subcommands and returned by Execute.
var exitCode int

// Execute runs the command line and returns the process exit code.
func Execute() int {
	exitCode = 0
	if err := rootCmd.Execute(); err != nil {
		return probe.FallbackUnknownCode
	}
	return exitCode
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: probeGroupID, Title: "Built-in Probes:"})
	rootCmd.PersistentFlags().String("config-dir", config.DefaultDir(), "Directory holding the probe configuration files")
	rootCmd.PersistentFlags().String("hostname-file", config.DefaultHostnameFile, "File holding the short host name")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func setupLogging(cmd *cobra.Command) error {
	if format, _ := cmd.Flags().GetString("output"); format != "text" && format != "json" {
		return fmt.Errorf("invalid output format %q", format)
	}

	name, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q", name)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
