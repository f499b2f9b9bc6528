package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jandubois/servicecheck/internal/config"
	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/jandubois/servicecheck/internal/probes"
	"github.com/jandubois/servicecheck/internal/probes/elastic"
	"github.com/jandubois/servicecheck/internal/probes/haproxy"
	"github.com/spf13/cobra"
)

// elastic probe
var elasticCmd = &cobra.Command{
	Use:   elastic.Name,
	Short: "Print Elasticsearch node statistics and classify cluster health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadElastic(configSource(cmd), elastic.Name)
		if err != nil {
			var hm probe.HealthMap
			if cfg != nil {
				hm = cfg.HealthMap
			}
			exitCode = configFailure(cmd, err, hm)
			return nil
		}

		client := elastic.NewClient(cfg.BaseURL(), cfg.Timeout())
		result := elastic.Run(cmd.Context(), cfg, client)
		exitCode = outputResult(cmd, result, cfg.HealthMap)
		return nil
	},
}

// haproxy probe
var haproxyCmd = &cobra.Command{
	Use:   haproxy.Name,
	Short: "Print HAProxy statistics and fail on DOWN servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadHAProxy(configSource(cmd), haproxy.Name)
		if err != nil {
			var hm probe.HealthMap
			if cfg != nil {
				hm = cfg.HealthMap
			}
			exitCode = configFailure(cmd, err, hm)
			return nil
		}

		result := haproxy.Run(cmd.Context(), cfg, haproxy.NewCollector(cfg))
		exitCode = outputResult(cmd, result, cfg.HealthMap)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version and exit")
	rootCmd.Flags().Bool("describe", false, "Output built-in probe descriptions as JSON array")

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "servicecheck version %s\n", Version)
			return
		}
		if describe, _ := cmd.Flags().GetBool("describe"); describe {
			printDescriptions(cmd.OutOrStdout())
			return
		}
		cmd.Help()
	}

	elasticCmd.GroupID = probeGroupID
	haproxyCmd.GroupID = probeGroupID
	rootCmd.AddCommand(elasticCmd)
	rootCmd.AddCommand(haproxyCmd)
}

func configSource(cmd *cobra.Command) config.Source {
	dir, _ := cmd.Flags().GetString("config-dir")
	hostnameFile, _ := cmd.Flags().GetString("hostname-file")
	return config.Source{
		Dir:      dir,
		Hostname: config.ShortHostname(cmd.Context(), hostnameFile),
	}
}

func printDescriptions(w io.Writer) {
	descs := probes.GetAllDescriptions()
	json.NewEncoder(w).Encode(descs)
}

// configFailure reports a configuration that could not be loaded. The
// unknown code comes from the health map only when it validates.
func configFailure(cmd *cobra.Command, err error, hm probe.HealthMap) int {
	result := &probe.Result{
		Status:  probe.StatusUnknown,
		Message: "Can't load configuration files: " + err.Error(),
	}
	if hm.Validate() != nil {
		hm = nil
	}
	return outputResult(cmd, result, hm)
}

// outputResult renders result in the selected format and returns the exit
// code the health map assigns to its status.
func outputResult(cmd *cobra.Command, result *probe.Result, hm probe.HealthMap) int {
	w := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("output")

	var err error
	if format == "json" {
		err = probe.WriteJSON(w, result)
	} else {
		err = probe.WriteText(w, result)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write result: %v\n", err)
	}
	return hm.ExitCode(result.Status)
}
