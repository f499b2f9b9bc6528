// Package haproxy provides the HAProxy admin-socket probe.
package haproxy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jandubois/servicecheck/internal/config"
	"github.com/jandubois/servicecheck/internal/probe"
)

// Name is the probe subcommand name.
const Name = "haproxy"

// Admin socket commands. "show stat <iid> <type> <sid>" with type 1, 2 and 4
// restricts the dump to frontends, backends and servers.
const (
	cmdShowInfo      = "show info"
	cmdShowStat      = "show stat"
	cmdShowFrontends = "show stat -1 1 -1"
	cmdShowBackends  = "show stat -1 2 -1"
	cmdShowServers   = "show stat -1 4 -1"
)

// GetDescription returns the probe description.
func GetDescription() probe.Description {
	return probe.Description{
		Name:        "haproxy",
		Description: "Print HAProxy statistics and fail on DOWN servers",
		Version:     "1.0.0",
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"haproxy_stat_socket": {
					Type:        "string",
					Description: "Path of the HAProxy admin socket",
				},
				"health_map": {
					Type:        "object",
					Description: "Exit code for each of ok, warning, critical and unknown",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"haproxy_stat_transport": {
					Type:        "string",
					Description: "Reach the socket through the helper command or directly",
					Default:     config.TransportHelper,
					Enum:        []string{config.TransportHelper, config.TransportSocket},
				},
				"haproxy_stat_helper": {
					Type:        "array",
					Description: "Helper command prefix; unix-connect:<socket> stdio is appended",
					Default:     []string{"sudo", "socat"},
				},
				"servers_exclude": {
					Type:        "array",
					Description: "Servers allowed to be DOWN",
				},
				"name_columns": {
					Type:        "object",
					Description: "Column naming frontend, backend and server rows",
				},
				"timeout": {
					Type:        "number",
					Description: "Command timeout in seconds",
					Default:     float64(10),
				},
			},
		},
	}
}

// Run checks that HAProxy answers, prints global, frontend, backend and
// server statistics, and stops at the first DOWN server that is not
// excluded.
func Run(ctx context.Context, cfg *config.HAProxy, collector Collector) *probe.Result {
	result := &probe.Result{}

	info, err := query(ctx, collector, cmdShowInfo, "HAproxy")
	if err != nil {
		return result.Fail(err)
	}
	if strings.TrimSpace(info) == "" {
		return result.Fail(probe.Failf(probe.StatusCritical, "Could not get HAproxy stats"))
	}

	all, err := query(ctx, collector, cmdShowStat, "HAproxy")
	if err != nil {
		return result.Fail(err)
	}
	inv := Discover(ParseTable(all))
	slog.Debug("discovery complete", "frontends", len(inv.Frontends), "backends", len(inv.Backends))

	result.Metrics = append(result.Metrics, ParseInfo(info)...)

	frontends, err := query(ctx, collector, cmdShowFrontends, "Frontends")
	if err != nil {
		return result.Fail(err)
	}
	result.Metrics = append(result.Metrics, Flatten(ParseTable(frontends), cfg.NameColumns.Frontend)...)

	backends, err := query(ctx, collector, cmdShowBackends, "Backends")
	if err != nil {
		return result.Fail(err)
	}
	result.Metrics = append(result.Metrics, Flatten(ParseTable(backends), cfg.NameColumns.Backend)...)

	servers, err := query(ctx, collector, cmdShowServers, "Servers")
	if err != nil {
		return result.Fail(err)
	}
	table := ParseTable(servers)
	metrics, err := ServerMetrics(table, cfg.NameColumns.Server, cfg.Excluded)
	result.Metrics = append(result.Metrics, metrics...)
	if err != nil {
		return result.Fail(err)
	}

	result.Status = probe.StatusOK
	result.Message = fmt.Sprintf("%d servers checked, none DOWN", len(table.Rows))
	return result
}

// query wraps collector errors as critical failures.
func query(ctx context.Context, collector Collector, command, what string) (string, error) {
	reply, err := collector.Query(ctx, command)
	if err != nil {
		return "", probe.Wrap(probe.StatusCritical, err, fmt.Sprintf("Could not get %s stats", what))
	}
	return reply, nil
}
