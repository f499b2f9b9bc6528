// Package elastic provides the Elasticsearch node probe.
package elastic

import (
	"context"
	"log/slog"

	units "github.com/docker/go-units"
	"github.com/jandubois/servicecheck/internal/config"
	"github.com/jandubois/servicecheck/internal/probe"
)

// Name is the probe subcommand name.
const Name = "elastic"

// Endpoints queried on every run.
const (
	pathRoot          = "/"
	pathClusterHealth = "/_cluster/health"
	pathNodeStats     = "/_nodes/_local/stats"
	pathNodeJVM       = "/_nodes/_local/stats/jvm"
	pathNodeProcess   = "/_nodes/_local/stats/process"
	pathNodeIndices   = "/_nodes/_local/stats/indices"
	pathClusterStatus = "/_cat/health?h=status"
)

// GetDescription returns the probe description.
func GetDescription() probe.Description {
	return probe.Description{
		Name:        "elastic",
		Description: "Print Elasticsearch node metrics and check cluster health",
		Version:     "1.0.0",
		Subcommand:  Name,
		Arguments: probe.Arguments{
			Required: map[string]probe.ArgumentSpec{
				"host": {
					Type:        "string",
					Description: "Elasticsearch host",
				},
				"port": {
					Type:        "number",
					Description: "Elasticsearch HTTP port",
				},
				"health_map": {
					Type:        "object",
					Description: "Exit code for each of ok, warning, critical and unknown",
				},
				"health_map_elastic": {
					Type:        "object",
					Description: "Health status for each cluster state other than green",
				},
			},
			Optional: map[string]probe.ArgumentSpec{
				"scheme": {
					Type:        "string",
					Description: "URL scheme",
					Default:     "http",
					Enum:        []string{"http", "https"},
				},
				"timeout": {
					Type:        "number",
					Description: "Request timeout in seconds",
					Default:     float64(10),
				},
				"caches": {
					Type:        "object",
					Description: "Cache name to stats endpoint path; reported as <cache>_size",
				},
			},
		},
	}
}

// Run collects node metrics and classifies cluster health. Metrics are always
// collected before the health check; a transport failure ends the run with
// the metrics gathered so far.
func Run(ctx context.Context, cfg *config.Elastic, client *Client) *probe.Result {
	result := &probe.Result{}

	stats, err := client.JSON(ctx, pathNodeStats)
	if err != nil {
		return result.Fail(err)
	}
	nodeID, ok := LocalNodeID(stats)
	if !ok {
		slog.Warn("no local node in stats response, node metrics unavailable")
	}

	root, err := client.JSON(ctx, pathRoot)
	if err != nil {
		return result.Fail(err)
	}
	version := root.Get("version.number").String()
	if version == "" {
		slog.Warn("node did not report its version")
	}
	slog.Debug("connected to node", "node", nodeID, "version", version)

	health, err := client.JSON(ctx, pathClusterHealth)
	if err != nil {
		return result.Fail(err)
	}
	result.Metrics = append(result.Metrics, ClusterMetrics(health)...)

	jvm, err := client.JSON(ctx, pathNodeJVM)
	if err != nil {
		return result.Fail(err)
	}
	node := NodeSection(jvm, nodeID)
	slog.Debug("jvm heap",
		"used", units.BytesSize(node.Get("jvm.mem.heap_used_in_bytes").Float()),
		"max", units.BytesSize(node.Get("jvm.mem.heap_max_in_bytes").Float()),
	)
	result.Metrics = append(result.Metrics, JVMMetrics(node)...)

	process, err := client.JSON(ctx, pathNodeProcess)
	if err != nil {
		return result.Fail(err)
	}
	result.Metrics = append(result.Metrics, ProcessMetrics(NodeSection(process, nodeID), UsesVirtualMemory(version))...)

	indices, err := client.JSON(ctx, pathNodeIndices)
	if err != nil {
		return result.Fail(err)
	}
	result.Metrics = append(result.Metrics, IndicesMetrics(NodeSection(indices, nodeID))...)

	for _, cache := range cfg.Caches {
		cacheStats, err := client.JSON(ctx, cache.Path)
		if err != nil {
			slog.Warn("cache stats unavailable", "cache", cache.Name, "path", cache.Path, "error", err)
			result.Add(cache.Name+"_size", probe.NotAvailable)
			continue
		}
		result.Metrics = append(result.Metrics, CacheMetric(cache.Name, cacheStats))
	}

	state, err := client.Text(ctx, pathClusterStatus)
	if err != nil {
		return result.Fail(err)
	}
	result.Status, result.Message = ClassifyClusterStatus(state, cfg.StateMap)
	return result
}
