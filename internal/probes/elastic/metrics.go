package elastic

import (
	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/tidwall/gjson"
)

var clusterFields = []field{
	{"number_of_nodes", "number_of_nodes", raw},
	{"number_of_data_nodes", "number_of_data_nodes", raw},
	{"active_shards", "active_shards", raw},
}

var jvmFields = []field{
	{"heap_used_in_Gbytes", "jvm.mem.heap_used_in_bytes", gbytes},
	{"heap_used_percent", "jvm.mem.heap_used_percent", fraction},
	{"heap_committed_in_Gbytes", "jvm.mem.heap_committed_in_bytes", gbytes},
	{"heap_max_in_Gbytes", "jvm.mem.heap_max_in_bytes", gbytes},
	{"pools_young_used_in_Gbytes", "jvm.mem.pools.young.used_in_bytes", gbytes},
	{"pools_young_max_in_Gbytes", "jvm.mem.pools.young.max_in_bytes", gbytes},
	{"pools_survivor_used_in_Gbytes", "jvm.mem.pools.survivor.used_in_bytes", gbytes},
	{"pools_survivor_max_in_Gbytes", "jvm.mem.pools.survivor.max_in_bytes", gbytes},
	{"pools_old_used_in_Gbytes", "jvm.mem.pools.old.used_in_bytes", gbytes},
	{"pools_old_max_in_Gbytes", "jvm.mem.pools.old.max_in_bytes", gbytes},
	{"gc_young_collection_count", "jvm.gc.collectors.young.collection_count", raw},
	{"gc_young_collection_time_in_millis", "jvm.gc.collectors.young.collection_time_in_millis", raw},
	{"gc_old_collection_count", "jvm.gc.collectors.old.collection_count", raw},
	{"gc_old_collection_time_in_millis", "jvm.gc.collectors.old.collection_time_in_millis", raw},
}

var (
	processCPUField      = field{"process_cpu_percent", "process.cpu.percent", fraction}
	processResidentField = field{"process_mem_resident_in_Gbytes", "process.mem.resident_in_bytes", gbytes}
	processVirtualField  = field{"process_mem_virtual_in_Gbytes", "process.mem.total_virtual_in_bytes", gbytes}
)

var indicesFields = []field{
	{"docs_count", "indices.docs.count", raw},
	{"docs_deleted", "indices.docs.deleted", raw},
	{"store_size_in_Gbytes", "indices.store.size_in_bytes", gbytes},
	{"store_throttle_time_in_millis", "indices.store.throttle_time_in_millis", raw},
	{"index_total", "indices.indexing.index_total", raw},
	{"index_time_in_millis", "indices.indexing.index_time_in_millis", raw},
	{"index_current", "indices.indexing.index_current", raw},
	{"get_total", "indices.get.total", raw},
	{"get_time_in_millis", "indices.get.time_in_millis", raw},
	{"search_open_contexts", "indices.search.open_contexts", raw},
	{"search_query_total", "indices.search.query_total", raw},
	{"search_query_time_in_millis", "indices.search.query_time_in_millis", raw},
	{"merges_current", "indices.merges.current", raw},
	{"merges_current_docs", "indices.merges.current_docs", raw},
	{"merges_current_size_in_bytes", "indices.merges.current_size_in_bytes", raw},
	{"merges_total", "indices.merges.total", raw},
	{"fielddata_evictions", "indices.fielddata.evictions", raw},
	{"segments_count", "indices.segments.count", raw},
	{"segments_memory_in_Gbytes", "indices.segments.memory_in_bytes", gbytes},
}

// LocalNodeID returns the first node id of a nodes stats document.
func LocalNodeID(stats gjson.Result) (string, bool) {
	var id string
	var found bool
	stats.Get("nodes").ForEach(func(key, _ gjson.Result) bool {
		id, found = key.String(), true
		return false
	})
	return id, found
}

// NodeSection returns the stats of nodeID. The result does not exist when
// the node is absent, which turns every metric read from it into N/A.
func NodeSection(stats gjson.Result, nodeID string) gjson.Result {
	return stats.Get("nodes").Map()[nodeID]
}

// ClusterMetrics flattens a /_cluster/health document.
func ClusterMetrics(health gjson.Result) []probe.Metric {
	return collect(health, clusterFields)
}

// JVMMetrics flattens the jvm section of a node.
func JVMMetrics(node gjson.Result) []probe.Metric {
	return collect(node, jvmFields)
}

// ProcessMetrics flattens the process section of a node. Nodes older than
// 2.0.0 report resident memory; newer ones report total virtual memory.
func ProcessMetrics(node gjson.Result, virtualMemory bool) []probe.Metric {
	mem := processResidentField
	if virtualMemory {
		mem = processVirtualField
	}
	return collect(node, []field{processCPUField, mem})
}

// IndicesMetrics flattens the indices section of a node.
func IndicesMetrics(node gjson.Result) []probe.Metric {
	return collect(node, indicesFields)
}

// CacheMetric reads the memory size of cache from an _all stats document.
func CacheMetric(cache string, stats gjson.Result) probe.Metric {
	size := stats.Get("_all.total").Map()[cache].Get("memory_size_in_bytes")
	return probe.Metric{Name: cache + "_size", Value: raw(size)}
}
