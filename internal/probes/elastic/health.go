package elastic

import (
	"fmt"
	"strings"

	"github.com/jandubois/servicecheck/internal/probe"
)

// healthyState is the only cluster state that is ok without consulting the
// state map.
const healthyState = "green"

// ClassifyClusterStatus maps the _cat/health status string to a verdict.
func ClassifyClusterStatus(state string, stateMap map[string]probe.Status) (probe.Status, string) {
	state = strings.TrimSpace(state)
	switch state {
	case "":
		return probe.StatusUnknown, "Cluster status is empty"
	case healthyState:
		return probe.StatusOK, "Cluster status is " + state
	}

	status, ok := stateMap[state]
	if !ok {
		return probe.StatusUnknown, fmt.Sprintf("Cluster status %q has no health mapping", state)
	}
	return status, "Cluster status is " + state
}
