package haproxy

import (
	"log/slog"

	"github.com/jandubois/servicecheck/internal/probe"
)

// Fixed columns of a server row.
const (
	columnServerName = 1
	columnStatus     = 17
)

const stateDown = "DOWN"

// ServerDown reports whether row is a DOWN server that is not excluded.
// Rows too short to carry a status are never DOWN.
func ServerDown(row []string, excluded func(string) bool) (string, bool) {
	if column(row, columnStatus) != stateDown {
		return "", false
	}
	name := column(row, columnServerName)
	if excluded(name) {
		slog.Info("ignoring excluded server", "name", name, "status", stateDown)
		return name, false
	}
	return name, true
}

// ServerMetrics flattens server rows until the first DOWN server. It then
// stops and returns the metrics of the servers before it together with a
// critical failure; that server and any after it are not reported.
func ServerMetrics(t *Table, nameColumn int, excluded func(string) bool) ([]probe.Metric, error) {
	var metrics []probe.Metric
	for _, row := range t.Rows {
		if name, down := ServerDown(row, excluded); down {
			return metrics, probe.Failf(probe.StatusCritical, "Server %s is DOWN", name)
		}
		metrics = append(metrics, FlattenRow(t.Header, row, nameColumn)...)
	}
	return metrics, nil
}
