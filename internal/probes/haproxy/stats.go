package haproxy

import (
	"strings"

	"github.com/jandubois/servicecheck/internal/probe"
)

// errorSentinel marks a row whose field count does not match the header.
const errorSentinel = "ERROR"

// Table is a parsed "show stat" dump: one header row of field names and one
// row per proxy entry.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseTable splits a stats dump into header and rows. The "# " marker of
// the header line is removed and blank lines are skipped. Fields are split
// on commas with no quoting.
func ParseTable(raw string) *Table {
	t := &Table{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line)
		if t.Header == nil {
			fields[0] = strings.TrimSpace(strings.TrimPrefix(fields[0], "#"))
			t.Header = fields
			continue
		}
		t.Rows = append(t.Rows, fields)
	}
	return t
}

// splitFields drops the empty field produced by HAProxy's trailing comma.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	if n := len(fields); n > 1 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	return fields
}

func column(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// FlattenRow emits <name>_<field>=<value> for each header field, where name
// is the row's value in nameColumn. A row with fewer fields than the header
// ends with a single <name>_ERROR=ERROR line; so does a row with extra
// fields, after all header fields.
func FlattenRow(header, row []string, nameColumn int) []probe.Metric {
	name := column(row, nameColumn)
	metrics := make([]probe.Metric, 0, len(header)+1)
	for i, key := range header {
		if i >= len(row) {
			return append(metrics, errorMetric(name))
		}
		metrics = append(metrics, probe.Metric{Name: name + "_" + key, Value: row[i]})
	}
	if len(row) > len(header) {
		metrics = append(metrics, errorMetric(name))
	}
	return metrics
}

func errorMetric(name string) probe.Metric {
	return probe.Metric{Name: name + "_" + errorSentinel, Value: errorSentinel}
}

// Flatten applies FlattenRow to every row of t.
func Flatten(t *Table, nameColumn int) []probe.Metric {
	var metrics []probe.Metric
	for _, row := range t.Rows {
		metrics = append(metrics, FlattenRow(t.Header, row, nameColumn)...)
	}
	return metrics
}

// ParseInfo flattens "show info" output. Spaces are removed and each
// "Key: value" line becomes Key=value, in the order received.
func ParseInfo(raw string) []probe.Metric {
	var metrics []probe.Metric
	for _, line := range strings.Split(raw, "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" {
			continue
		}
		metrics = append(metrics, probe.Metric{Name: key, Value: value})
	}
	return metrics
}
