package elastic

import (
	"strconv"
	"strings"

	units "github.com/docker/go-units"
	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/tidwall/gjson"
)

// BytesToGbytes converts a byte count to gigabytes (1024^3 bytes).
func BytesToGbytes(b float64) float64 {
	return b / units.GiB
}

// ToFraction converts a 0-100 percentage to a 0-1 fraction.
func ToFraction(p float64) float64 {
	return p / 100
}

// converter renders a looked-up field, or probe.NotAvailable when the field
// is missing or unusable.
type converter func(gjson.Result) string

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// raw reports the field as the service returned it.
func raw(r gjson.Result) string {
	if !present(r) {
		return probe.NotAvailable
	}
	return r.String()
}

func gbytes(r gjson.Result) string {
	f, ok := number(r)
	if !ok {
		return probe.NotAvailable
	}
	return formatFloat(BytesToGbytes(f))
}

func fraction(r gjson.Result) string {
	f, ok := number(r)
	if !ok {
		return probe.NotAvailable
	}
	return formatFloat(ToFraction(f))
}

func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(r.Str, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// formatFloat always carries a decimal point, so whole values print as 2.0.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// field is one metric read from a path inside a JSON document.
type field struct {
	name    string
	path    string
	convert converter
}

func (f field) metric(doc gjson.Result) probe.Metric {
	return probe.Metric{Name: f.name, Value: f.convert(doc.Get(f.path))}
}

func collect(doc gjson.Result, fields []field) []probe.Metric {
	metrics := make([]probe.Metric, 0, len(fields))
	for _, f := range fields {
		metrics = append(metrics, f.metric(doc))
	}
	return metrics
}
