// Package probes provides the built-in probe registry.
package probes

import (
	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/jandubois/servicecheck/internal/probes/elastic"
	"github.com/jandubois/servicecheck/internal/probes/haproxy"
)

// GetAllDescriptions returns descriptions of all built-in probes.
func GetAllDescriptions() []probe.Description {
	return []probe.Description{
		elastic.GetDescription(),
		haproxy.GetDescription(),
	}
}
