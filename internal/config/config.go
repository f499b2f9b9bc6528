package config

import (
	"fmt"
	"time"

	"github.com/jandubois/servicecheck/internal/probe"
	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds every query a probe makes.
const DefaultTimeout = 10 * time.Second

// Common holds the keys shared by every probe.
type Common struct {
	HealthMap      probe.HealthMap `yaml:"health_map"`
	TimeoutSeconds int             `yaml:"timeout"`
}

// Timeout returns the configured query timeout.
func (c *Common) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Common) validate() error {
	if len(c.HealthMap) == 0 {
		return &Error{Field: "health_map", Message: "is required"}
	}
	if err := c.HealthMap.Validate(); err != nil {
		return &Error{Field: "health_map", Message: err.Error()}
	}
	return nil
}

// Elastic configures the Elasticsearch probe.
type Elastic struct {
	Common   `yaml:",inline"`
	Scheme   string                  `yaml:"scheme"`
	Host     string                  `yaml:"host"`
	Port     int                     `yaml:"port"`
	StateMap map[string]probe.Status `yaml:"health_map_elastic"`
	Caches   Caches                  `yaml:"caches"`
}

// BaseURL returns the node's root URL.
func (e *Elastic) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", e.Scheme, e.Host, e.Port)
}

// Validate checks the keys the Elasticsearch probe cannot run without.
func (e *Elastic) Validate() error {
	if err := e.Common.validate(); err != nil {
		return err
	}
	if e.Host == "" {
		return &Error{Field: "host", Message: "is required"}
	}
	if e.Port <= 0 {
		return &Error{Field: "port", Message: "is required"}
	}
	if len(e.StateMap) == 0 {
		return &Error{Field: "health_map_elastic", Message: "is required"}
	}
	for state, status := range e.StateMap {
		if !status.Valid() {
			return &Error{Field: "health_map_elastic", Message: fmt.Sprintf("state %q maps to unknown status %q", state, status)}
		}
	}
	return nil
}

// Cache is one cache-size lookup: the metric prefix and the endpoint path.
type Cache struct {
	Name string
	Path string
}

// Caches keeps the cache mapping in file order.
type Caches []Cache

// UnmarshalYAML decodes a name: path mapping without losing its order.
func (c *Caches) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: caches must be a mapping of name to endpoint path", value.Line)
	}
	caches := make(Caches, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var path string
		if err := value.Content[i+1].Decode(&path); err != nil {
			return fmt.Errorf("cache %s: %w", value.Content[i].Value, err)
		}
		caches = append(caches, Cache{Name: value.Content[i].Value, Path: path})
	}
	*c = caches
	return nil
}

// HAProxy transports.
const (
	TransportHelper = "helper"
	TransportSocket = "socket"
)

// HAProxy configures the HAProxy probe.
type HAProxy struct {
	Common         `yaml:",inline"`
	Socket         string      `yaml:"haproxy_stat_socket"`
	Transport      string      `yaml:"haproxy_stat_transport"`
	Helper         []string    `yaml:"haproxy_stat_helper"`
	ServersExclude []string    `yaml:"servers_exclude"`
	NameColumns    NameColumns `yaml:"name_columns"`
}

// NameColumns selects which stats column names the entity of each row type.
type NameColumns struct {
	Frontend int `yaml:"frontend"`
	Backend  int `yaml:"backend"`
	Server   int `yaml:"server"`
}

// Excluded reports whether server is exempt from the DOWN check.
func (h *HAProxy) Excluded(server string) bool {
	for _, s := range h.ServersExclude {
		if s == server {
			return true
		}
	}
	return false
}

// Validate checks the keys the HAProxy probe cannot run without.
func (h *HAProxy) Validate() error {
	if err := h.Common.validate(); err != nil {
		return err
	}
	if h.Socket == "" {
		return &Error{Field: "haproxy_stat_socket", Message: "is required"}
	}
	switch h.Transport {
	case TransportHelper:
		if len(h.Helper) == 0 {
			return &Error{Field: "haproxy_stat_helper", Message: "is required for the helper transport"}
		}
	case TransportSocket:
	default:
		return &Error{Field: "haproxy_stat_transport", Message: fmt.Sprintf("unsupported transport %q", h.Transport)}
	}
	if h.NameColumns.Frontend < 0 || h.NameColumns.Backend < 0 || h.NameColumns.Server < 0 {
		return &Error{Field: "name_columns", Message: "columns must not be negative"}
	}
	return nil
}

func defaultElastic() *Elastic {
	return &Elastic{Scheme: "http"}
}

func defaultHAProxy() *HAProxy {
	return &HAProxy{
		Transport:   TransportHelper,
		Helper:      []string{"sudo", "socat"},
		NameColumns: NameColumns{Frontend: 0, Backend: 0, Server: 1},
	}
}

// Error represents a configuration validation error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error: " + e.Field + ": " + e.Message
}
