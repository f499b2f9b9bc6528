package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jandubois/servicecheck/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const agentYAML = `
health_map:
  ok: 0
  warning: 1
  critical: 2
  unknown: 3
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func mapping(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc.Content[0]
}

func TestMergeLaterLayersOverride(t *testing.T) {
	merged := Merge(
		mapping(t, "a: 1\nb: 2\n"),
		mapping(t, "b: 3\n"),
		mapping(t, "c: 4\n"),
	)

	var got map[string]int
	require.NoError(t, merged.Decode(&got))
	assert.Equal(t, map[string]int{"a": 1, "b": 3, "c": 4}, got)
}

func TestMergeReplacesWholeValue(t *testing.T) {
	merged := Merge(
		mapping(t, "health_map: {ok: 0, warning: 1, critical: 2, unknown: 3}\n"),
		mapping(t, "health_map: {ok: 10}\n"),
	)

	var got map[string]map[string]int
	require.NoError(t, merged.Decode(&got))
	assert.Equal(t, map[string]int{"ok": 10}, got["health_map"])
}

func TestMergeSkipsNilLayers(t *testing.T) {
	merged := Merge(nil, mapping(t, "a: 1\n"), nil)

	var got map[string]int
	require.NoError(t, merged.Decode(&got))
	assert.Equal(t, map[string]int{"a": 1}, got)
}

func TestSourcePaths(t *testing.T) {
	src := Source{Dir: "/opt/check/etc", Hostname: "es01"}
	assert.Equal(t, []string{
		"/opt/check/etc/elastic.yml",
		"/opt/check/etc/agent.yml",
		"/opt/check/etc/es01/elastic.yml",
	}, src.Paths("elastic"))

	src.Hostname = ""
	assert.Len(t, src.Paths("elastic"), 2)
}

func TestLoadMissingFilesAreOptional(t *testing.T) {
	dir := t.TempDir()
	merged, err := Load(Source{Dir: dir, Hostname: "nohost"}.Paths("haproxy"))
	require.NoError(t, err)
	assert.Empty(t, merged.Content)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elastic.yml"), "host: [unterminated\n")

	_, err := Load(Source{Dir: dir}.Paths("elastic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadRejectsNonMapping(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elastic.yml"), "- a\n- b\n")

	_, err := Load(Source{Dir: dir}.Paths("elastic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")
}

func TestLoadElastic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elastic.yml"), `
host: localhost
port: 9200
health_map_elastic:
  green: ok
  yellow: warning
  red: critical
caches:
  query_cache: _stats/query_cache
  fielddata: _stats/fielddata
  request_cache: _stats/request_cache
`)
	writeFile(t, filepath.Join(dir, AgentFile), agentYAML)
	writeFile(t, filepath.Join(dir, "es01", "elastic.yml"), "host: es01.example.com\ntimeout: 5\n")

	cfg, err := LoadElastic(Source{Dir: dir, Hostname: "es01"}, "elastic")
	require.NoError(t, err)

	assert.Equal(t, "http://es01.example.com:9200", cfg.BaseURL())
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, probe.StatusCritical, cfg.StateMap["red"])
	assert.Equal(t, 2, cfg.HealthMap.ExitCode(probe.StatusCritical))
	assert.Equal(t, Caches{
		{Name: "query_cache", Path: "_stats/query_cache"},
		{Name: "fielddata", Path: "_stats/fielddata"},
		{Name: "request_cache", Path: "_stats/request_cache"},
	}, cfg.Caches)
}

func TestLoadElasticMissingRequiredKeys(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		field string
	}{
		{"no health map", "host: localhost\nport: 9200\nhealth_map_elastic: {green: ok}\n", "health_map"},
		{"no host", agentYAML + "port: 9200\nhealth_map_elastic: {green: ok}\n", "host"},
		{"no port", agentYAML + "host: localhost\nhealth_map_elastic: {green: ok}\n", "port"},
		{"no state map", agentYAML + "host: localhost\nport: 9200\n", "health_map_elastic"},
		{"bad state status", agentYAML + "host: localhost\nport: 9200\nhealth_map_elastic: {red: broken}\n", "health_map_elastic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "elastic.yml"), tt.base)

			cfg, err := LoadElastic(Source{Dir: dir}, "elastic")
			require.Error(t, err)
			require.NotNil(t, cfg)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadElasticRejectsCachesList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "elastic.yml"), agentYAML+"caches: [a, b]\n")

	cfg, err := LoadElastic(Source{Dir: dir}, "elastic")
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadHAProxyDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, AgentFile), agentYAML)
	writeFile(t, filepath.Join(dir, "haproxy.yml"), `
haproxy_stat_socket: /var/run/haproxy.sock
servers_exclude:
  - maintenance01
`)

	cfg, err := LoadHAProxy(Source{Dir: dir}, "haproxy")
	require.NoError(t, err)

	assert.Equal(t, TransportHelper, cfg.Transport)
	assert.Equal(t, []string{"sudo", "socat"}, cfg.Helper)
	assert.Equal(t, NameColumns{Frontend: 0, Backend: 0, Server: 1}, cfg.NameColumns)
	assert.Equal(t, DefaultTimeout, cfg.Timeout())
	assert.True(t, cfg.Excluded("maintenance01"))
	assert.False(t, cfg.Excluded("web01"))
}

func TestLoadHAProxyValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no socket", "", "haproxy_stat_socket"},
		{"bad transport", "haproxy_stat_socket: /s\nhaproxy_stat_transport: tcp\n", "haproxy_stat_transport"},
		{"empty helper", "haproxy_stat_socket: /s\nhaproxy_stat_helper: []\n", "haproxy_stat_helper"},
		{"negative column", "haproxy_stat_socket: /s\nname_columns: {server: -1}\n", "name_columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "haproxy.yml"), agentYAML+tt.body)

			_, err := LoadHAProxy(Source{Dir: dir}, "haproxy")
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadHAProxySocketTransportNeedsNoHelper(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "haproxy.yml"), agentYAML+`
haproxy_stat_socket: /var/run/haproxy.sock
haproxy_stat_transport: socket
haproxy_stat_helper: []
`)

	cfg, err := LoadHAProxy(Source{Dir: dir}, "haproxy")
	require.NoError(t, err)
	assert.Equal(t, TransportSocket, cfg.Transport)
}

func TestShortHostnameFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hostname.short")
	writeFile(t, file, "  lb01  \nignored\n")

	assert.Equal(t, "lb01", ShortHostname(context.Background(), file))
}

func TestShortHostnameFallback(t *testing.T) {
	name := ShortHostname(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.NotContains(t, name, ".")
}
