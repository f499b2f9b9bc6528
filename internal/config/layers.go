// Package config loads layered probe configuration.
//
// Each probe reads up to three YAML files, every one optional:
//
//	<dir>/<probe>.yml          base settings
//	<dir>/agent.yml            monitoring agent settings (health taxonomy)
//	<dir>/<host>/<probe>.yml   per-host overrides
//
// Later files replace earlier ones key by key at the top level.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AgentFile is the monitoring agent layer shared by all probes.
const AgentFile = "agent.yml"

// Source locates the configuration files of a probe.
type Source struct {
	Dir      string
	Hostname string
}

// Paths returns the layer files for probeName, lowest precedence first.
func (s Source) Paths(probeName string) []string {
	paths := []string{
		filepath.Join(s.Dir, probeName+".yml"),
		filepath.Join(s.Dir, AgentFile),
	}
	if s.Hostname != "" {
		paths = append(paths, filepath.Join(s.Dir, s.Hostname, probeName+".yml"))
	}
	return paths
}

// Load reads every existing layer in paths and merges them.
func Load(paths []string) (*yaml.Node, error) {
	var layers []*yaml.Node
	for _, path := range paths {
		layer, err := readLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			slog.Debug("config layer not found", "path", path)
			continue
		}
		slog.Debug("loaded config layer", "path", path)
		layers = append(layers, layer)
	}
	return Merge(layers...), nil
}

// readLayer returns the top-level mapping of a YAML file, or nil when the
// file does not exist or is empty.
func readLayer(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: top level must be a mapping", path)
	}
	return root, nil
}

// Merge overlays mapping nodes key by key; a key in a later layer replaces
// the whole value of the same key in earlier layers. Key order follows first
// appearance.
func Merge(layers ...*yaml.Node) *yaml.Node {
	merged := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	index := make(map[string]int)
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		for i := 0; i+1 < len(layer.Content); i += 2 {
			key, value := layer.Content[i], layer.Content[i+1]
			if j, ok := index[key.Value]; ok {
				merged.Content[j+1] = value
				continue
			}
			index[key.Value] = len(merged.Content)
			merged.Content = append(merged.Content, key, value)
		}
	}
	return merged
}

// LoadElastic loads and validates the Elasticsearch probe configuration.
// When the files decode but validation fails, the config is returned along
// with the error so callers can still use its health map.
func LoadElastic(src Source, probeName string) (*Elastic, error) {
	cfg := defaultElastic()
	if err := decode(src.Paths(probeName), cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadHAProxy loads and validates the HAProxy probe configuration, with the
// same partial-result contract as LoadElastic.
func LoadHAProxy(src Source, probeName string) (*HAProxy, error) {
	cfg := defaultHAProxy()
	if err := decode(src.Paths(probeName), cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func decode(paths []string, out any) error {
	merged, err := Load(paths)
	if err != nil {
		return err
	}
	if err := merged.Decode(out); err != nil {
		return fmt.Errorf("decode configuration: %w", err)
	}
	return nil
}
