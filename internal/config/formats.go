package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// parseTOML reads a .todoview.toml file. Keys mirror the KDL layout:
//
//	categories = ["TODO", "FIXME"]
//	[exclude]
//	folders = [".git"]
func parseTOML(content []byte) (*fileConfig, error) {
	fc := &fileConfig{}
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return fc, nil
}

// parseYAML reads a .todoview.yaml file with the same keys as the TOML form
func parseYAML(content []byte) (*fileConfig, error) {
	fc := &fileConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil {
		// An empty document decodes to io.EOF
		if len(bytes.TrimSpace(content)) == 0 {
			return fc, nil
		}
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return fc, nil
}
