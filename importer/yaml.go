package importer

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLImporter decodes YAML scenarios.
type YAMLImporter struct{}

// NewYAMLImporter creates a new YAML importer
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport reports whether content is a YAML mapping with a board.
func (i *YAMLImporter) CanImport(content string) bool {
	var probe map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(content), &probe); err != nil {
		return false
	}
	_, ok := probe["board"]
	return ok
}

// Import decodes content, rejecting unknown fields.
func (i *YAMLImporter) Import(content string) (*Scenario, error) {
	dec := yaml.NewDecoder(strings.NewReader(content))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode yaml scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetFormatName returns the format name
func (i *YAMLImporter) GetFormatName() string {
	return "YAML"
}

// GetFileExtensions returns the file extensions for YAML
func (i *YAMLImporter) GetFileExtensions() []string {
	return []string{".yaml", ".yml"}
}
