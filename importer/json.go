package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JSONImporter decodes JSON scenarios.
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport reports whether content is a JSON object.
func (i *JSONImporter) CanImport(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed))
}

// Import decodes content, rejecting unknown fields.
func (i *JSONImporter) Import(content string) (*Scenario, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode json scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetFormatName returns the format name
func (i *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns the file extensions for JSON
func (i *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}
