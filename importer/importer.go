// Package importer loads pedalboard scenarios (a board, a pedal catalog, the
// placed pedals and their routing) from YAML or JSON documents.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pedalboard/core"
	"pedalboard/signalchain"
)

// Scenario is everything the engine needs for one run.
type Scenario struct {
	Board   core.Board          `json:"board" yaml:"board"`
	Catalog []core.Pedal        `json:"catalog" yaml:"catalog"`
	Placed  []core.PlacedPedal  `json:"placed" yaml:"placed"`
	Routing core.RoutingConfig  `json:"routing" yaml:"routing"`
	Context signalchain.Context `json:"context" yaml:"context"`
}

// PedalCatalog indexes the scenario's catalog.
func (s *Scenario) PedalCatalog() core.Catalog {
	return core.NewCatalog(s.Catalog)
}

// Validate checks the board and rejects duplicate or empty ids.
func (s *Scenario) Validate() error {
	if err := s.Board.Validate(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for i, p := range s.Catalog {
		if p.ID == "" {
			return fmt.Errorf("catalog entry %d has no id", i)
		}
		if p.WidthInches <= 0 || p.DepthInches <= 0 {
			return fmt.Errorf("catalog pedal %q: dimensions must be positive", p.ID)
		}
	}
	for i, pp := range s.Placed {
		if pp.ID == "" {
			return fmt.Errorf("placed pedal %d has no id", i)
		}
		if seen[pp.ID] {
			return fmt.Errorf("placed pedal %q appears more than once", pp.ID)
		}
		seen[pp.ID] = true
	}
	return nil
}

// Importer decodes one document format.
type Importer interface {
	// CanImport checks if the given content looks like this format
	CanImport(content string) bool

	// Import decodes content into a validated scenario
	Import(content string) (*Scenario, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a registry with the JSON, YAML and markdown
// importers. JSON is tried first since every JSON document is also valid YAML.
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewJSONImporter(),
			NewYAMLImporter(),
			NewMarkdownImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*Scenario, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format
func (r *ImporterRegistry) ImportWithFormat(content, format string) (*Scenario, error) {
	format = strings.ToLower(format)

	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return imp.Import(content)
		}
	}

	return nil, fmt.Errorf("unknown format: %s", format)
}

// ImportFile reads path, choosing the importer by file extension and falling
// back to detection.
func (r *ImporterRegistry) ImportFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, imp := range r.importers {
		for _, e := range imp.GetFileExtensions() {
			if e == ext {
				s, err := imp.Import(string(data))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				return s, nil
			}
		}
	}
	s, err := r.Import(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}
