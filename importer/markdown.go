package importer

import (
	"fmt"

	"pedalboard/markdown"
)

// MarkdownImporter reads the first ```pedalboard block of a markdown document.
// The block may hold YAML or JSON.
type MarkdownImporter struct {
	inner []Importer
}

// NewMarkdownImporter creates a new markdown importer
func NewMarkdownImporter() *MarkdownImporter {
	return &MarkdownImporter{inner: []Importer{NewJSONImporter(), NewYAMLImporter()}}
}

// CanImport reports whether content has a scenario block.
func (i *MarkdownImporter) CanImport(content string) bool {
	_, ok := markdown.NewScanner(content).First(markdown.LangScenario)
	return ok
}

// Import decodes the first scenario block.
func (i *MarkdownImporter) Import(content string) (*Scenario, error) {
	block, ok := markdown.NewScanner(content).First(markdown.LangScenario)
	if !ok {
		return nil, fmt.Errorf("no ```%s block found", markdown.LangScenario)
	}
	for _, imp := range i.inner {
		if imp.CanImport(block.Content) {
			s, err := imp.Import(block.Content)
			if err != nil {
				return nil, fmt.Errorf("block at line %d: %w", block.StartLine+1, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("block at line %d is not a scenario", block.StartLine+1)
}

// GetFormatName returns the format name
func (i *MarkdownImporter) GetFormatName() string {
	return "Markdown"
}

// GetFileExtensions returns the file extensions for markdown
func (i *MarkdownImporter) GetFileExtensions() []string {
	return []string{".md", ".markdown"}
}
