package export

import (
	"fmt"
	"strings"
)

// ASCIIExporter exports a board sketch followed by the cable list
type ASCIIExporter struct {
	sketcher *Sketcher
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter(sketcher *Sketcher) *ASCIIExporter {
	return &ASCIIExporter{sketcher: sketcher}
}

// Export renders the document as a sketch and a cable list
func (e *ASCIIExporter) Export(doc *Document) ([]byte, error) {
	cv, err := e.sketcher.Draw(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to sketch board: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(cv.String())
	sb.WriteString("\n")
	for _, c := range doc.Cables {
		defect := ""
		if c.Defect {
			defect = " DEFECT"
		}
		fmt.Fprintf(&sb, "%-10s %s -> %s  %.1fin routed, %.0fin cable (%s)%s\n",
			c.CableType, c.From, c.To, c.RoutedLengthInches, c.CalculatedLengthInches, c.Strategy, defect)
	}
	for _, w := range doc.Chain.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", w.Text)
	}
	for _, v := range doc.Errors {
		fmt.Fprintf(&sb, "invalid: %s\n", v.Error())
	}
	return []byte(sb.String()), nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
