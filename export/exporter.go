// Package export writes engine results in text and binary formats.
package export

import (
	"fmt"

	"pedalboard/config"
	"pedalboard/core"
	"pedalboard/signalchain"
	"pedalboard/validation"
)

// Format represents an export format
type Format string

const (
	// FormatASCII sketches the board with box-drawing characters
	FormatASCII Format = "ascii"
	// FormatJSON writes the full result as indented JSON
	FormatJSON Format = "json"
	// FormatYAML writes the full result as YAML
	FormatYAML Format = "yaml"
	// FormatMsgpack writes the full result as MessagePack
	FormatMsgpack Format = "msgpack"
)

// Document is one engine result ready for export.
type Document struct {
	Board       core.Board                   `json:"board" yaml:"board"`
	Catalog     core.Catalog                 `json:"-" yaml:"-"`
	Placed      []core.PlacedPedal           `json:"placed" yaml:"placed"`
	Chain       signalchain.Result           `json:"chain" yaml:"chain"`
	Cables      []core.Cable                 `json:"cables" yaml:"cables"`
	Collisions  []core.Collision             `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	OutOfBounds []core.BoundsViolation       `json:"outOfBounds,omitempty" yaml:"outOfBounds,omitempty"`
	Errors      []validation.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Exporter interface for different export formats
type Exporter interface {
	// Export encodes a document in the target format
	Export(doc *Document) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format. The ASCII sketch
// is scaled by cfg.PixelsPerInch.
func NewExporter(format Format, cfg config.Config) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(NewSketcher(cfg)), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatMsgpack:
		return NewMsgpackExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatJSON,
		FormatYAML,
		FormatMsgpack,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:   "Board sketch in box-drawing characters",
		FormatJSON:    "Full result as JSON",
		FormatYAML:    "Full result as YAML",
		FormatMsgpack: "Full result as MessagePack",
	}
}
