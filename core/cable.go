package core

import (
	"fmt"

	"pedalboard/geometry"
)

// External names a fixed point off the board.
type External string

const (
	ExternalGuitar    External = "guitar"
	ExternalAmpInput  External = "amp_input"
	ExternalAmpSend   External = "amp_send"
	ExternalAmpReturn External = "amp_return"
)

// Endpoint is one end of a cable: either an external point or a jack on a
// placed pedal.
type Endpoint struct {
	External      External `json:"external,omitempty" yaml:"external,omitempty"`
	PlacedPedalID string   `json:"pedalId,omitempty" yaml:"pedalId,omitempty"`
	Jack          JackType `json:"jack,omitempty" yaml:"jack,omitempty"`
}

// ExternalEndpoint returns an endpoint for a point off the board.
func ExternalEndpoint(e External) Endpoint {
	return Endpoint{External: e}
}

// JackEndpoint returns an endpoint on a placed pedal's jack.
func JackEndpoint(placedID string, jack JackType) Endpoint {
	return Endpoint{PlacedPedalID: placedID, Jack: jack}
}

// IsExternal reports whether the endpoint is off the board.
func (e Endpoint) IsExternal() bool {
	return e.External != ""
}

func (e Endpoint) String() string {
	if e.IsExternal() {
		return string(e.External)
	}
	return fmt.Sprintf("%s.%s", e.PlacedPedalID, e.Jack)
}

// CableType classifies a cable for the bill of materials.
type CableType string

const (
	CablePatch      CableType = "patch"
	CableInstrument CableType = "instrument"
	CablePower      CableType = "power"
)

// Cable is a derived connection with its routed path.
type Cable struct {
	ID                     string           `json:"id" yaml:"id" msgpack:"id"`
	From                   Endpoint         `json:"from" yaml:"from" msgpack:"from"`
	To                     Endpoint         `json:"to" yaml:"to" msgpack:"to"`
	Path                   []geometry.Point `json:"path" yaml:"path" msgpack:"path"`
	Strategy               string           `json:"strategy" yaml:"strategy" msgpack:"strategy"`
	RoutedLengthInches     float64          `json:"routedLengthInches" yaml:"routedLengthInches" msgpack:"routedLengthInches"`
	CalculatedLengthInches float64          `json:"calculatedLengthInches" yaml:"calculatedLengthInches" msgpack:"calculatedLengthInches"`
	CableType              CableType        `json:"cableType" yaml:"cableType" msgpack:"cableType"`
	Defect                 bool             `json:"defect,omitempty" yaml:"defect,omitempty" msgpack:"defect,omitempty"`
}

// Severity grades a collision.
type Severity string

const (
	SeverityOverlap   Severity = "overlap"
	SeverityClearance Severity = "clearance"
)

// Collision is an unordered pair of overlapping placements. A sorts before B.
type Collision struct {
	A        string   `json:"a" yaml:"a"`
	B        string   `json:"b" yaml:"b"`
	Severity Severity `json:"severity" yaml:"severity"`
	Area     float64  `json:"area" yaml:"area"`
}

// BoundsViolation reports a placement that leaves the board surface.
type BoundsViolation struct {
	ID  string       `json:"id" yaml:"id"`
	Box geometry.Box `json:"box" yaml:"box"`
}
