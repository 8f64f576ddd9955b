// Package core contains the data model shared by every stage of the pedalboard
// engine: boards, catalog pedals, placed pedals, routing configuration and the
// derived cables and collisions.
package core

import (
	"fmt"

	"pedalboard/geometry"
)

// Side identifies an edge of a pedal enclosure.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// sideCycle is the clockwise order used to remap sides under rotation.
var sideCycle = [4]Side{SideTop, SideRight, SideBottom, SideLeft}

// Index returns the position of s in the clockwise cycle, or -1 if unknown.
func (s Side) Index() int {
	for i, c := range sideCycle {
		if c == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool {
	return s.Index() >= 0
}

// Rotate returns the side s ends up on after rotating the enclosure clockwise
// by deg degrees.
func (s Side) Rotate(deg int) Side {
	i := s.Index()
	if i < 0 {
		return s
	}
	return sideCycle[(i+geometry.RotationSteps(deg))%4]
}

// Opposite returns the side facing away from s.
func (s Side) Opposite() Side {
	return s.Rotate(180)
}

// Normal returns the outward unit vector of the side.
func (s Side) Normal() geometry.Point {
	switch s {
	case SideTop:
		return geometry.Pt(0, -1)
	case SideRight:
		return geometry.Pt(1, 0)
	case SideBottom:
		return geometry.Pt(0, 1)
	case SideLeft:
		return geometry.Pt(-1, 0)
	}
	return geometry.Point{}
}

// Signal flows from the right edge of the board (guitar) to the left (amp).
const (
	EntrySide = SideRight
	ExitSide  = SideLeft
)

// JackType identifies the function of a jack.
type JackType string

const (
	JackInput      JackType = "input"
	JackOutput     JackType = "output"
	JackSend       JackType = "send"
	JackReturn     JackType = "return"
	JackPower      JackType = "power"
	JackExpression JackType = "expression"
)

// Jack is a connector on a pedal, located along one side of the enclosure.
type Jack struct {
	Type            JackType `json:"type" yaml:"type"`
	Side            Side     `json:"side" yaml:"side"`
	PositionPercent float64  `json:"positionPercent" yaml:"positionPercent"`
}

// Category is the closed set of pedal families used for chain ordering.
type Category string

const (
	CategoryTuner      Category = "tuner"
	CategoryFilter     Category = "filter"
	CategoryCompressor Category = "compressor"
	CategoryPitch      Category = "pitch"
	CategoryFuzz       Category = "fuzz"
	CategoryBoost      Category = "boost"
	CategoryOverdrive  Category = "overdrive"
	CategoryDistortion Category = "distortion"
	CategoryNoiseGate  Category = "noise_gate"
	CategoryEQ         Category = "eq"
	CategoryPreamp     Category = "preamp"
	CategoryModulation Category = "modulation"
	CategoryTremolo    Category = "tremolo"
	CategoryVolume     Category = "volume"
	CategoryDelay      Category = "delay"
	CategoryReverb     Category = "reverb"
	CategoryLooper     Category = "looper"
	CategoryMultiFX    Category = "multi_fx"
	CategoryUtility    Category = "utility"
	CategoryPower      Category = "power"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryTuner, CategoryFilter, CategoryCompressor, CategoryPitch, CategoryFuzz,
	CategoryBoost, CategoryOverdrive, CategoryDistortion, CategoryNoiseGate, CategoryEQ,
	CategoryPreamp, CategoryModulation, CategoryTremolo, CategoryVolume, CategoryDelay,
	CategoryReverb, CategoryLooper, CategoryMultiFX, CategoryUtility, CategoryPower,
}

// IsDrive reports whether c is a gain stage that a noise gate should follow.
func (c Category) IsDrive() bool {
	return c == CategoryOverdrive || c == CategoryDistortion || c == CategoryFuzz
}

// IsTimeBased reports whether c is a delay or reverb.
func (c Category) IsTimeBased() bool {
	return c == CategoryDelay || c == CategoryReverb
}

// Pedal is an immutable catalog entry.
type Pedal struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Brand       string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Category    Category `json:"category" yaml:"category"`
	WidthInches float64  `json:"widthInches" yaml:"widthInches"`
	DepthInches float64  `json:"depthInches" yaml:"depthInches"`
	Jacks       []Jack   `json:"jacks,omitempty" yaml:"jacks,omitempty"`

	OrderOverride     *int `json:"orderOverride,omitempty" yaml:"orderOverride,omitempty"`
	NeedsDirectPickup bool `json:"needsDirectPickup,omitempty" yaml:"needsDirectPickup,omitempty"`
	Buffered          bool `json:"buffered,omitempty" yaml:"buffered,omitempty"`
	Supports4Cable    bool `json:"supports4Cable,omitempty" yaml:"supports4Cable,omitempty"`
	HighGain          bool `json:"highGain,omitempty" yaml:"highGain,omitempty"`
}

// Jack returns the first jack of the given type.
func (p Pedal) Jack(t JackType) (Jack, bool) {
	for _, j := range p.Jacks {
		if j.Type == t {
			return j, true
		}
	}
	return Jack{}, false
}

// HasJack reports whether the pedal exposes a jack of type t.
func (p Pedal) HasJack(t JackType) bool {
	_, ok := p.Jack(t)
	return ok
}

// IsHighGain reports whether the pedal adds enough gain to need gating.
func (p Pedal) IsHighGain() bool {
	return p.HighGain || p.Category == CategoryDistortion || p.Category == CategoryFuzz
}

// Rail is a mounting strip running the width of the board, positioned by its
// distance from the back edge.
type Rail struct {
	PositionInches float64 `json:"positionInches" yaml:"positionInches"`
}

// Board is the rectangular mounting surface.
type Board struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	WidthInches float64 `json:"widthInches" yaml:"widthInches"`
	DepthInches float64 `json:"depthInches" yaml:"depthInches"`
	Rails       []Rail  `json:"rails,omitempty" yaml:"rails,omitempty"`
}

// Bounds returns the board surface as a box anchored at the origin.
func (b Board) Bounds() geometry.Box {
	return geometry.NewBox(0, 0, b.WidthInches, b.DepthInches)
}

// Validate checks the board dimensions and rail positions.
func (b Board) Validate() error {
	if b.WidthInches <= 0 || b.DepthInches <= 0 {
		return fmt.Errorf("board %q: dimensions must be positive, got %gx%g", b.ID, b.WidthInches, b.DepthInches)
	}
	for i, r := range b.Rails {
		if r.PositionInches < 0 || r.PositionInches > b.DepthInches {
			return fmt.Errorf("board %q: rail %d at %g lies outside [0,%g]", b.ID, i, r.PositionInches, b.DepthInches)
		}
	}
	return nil
}

// Location is the routing zone a placed pedal belongs to.
type Location string

const (
	LocationFrontOfAmp   Location = "front_of_amp"
	LocationEffectsLoop  Location = "effects_loop"
	LocationFourCableHub Location = "four_cable_hub"
)

// Locations lists the zones in signal order.
var Locations = []Location{LocationFrontOfAmp, LocationFourCableHub, LocationEffectsLoop}

// Rank orders zones along the signal path. Unknown zones sort with the front.
func (l Location) Rank() int {
	switch l {
	case LocationFourCableHub:
		return 1
	case LocationEffectsLoop:
		return 2
	}
	return 0
}

// Normalize maps the empty location to front-of-amp.
func (l Location) Normalize() Location {
	if l == "" {
		return LocationFrontOfAmp
	}
	return l
}

// PlacedPedal is one instance of a catalog pedal on a board.
type PlacedPedal struct {
	ID              string   `json:"id" yaml:"id"`
	PedalID         string   `json:"pedalId" yaml:"pedalId"`
	X               float64  `json:"x" yaml:"x"`
	Y               float64  `json:"y" yaml:"y"`
	RotationDegrees int      `json:"rotationDegrees,omitempty" yaml:"rotationDegrees,omitempty"`
	ChainPosition   int      `json:"chainPosition" yaml:"chainPosition"`
	Location        Location `json:"location,omitempty" yaml:"location,omitempty"`
	IsActive        bool     `json:"isActive" yaml:"isActive"`
}

// Rotation returns the rotation normalized to {0, 90, 180, 270}.
func (pp PlacedPedal) Rotation() int {
	return geometry.NormalizeRotation(pp.RotationDegrees)
}

// Box returns the rotation-adjusted bounding box of the placement.
func (pp PlacedPedal) Box(p Pedal) geometry.Box {
	w, h := geometry.RotatedSize(p.WidthInches, p.DepthInches, pp.RotationDegrees)
	return geometry.NewBox(pp.X, pp.Y, w, h)
}

// Position is an optimizer result for one placement.
type Position struct {
	ID string  `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// RoutingMode describes how a pedal is wired.
type RoutingMode string

const (
	ModeStandard  RoutingMode = "standard"
	ModeLoop      RoutingMode = "loop"
	ModeFourCable RoutingMode = "4cable"
)

// PedalRouting configures one pedal's routing. In loop mode, LoopPedalIDs are
// wired in order between the pedal's send and return jacks.
type PedalRouting struct {
	PlacedPedalID string      `json:"pedalId" yaml:"pedalId"`
	Mode          RoutingMode `json:"mode" yaml:"mode"`
	LoopPedalIDs  []string    `json:"loopPedalIds,omitempty" yaml:"loopPedalIds,omitempty"`
}

// RoutingConfig holds the global routing switches and per-pedal overrides.
type RoutingConfig struct {
	UseEffectsLoop  bool           `json:"useEffectsLoop" yaml:"useEffectsLoop"`
	Use4CableMethod bool           `json:"use4CableMethod" yaml:"use4CableMethod"`
	RoutePower      bool           `json:"routePower,omitempty" yaml:"routePower,omitempty"`
	Pedals          []PedalRouting `json:"pedals,omitempty" yaml:"pedals,omitempty"`
}

// For returns the routing entry for a placed pedal, defaulting to standard.
func (rc RoutingConfig) For(placedID string) PedalRouting {
	for _, pr := range rc.Pedals {
		if pr.PlacedPedalID == placedID {
			return pr
		}
	}
	return PedalRouting{PlacedPedalID: placedID, Mode: ModeStandard}
}
