// Package config holds the engine tunables. Every constant that shapes
// collision grading, layout search or cable routing lives here so a host can
// override it from YAML.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Collision CollisionConfig `yaml:"collision"`
	Layout    LayoutConfig    `yaml:"layout"`
	Routing   RoutingConfig   `yaml:"routing"`
	Cables    CableConfig     `yaml:"cables"`

	// PixelsPerInch scales inch geometry for previews and ASCII export.
	PixelsPerInch float64 `yaml:"pixelsPerInch"`
}

// CollisionConfig controls collision grading and empty-spot search.
type CollisionConfig struct {
	// OverlapAreaThreshold is the intersection area, in square inches, above
	// which a collision is graded as an overlap instead of a clearance issue.
	OverlapAreaThreshold float64 `yaml:"overlapAreaThreshold"`
	ScanStep             float64 `yaml:"scanStep"`
	RailSnapDistance     float64 `yaml:"railSnapDistance"`
	PlacementSpacing     float64 `yaml:"placementSpacing"`
}

// LayoutConfig controls the layout optimizer.
type LayoutConfig struct {
	MinSpacing       float64 `yaml:"minSpacing"`
	MinClearance     float64 `yaml:"minClearance"`
	RowGap           float64 `yaml:"rowGap"`
	MaxPasses        int     `yaml:"maxPasses"`
	NudgeStep        float64 `yaml:"nudgeStep"`
	Epsilon          float64 `yaml:"epsilon"`
	CrossingPenalty  float64 `yaml:"crossingPenalty"`
	SpacingPenalty   float64 `yaml:"spacingPenalty"`
	CollisionPenalty float64 `yaml:"collisionPenalty"`
	JointMaxGroup    int     `yaml:"jointMaxGroup"`
}

// RoutingConfig controls the cable router.
type RoutingConfig struct {
	Standoff          float64 `yaml:"standoff"`
	ObstacleMargin    float64 `yaml:"obstacleMargin"`
	GridCell          float64 `yaml:"gridCell"`
	GridPadding       float64 `yaml:"gridPadding"`
	MaxNodes          int     `yaml:"maxNodes"`
	DirectMaxDistance float64 `yaml:"directMaxDistance"`
	AxisTolerance     float64 `yaml:"axisTolerance"`
	ZigzagThreshold   float64 `yaml:"zigzagThreshold"`
	ExternalOffset    float64 `yaml:"externalOffset"`
	EmergencyOffset   float64 `yaml:"emergencyOffset"`
	TurnCost          float64 `yaml:"turnCost"`
	MarginCost        float64 `yaml:"marginCost"`
	EndpointCost      float64 `yaml:"endpointCost"`
	CacheSize         int     `yaml:"cacheSize"`
}

// CableConfig controls cable length rounding.
type CableConfig struct {
	SlackInches  float64   `yaml:"slackInches"`
	StockLengths []float64 `yaml:"stockLengths"`
	RoundUpStep  float64   `yaml:"roundUpStep"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Collision: CollisionConfig{
			OverlapAreaThreshold: 0.5,
			ScanStep:             0.5,
			RailSnapDistance:     1.0,
			PlacementSpacing:     0.5,
		},
		Layout: LayoutConfig{
			MinSpacing:       0.5,
			MinClearance:     0.75,
			RowGap:           0.5,
			MaxPasses:        30,
			NudgeStep:        0.5,
			Epsilon:          0.01,
			CrossingPenalty:  6,
			SpacingPenalty:   40,
			CollisionPenalty: 60,
			JointMaxGroup:    4,
		},
		Routing: RoutingConfig{
			Standoff:          0.5,
			ObstacleMargin:    0.25,
			GridCell:          0.25,
			GridPadding:       2.0,
			MaxNodes:          60000,
			DirectMaxDistance: 2.0,
			AxisTolerance:     0.75,
			ZigzagThreshold:   0.3,
			ExternalOffset:    1.0,
			EmergencyOffset:   3.0,
			TurnCost:          0.5,
			MarginCost:        2.0,
			EndpointCost:      8.0,
			CacheSize:         512,
		},
		Cables: CableConfig{
			SlackInches:  2.0,
			StockLengths: []float64{6, 12, 18, 24, 36, 48, 72, 120},
			RoundUpStep:  12,
		},
		PixelsPerInch: 2,
	}
}

// Load reads a YAML file and overlays it on the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML from r on top of Default and validates the result.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that would make the search unbounded or degenerate.
func (c Config) Validate() error {
	switch {
	case c.Collision.ScanStep <= 0:
		return fmt.Errorf("collision.scanStep must be positive")
	case c.Collision.OverlapAreaThreshold < 0:
		return fmt.Errorf("collision.overlapAreaThreshold must not be negative")
	case c.Layout.MaxPasses < 0:
		return fmt.Errorf("layout.maxPasses must not be negative")
	case c.Layout.NudgeStep <= 0:
		return fmt.Errorf("layout.nudgeStep must be positive")
	case c.Routing.GridCell <= 0:
		return fmt.Errorf("routing.gridCell must be positive")
	case c.Routing.MaxNodes <= 0:
		return fmt.Errorf("routing.maxNodes must be positive")
	case c.Routing.Standoff < 0 || c.Routing.ObstacleMargin < 0:
		return fmt.Errorf("routing.standoff and routing.obstacleMargin must not be negative")
	case len(c.Cables.StockLengths) == 0:
		return fmt.Errorf("cables.stockLengths must not be empty")
	case c.Cables.RoundUpStep <= 0:
		return fmt.Errorf("cables.roundUpStep must be positive")
	}
	for i := 1; i < len(c.Cables.StockLengths); i++ {
		if c.Cables.StockLengths[i] <= c.Cables.StockLengths[i-1] {
			return fmt.Errorf("cables.stockLengths must be strictly increasing")
		}
	}
	return nil
}
