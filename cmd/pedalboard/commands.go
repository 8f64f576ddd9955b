package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"pedalboard"
	"pedalboard/core"
	"pedalboard/export"
	"pedalboard/geometry"
	"pedalboard/layout"
	"pedalboard/markdown"
	"pedalboard/terminal"
)

func newChainCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chain <scenario>",
		Short: "Order the active pedals into a signal chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			sc := s.scenario
			res := s.engine.ComputeSignalChain(sc.Placed, s.catalog, sc.Context)
			doc := &export.Document{Board: sc.Board, Catalog: s.catalog, Placed: sc.Placed, Chain: res}
			return opts.emit(cmd, s, doc, func(p *printer) {
				p.chain(res, s.catalog)
			})
		},
	}
}

func newCollisionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "collisions <scenario>",
		Short: "Report overlapping pedals and pedals off the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			sc := s.scenario
			doc := &export.Document{
				Board:       sc.Board,
				Catalog:     s.catalog,
				Placed:      sc.Placed,
				Collisions:  s.engine.DetectCollisions(sc.Placed, s.catalog),
				OutOfBounds: s.engine.OutOfBounds(sc.Placed, s.catalog, sc.Board),
			}
			return opts.emit(cmd, s, doc, func(p *printer) {
				p.collisions(doc.Collisions, doc.OutOfBounds)
			})
		},
	}
}

func newPlaceCommand(opts *options) *cobra.Command {
	var (
		pedalID  string
		id       string
		rotation int
		position int
		at       []float64
	)

	cmd := &cobra.Command{
		Use:   "place <scenario>",
		Short: "Find a free spot for a new pedal",
		Long: `Find a free spot on the board for a pedal from the catalog. The search
starts near the part of the board that matches the pedal's chain position, so
a pedal late in the chain is placed towards the amp side. With --at the pedal is
dropped at the given corner and snapped onto a nearby rail instead.`,
		Example: `  pedalboard place --pedal dd3 board.yaml
  pedalboard place --pedal klon --id drive2 --position 1 board.yaml
  pedalboard place --pedal dd3 --at 2,7 board.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			sc := s.scenario
			pedal, ok := s.catalog.Lookup(pedalID)
			if !ok {
				return fmt.Errorf("pedal %q is not in the catalog", pedalID)
			}
			if id == "" {
				id = pedalID
			}
			if lo.ContainsBy(sc.Placed, func(pp core.PlacedPedal) bool { return pp.ID == id }) {
				return fmt.Errorf("placement %q already exists, choose another --id", id)
			}
			if position <= 0 {
				position = lo.CountBy(sc.Placed, func(pp core.PlacedPedal) bool { return pp.IsActive }) + 1
			}

			pp := core.PlacedPedal{ID: id, PedalID: pedalID, RotationDegrees: rotation, IsActive: true}
			found := false
			if len(at) > 0 {
				if len(at) != 2 {
					return fmt.Errorf("--at takes two values, x,y")
				}
				pp.X, pp.Y = at[0], at[1]
				pp, found = s.engine.DropPedal(pp, sc.Placed, s.catalog, sc.Board, position)
			} else {
				var spot geometry.Point
				spot, found = s.engine.FindEmptySpot(pedal, rotation, sc.Placed, s.catalog, sc.Board, position)
				pp.X, pp.Y = spot.X, spot.Y
			}
			if !found {
				return fmt.Errorf("no room for %s on the %gx%gin board", pedalID, sc.Board.WidthInches, sc.Board.DepthInches)
			}
			placed := append(append([]core.PlacedPedal(nil), sc.Placed...), pp)
			out := s.engine.Recompute(pedalboard.Input{
				Board:   sc.Board,
				Catalog: s.catalog,
				Placed:  placed,
				Routing: sc.Routing,
				Context: sc.Context,
			})
			return opts.emit(cmd, s, out.Document(sc.Board, s.catalog), func(p *printer) {
				p.line(p.success, "placed %s (%s) at %s", id, pedalName(pedal), geometry.Pt(pp.X, pp.Y))
				p.chain(out.Chain, s.catalog)
			})
		},
	}

	cmd.Flags().StringVar(&pedalID, "pedal", "", "Catalog id of the pedal to place (required)")
	cmd.Flags().StringVar(&id, "id", "", "Id of the new placement (default: the pedal id)")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "Rotation in degrees (0, 90, 180, 270)")
	cmd.Flags().IntVar(&position, "position", 0, "Chain position the pedal will take (default: last)")
	cmd.Flags().Float64SliceVar(&at, "at", nil, "Drop the pedal with its top-left corner at x,y")
	cmd.MarkFlagRequired("pedal")

	return cmd
}

func newOptimizeCommand(opts *options) *cobra.Command {
	var joint bool

	cmd := &cobra.Command{
		Use:   "optimize <scenario>",
		Short: "Move pedals to shorten and untangle the cables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			sc := s.scenario
			res := s.engine.OptimizeLayout(layout.Problem{
				Board:   sc.Board,
				Placed:  sc.Placed,
				Routing: sc.Routing,
				Context: sc.Context,
			}, s.catalog, joint)
			doc := &export.Document{
				Board:       sc.Board,
				Catalog:     s.catalog,
				Placed:      res.Placed,
				Chain:       res.Chain,
				Cables:      res.Cables,
				Collisions:  s.engine.DetectCollisions(res.Placed, s.catalog),
				OutOfBounds: s.engine.OutOfBounds(res.Placed, s.catalog, sc.Board),
			}
			return opts.emit(cmd, s, doc, func(p *printer) {
				p.positions(res.Positions, &res.Cost)
				p.line(p.muted, "%d passes, %d moves", res.Passes, res.Moves)
				p.collisions(doc.Collisions, doc.OutOfBounds)
			})
		},
	}

	cmd.Flags().BoolVar(&joint, "joint", false, "Also swap the chain order of interchangeable neighbours")

	return cmd
}

func newRouteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "route <scenario>",
		Short: "Route the patch cables for the current positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			sc := s.scenario
			chain := s.engine.ComputeSignalChain(sc.Placed, s.catalog, sc.Context)
			cables := s.engine.RouteCables(sc.Board, sc.Placed, s.catalog, sc.Routing, sc.Context)
			doc := &export.Document{Board: sc.Board, Catalog: s.catalog, Placed: sc.Placed, Chain: chain, Cables: cables}
			return opts.emit(cmd, s, doc, func(p *printer) {
				p.cables(cables)
			})
		},
	}
}

func parseMode(mode string) (pedalboard.OptimizeMode, error) {
	switch mode {
	case "", "none":
		return pedalboard.OptimizeNone, nil
	case string(pedalboard.OptimizeLayout), string(pedalboard.OptimizeJoint):
		return pedalboard.OptimizeMode(mode), nil
	}
	return "", fmt.Errorf("unknown optimize mode %q (none, layout, joint)", mode)
}

func (s *session) recompute(mode string) (pedalboard.Output, error) {
	m, err := parseMode(mode)
	if err != nil {
		return pedalboard.Output{}, err
	}
	sc := s.scenario
	return s.engine.Recompute(pedalboard.Input{
		Board:    sc.Board,
		Catalog:  s.catalog,
		Placed:   sc.Placed,
		Routing:  sc.Routing,
		Context:  sc.Context,
		Optimize: m,
	}), nil
}

// writeSketch renders doc into the ```pedalboard-sketch block of the markdown
// file at path.
func writeSketch(cmd *cobra.Command, path string, s *session, doc *export.Document) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	scanner := markdown.NewScanner(string(data))
	block, ok := scanner.First(markdown.LangSketch)
	if !ok {
		return fmt.Errorf("%s has no ```%s block", path, markdown.LangSketch)
	}
	if err := scanner.ValidateBlockUnchanged(block); err != nil {
		return err
	}
	sketch, err := export.NewSketcher(s.cfg).Draw(doc)
	if err != nil {
		return err
	}
	updated, err := scanner.ReplaceBlock(block, sketch.String())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "updated %s\n", markdown.FormatBlockInfo(block, 0))
	return nil
}

func newRecomputeCommand(opts *options) *cobra.Command {
	var (
		mode         string
		updateSketch bool
	)

	cmd := &cobra.Command{
		Use:   "recompute <scenario>",
		Short: "Run the whole pipeline: chain, layout, collisions and cables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			out, err := s.recompute(mode)
			if err != nil {
				return err
			}
			doc := out.Document(s.scenario.Board, s.catalog)
			if updateSketch {
				if err := writeSketch(cmd, args[0], s, doc); err != nil {
					return err
				}
			}
			return opts.emit(cmd, s, doc, func(p *printer) {
				if sketch, err := export.NewSketcher(s.cfg).Draw(doc); err == nil {
					p.raw(sketch.String())
				} else {
					p.line(p.warning, "sketch unavailable: %v", err)
				}
				p.chain(out.Chain, s.catalog)
				p.cables(out.Cables)
				if out.Cost != nil {
					p.positions(out.Positions, out.Cost)
				}
				p.collisions(out.Collisions, out.OutOfBounds)
				p.errors(out.Errors)
			})
		},
	}

	cmd.Flags().StringVar(&mode, "optimize", "", "Optimize positions first: none, layout or joint")
	cmd.Flags().BoolVar(&updateSketch, "update-sketch", false, "Rewrite the ```pedalboard-sketch block of a markdown scenario")

	return cmd
}

func newPreviewCommand(opts *options) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "preview <scenario>",
		Short: "Show the board in an interactive terminal view",
		Long: `Show the routed board in the terminal. Arrow keys scroll, + and - zoom,
c toggles the cables and q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(args[0])
			if err != nil {
				return err
			}
			out, err := s.recompute(mode)
			if err != nil {
				return err
			}
			return terminal.Show(out.Document(s.scenario.Board, s.catalog), export.NewSketcher(s.cfg))
		},
	}

	cmd.Flags().StringVar(&mode, "optimize", "", "Optimize positions first: none, layout or joint")

	return cmd
}
