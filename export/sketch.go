package export

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"pedalboard/canvas"
	"pedalboard/config"
	"pedalboard/connections"
	"pedalboard/core"
	"pedalboard/geometry"
)

// Sketcher draws a board, its pedals and cables on a character canvas.
// Terminal cells are about twice as tall as they are wide, so the vertical
// scale is half the horizontal one.
type Sketcher struct {
	PixelsPerInch  float64
	ExternalOffset float64
}

// NewSketcher creates a sketcher using the configured scale.
func NewSketcher(cfg config.Config) *Sketcher {
	return &Sketcher{PixelsPerInch: cfg.PixelsPerInch, ExternalOffset: cfg.Routing.ExternalOffset}
}

// externalLabels marks the off-board endpoints.
var externalLabels = map[core.External]string{
	core.ExternalGuitar:    "G",
	core.ExternalAmpInput:  "A",
	core.ExternalAmpSend:   "S",
	core.ExternalAmpReturn: "R",
}

type projection struct {
	sx, sy float64
	mx, my int
}

func (p projection) cell(pt geometry.Point) canvas.Cell {
	return canvas.Cell{
		X: p.mx + int(math.Round(pt.X*p.sx)),
		Y: p.my + int(math.Round(pt.Y*p.sy)),
	}
}

// Draw renders doc onto a new canvas.
func (s *Sketcher) Draw(doc *Document) (*canvas.MatrixCanvas, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if err := doc.Board.Validate(); err != nil {
		return nil, err
	}
	ppi := s.PixelsPerInch
	if ppi <= 0 {
		ppi = config.Default().PixelsPerInch
	}
	proj := projection{sx: ppi, sy: ppi / 2}
	proj.mx = int(math.Ceil(s.ExternalOffset*proj.sx)) + 2
	proj.my = 1

	origin := proj.cell(geometry.Pt(0, 0))
	corner := proj.cell(geometry.Pt(doc.Board.WidthInches, doc.Board.DepthInches))
	cv, err := canvas.NewMatrixCanvas(corner.X+proj.mx+1, corner.Y+proj.my+1)
	if err != nil {
		return nil, err
	}

	_ = cv.DrawBox(origin.X, origin.Y, corner.X-origin.X+1, corner.Y-origin.Y+1, canvas.BoardStyle)
	for _, r := range doc.Board.Rails {
		y := proj.cell(geometry.Pt(0, r.PositionInches)).Y
		if y > origin.Y && y < corner.Y {
			_ = cv.DrawHorizontalLine(origin.X+1, y, corner.X-1, '┈')
		}
	}

	externals := map[core.External]bool{core.ExternalGuitar: true, core.ExternalAmpInput: true}
	for _, c := range doc.Cables {
		for _, e := range []core.Endpoint{c.From, c.To} {
			if e.IsExternal() {
				externals[e.External] = true
			}
		}
		cells := lo.Map(c.Path, func(p geometry.Point, _ int) canvas.Cell { return proj.cell(p) })
		cells = dedupeCells(cells)
		if len(cells) < 2 {
			continue
		}
		_ = cv.DrawPath(cells)
	}

	flagged := map[string]bool{}
	for _, col := range doc.Collisions {
		flagged[col.A], flagged[col.B] = true, true
	}
	for _, b := range doc.OutOfBounds {
		flagged[b.ID] = true
	}
	for _, pp := range doc.Placed {
		if !pp.IsActive {
			continue
		}
		pedal, ok := doc.Catalog.Lookup(pp.PedalID)
		if !ok {
			continue
		}
		box := pp.Box(pedal)
		tl := proj.cell(geometry.Pt(box.X, box.Y))
		br := proj.cell(geometry.Pt(box.Right(), box.Bottom()))
		w, h := geometry.Max(float64(br.X-tl.X+1), 2), geometry.Max(float64(br.Y-tl.Y+1), 2)
		_ = cv.DrawBox(tl.X, tl.Y, int(w), int(h), canvas.DefaultBoxStyle)

		label := pp.ID
		if flagged[pp.ID] {
			label = "!" + label
		}
		label = canvas.FitText(label, int(w)-2, "…")
		if label != "" {
			_ = cv.DrawText(canvas.CenterText(label, tl.X+1, tl.X+int(w)-2), tl.Y+int(h)/2, label)
		}
	}

	for _, e := range []core.External{core.ExternalGuitar, core.ExternalAmpInput, core.ExternalAmpSend, core.ExternalAmpReturn} {
		if !externals[e] {
			continue
		}
		at := proj.cell(connections.ExternalPosition(e, doc.Board, s.ExternalOffset))
		_ = cv.DrawText(at.X, at.Y, externalLabels[e])
	}
	return cv, nil
}

func dedupeCells(cells []canvas.Cell) []canvas.Cell {
	out := make([]canvas.Cell, 0, len(cells))
	for _, c := range cells {
		if len(out) > 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	return out
}
