// Package terminal shows an interactive board preview in the terminal.
package terminal

import (
	"fmt"

	"github.com/flanksource/commons/logger"
	"github.com/gdamore/tcell/v2"

	"pedalboard/canvas"
	"pedalboard/export"
)

var log = logger.GetLogger("terminal")

const (
	minZoom = 1
	maxZoom = 8
)

var (
	styleDefault = tcell.StyleDefault
	styleBoard   = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleCable   = tcell.StyleDefault.Foreground(tcell.ColorGoldenrod)
	styleAlert   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// Preview draws a document on a tcell screen and reacts to keys: arrows
// scroll, + and - zoom, c toggles cables, q or Esc quits.
type Preview struct {
	screen   tcell.Screen
	doc      *export.Document
	sketcher export.Sketcher

	offsetX, offsetY int
	showCables       bool
}

// NewPreview creates a preview. The sketcher is copied so zooming does not
// affect the caller's.
func NewPreview(screen tcell.Screen, doc *export.Document, sketcher *export.Sketcher) *Preview {
	return &Preview{
		screen:     screen,
		doc:        doc,
		sketcher:   *sketcher,
		showCables: true,
	}
}

// Zoom returns the current horizontal cells per inch.
func (p *Preview) Zoom() float64 {
	return p.sketcher.PixelsPerInch
}

// Offset returns the scroll position in cells.
func (p *Preview) Offset() (int, int) {
	return p.offsetX, p.offsetY
}

// Draw renders the board and the status line.
func (p *Preview) Draw() error {
	doc := *p.doc
	if !p.showCables {
		doc.Cables = nil
	}
	cv, err := p.sketcher.Draw(&doc)
	if err != nil {
		return err
	}

	p.screen.Clear()
	sw, sh := p.screen.Size()
	cw, ch := cv.Size()
	for y := 0; y < sh-1 && y+p.offsetY < ch; y++ {
		for x := 0; x < sw && x+p.offsetX < cw; x++ {
			r := cv.Get(canvas.Cell{X: x + p.offsetX, Y: y + p.offsetY})
			if r == ' ' || r == '\x00' {
				continue
			}
			p.screen.SetContent(x, y, r, nil, styleFor(r))
		}
	}
	p.drawStatus(sw, sh)
	p.screen.Show()
	return nil
}

func (p *Preview) drawStatus(sw, sh int) {
	active := 0
	for _, pp := range p.doc.Placed {
		if pp.IsActive {
			active++
		}
	}
	status := fmt.Sprintf(" %gx%gin | %d pedals | %d cables | %d collisions | zoom %g | arrows scroll  +/- zoom  c cables  q quit",
		p.doc.Board.WidthInches, p.doc.Board.DepthInches, active, len(p.doc.Cables), len(p.doc.Collisions), p.sketcher.PixelsPerInch)
	status = canvas.FitText(status, sw, "…")
	x := 0
	for _, r := range status {
		p.screen.SetContent(x, sh-1, r, nil, styleStatus)
		x += canvas.MeasureText(string(r))
	}
	for ; x < sw; x++ {
		p.screen.SetContent(x, sh-1, ' ', nil, styleStatus)
	}
}

func styleFor(r rune) tcell.Style {
	switch r {
	case '╔', '╗', '╚', '╝', '═', '║', '┈', '╫', '╪':
		return styleBoard
	case '─', '│', '╭', '╮', '╰', '╯', '┼', '·':
		return styleCable
	case '!':
		return styleAlert
	}
	return styleDefault
}

// HandleEvent applies one event and reports whether the preview should close.
func (p *Preview) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			p.offsetX = max(p.offsetX-2, 0)
		case tcell.KeyRight:
			p.offsetX += 2
		case tcell.KeyUp:
			p.offsetY = max(p.offsetY-1, 0)
		case tcell.KeyDown:
			p.offsetY++
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case '+', '=':
				p.sketcher.PixelsPerInch = min(p.sketcher.PixelsPerInch+1, maxZoom)
			case '-':
				p.sketcher.PixelsPerInch = max(p.sketcher.PixelsPerInch-1, minZoom)
			case 'c':
				p.showCables = !p.showCables
			}
		}
	}
	return false
}

// Run draws and handles events until the user quits or the screen closes.
func (p *Preview) Run() error {
	if err := p.Draw(); err != nil {
		return err
	}
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if p.HandleEvent(ev) {
			return nil
		}
		if err := p.Draw(); err != nil {
			return err
		}
	}
}

// Show opens the terminal, runs a preview of doc and restores the terminal
// on exit.
func Show(doc *export.Document, sketcher *export.Sketcher) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to setup terminal: %w", err)
	}
	defer screen.Fini()

	log.Debugf("previewing %gx%g board with %d placements", doc.Board.WidthInches, doc.Board.DepthInches, len(doc.Placed))
	return NewPreview(screen, doc, sketcher).Run()
}
