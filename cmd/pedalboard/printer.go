package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pedalboard/core"
	"pedalboard/layout"
	"pedalboard/signalchain"
	"pedalboard/validation"
)

// printer builds the default human readable output.
type printer struct {
	b strings.Builder

	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failed  lipgloss.Style
	muted   lipgloss.Style
}

func newPrinter() *printer {
	renderer := lipgloss.NewRenderer(os.Stdout)
	return &printer{
		title:   renderer.NewStyle().Bold(true),
		success: renderer.NewStyle().Foreground(lipgloss.Color("10")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("11")),
		failed:  renderer.NewStyle().Foreground(lipgloss.Color("9")),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (p *printer) String() string {
	return p.b.String()
}

func (p *printer) line(style lipgloss.Style, format string, args ...interface{}) {
	p.b.WriteString(style.Render(fmt.Sprintf(format, args...)))
	p.b.WriteByte('\n')
}

func (p *printer) raw(s string) {
	p.b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		p.b.WriteByte('\n')
	}
}

func (p *printer) chain(res signalchain.Result, catalog core.Catalog) {
	p.line(p.title, "Signal chain")
	for _, loc := range core.Locations {
		zone := res.Zone(loc)
		if len(zone) == 0 {
			continue
		}
		p.line(p.muted, "  %s", loc)
		for _, pp := range zone {
			name := pp.PedalID
			if pedal, ok := catalog.Lookup(pp.PedalID); ok {
				name = fmt.Sprintf("%s (%s)", pedalName(pedal), pedal.Category)
			}
			p.line(lipgloss.NewStyle(), "  %3d. %-10s %s", pp.ChainPosition, pp.ID, name)
		}
	}
	for _, pp := range res.Unchained {
		p.line(p.muted, "       %-10s not chained", pp.ID)
	}
	for _, w := range res.Warnings {
		p.line(p.warning, "! %s: %s", w.Code, w.Text)
	}
	for _, s := range res.Suggestions {
		p.line(p.muted, "~ %s", s.Text)
	}
}

func pedalName(pedal core.Pedal) string {
	if pedal.Name != "" {
		return pedal.Name
	}
	return pedal.ID
}

func (p *printer) collisions(cs []core.Collision, oob []core.BoundsViolation) {
	if len(cs) == 0 && len(oob) == 0 {
		p.line(p.success, "no collisions")
		return
	}
	for _, c := range cs {
		style := p.warning
		if c.Severity == core.SeverityOverlap {
			style = p.failed
		}
		p.line(style, "%s x %s  %s %.2f sq in", c.A, c.B, c.Severity, c.Area)
	}
	for _, b := range oob {
		p.line(p.failed, "%s leaves the board at %s", b.ID, b.Box)
	}
}

func (p *printer) cables(cables []core.Cable) {
	p.line(p.title, "Cables")
	for _, c := range cables {
		style := lipgloss.NewStyle()
		note := ""
		if c.Defect {
			style, note = p.failed, "  defect"
		}
		p.line(style, "  %-10s %s -> %s  %.1fin routed, %.0fin cable (%s, %s)%s",
			c.ID[:min(8, len(c.ID))], c.From, c.To, c.RoutedLengthInches, c.CalculatedLengthInches, c.CableType, c.Strategy, note)
	}
}

func (p *printer) positions(positions []core.Position, cost *layout.Breakdown) {
	p.line(p.title, "Positions")
	for _, pos := range positions {
		p.line(lipgloss.NewStyle(), "  %-10s x=%6.2f y=%6.2f", pos.ID, pos.X, pos.Y)
	}
	if cost != nil {
		p.line(p.muted, "cost %.2f (cable %.2f, crossings %.0f, close pairs %.0f, box hits %.0f)",
			cost.Total, cost.CableLength, cost.Crossings, cost.ClosePairs, cost.BoxHits)
	}
}

func (p *printer) errors(errs []validation.ValidationError) {
	for _, e := range errs {
		p.line(p.failed, "invalid: %s", e.Error())
	}
}
