package core

import "sort"

// Catalog indexes pedals by catalog id.
type Catalog map[string]Pedal

// NewCatalog builds a catalog from a slice, later entries winning on id clashes.
func NewCatalog(pedals []Pedal) Catalog {
	c := make(Catalog, len(pedals))
	for _, p := range pedals {
		c[p.ID] = p
	}
	return c
}

// Lookup returns the pedal for id with any missing input or output jack
// synthesized: input centered on the entry side, output centered on the exit
// side. Custom pedals entered by hand often lack jack data.
func (c Catalog) Lookup(id string) (Pedal, bool) {
	p, ok := c[id]
	if !ok {
		return Pedal{}, false
	}
	return WithDefaultJacks(p), true
}

// IDs returns the catalog ids in sorted order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithDefaultJacks fills in missing input/output jacks and clamps out of range
// positions. The receiver's jack slice is never modified.
func WithDefaultJacks(p Pedal) Pedal {
	jacks := make([]Jack, 0, len(p.Jacks)+2)
	for _, j := range p.Jacks {
		if !j.Side.Valid() {
			switch j.Type {
			case JackOutput, JackSend:
				j.Side = ExitSide
			case JackPower:
				j.Side = SideTop
			default:
				j.Side = EntrySide
			}
		}
		if j.PositionPercent < 0 {
			j.PositionPercent = 0
		}
		if j.PositionPercent > 100 {
			j.PositionPercent = 100
		}
		jacks = append(jacks, j)
	}
	p.Jacks = jacks
	if !p.HasJack(JackInput) {
		p.Jacks = append(p.Jacks, Jack{Type: JackInput, Side: EntrySide, PositionPercent: 50})
	}
	if !p.HasJack(JackOutput) {
		p.Jacks = append(p.Jacks, Jack{Type: JackOutput, Side: ExitSide, PositionPercent: 50})
	}
	return p
}
