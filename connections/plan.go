package connections

import (
	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"pedalboard/core"
	"pedalboard/signalchain"
)

var log = logger.GetLogger("connections")

// Link is a planned cable before routing.
type Link struct {
	From core.Endpoint
	To   core.Endpoint
	Type core.CableType
}

// Plan lists the cables implied by a computed chain. loopAvailable reports
// whether the amp has an effects loop to send to.
func Plan(chain signalchain.Result, catalog core.Catalog, routing core.RoutingConfig, loopAvailable bool) []Link {
	p := planner{catalog: catalog, routing: routing}

	// Pedals wired into another pedal's own loop leave the main sequence.
	inPedalLoop := map[string]bool{}
	p.loops = map[string][]core.PlacedPedal{}
	byID := lo.KeyBy(chain.Ordered, func(pp core.PlacedPedal) string { return pp.ID })
	for _, pp := range chain.Ordered {
		pr := routing.For(pp.ID)
		if inPedalLoop[pp.ID] {
			continue
		}
		if pr.Mode != core.ModeLoop || len(pr.LoopPedalIDs) == 0 {
			continue
		}
		if !p.has(pp, core.JackSend) || !p.has(pp, core.JackReturn) {
			log.Warnf("pedal %s is set to loop mode but has no send/return jacks", pp.ID)
			continue
		}
		for _, id := range pr.LoopPedalIDs {
			member, ok := byID[id]
			if !ok || id == pp.ID || inPedalLoop[id] {
				continue
			}
			inPedalLoop[id] = true
			p.loops[pp.ID] = append(p.loops[pp.ID], member)
		}
	}
	main := func(loc core.Location) []core.PlacedPedal {
		return lo.Filter(chain.Zone(loc), func(pp core.PlacedPedal, _ int) bool { return !inPedalLoop[pp.ID] })
	}
	front, loop := main(core.LocationFrontOfAmp), main(core.LocationEffectsLoop)
	hubs := main(core.LocationFourCableHub)

	guitar := core.ExternalEndpoint(core.ExternalGuitar)
	ampIn := core.ExternalEndpoint(core.ExternalAmpInput)
	ampSend := core.ExternalEndpoint(core.ExternalAmpSend)
	ampReturn := core.ExternalEndpoint(core.ExternalAmpReturn)

	var hub *core.PlacedPedal
	if len(hubs) > 0 {
		h := hubs[0]
		switch {
		case !loopAvailable:
			log.Warnf("4-cable hub %s ignored: amp has no effects loop", h.ID)
		case !p.has(h, core.JackSend) || !p.has(h, core.JackReturn):
			log.Warnf("4-cable hub %s has no send/return jacks", h.ID)
		default:
			hub = &h
		}
		if hub == nil {
			front = append(front, hubs...)
		} else {
			front = append(front, hubs[1:]...)
		}
	}

	if hub != nil {
		p.sequence(guitar, front, core.JackEndpoint(hub.ID, core.JackInput))
		p.link(core.JackEndpoint(hub.ID, core.JackSend), ampIn)
		p.sequence(ampSend, loop, core.JackEndpoint(hub.ID, core.JackReturn))
		p.link(core.JackEndpoint(hub.ID, core.JackOutput), ampReturn)
	} else {
		p.sequence(guitar, front, ampIn)
		if len(loop) > 0 {
			p.sequence(ampSend, loop, ampReturn)
		}
	}

	if routing.RoutePower {
		p.power(chain)
	}
	return p.links
}

type planner struct {
	catalog core.Catalog
	routing core.RoutingConfig
	loops   map[string][]core.PlacedPedal
	links   []Link
}

func (p *planner) has(pp core.PlacedPedal, t core.JackType) bool {
	pedal, ok := p.catalog.Lookup(pp.PedalID)
	return ok && pedal.HasJack(t)
}

func (p *planner) link(from, to core.Endpoint) {
	typ := core.CablePatch
	if from.IsExternal() || to.IsExternal() {
		typ = core.CableInstrument
	}
	p.links = append(p.links, Link{From: from, To: to, Type: typ})
}

// sequence wires src through pedals in order and on to dst.
func (p *planner) sequence(src core.Endpoint, pedals []core.PlacedPedal, dst core.Endpoint) {
	cur := src
	for _, pp := range pedals {
		p.link(cur, core.JackEndpoint(pp.ID, core.JackInput))
		if members, ok := p.loops[pp.ID]; ok {
			p.sequence(core.JackEndpoint(pp.ID, core.JackSend), members, core.JackEndpoint(pp.ID, core.JackReturn))
		}
		cur = core.JackEndpoint(pp.ID, core.JackOutput)
	}
	p.link(cur, dst)
}

// power runs a cable from the first active power supply to every chained
// pedal with a power jack.
func (p *planner) power(chain signalchain.Result) {
	supply, ok := lo.Find(chain.Unchained, func(pp core.PlacedPedal) bool {
		pedal, found := p.catalog.Lookup(pp.PedalID)
		return found && pp.IsActive && pedal.Category == core.CategoryPower
	})
	if !ok {
		log.Debugf("power routing requested but no active power supply is placed")
		return
	}
	jack := core.JackOutput
	if p.has(supply, core.JackPower) {
		jack = core.JackPower
	}
	for _, pp := range chain.Ordered {
		if !p.has(pp, core.JackPower) {
			continue
		}
		p.links = append(p.links, Link{
			From: core.JackEndpoint(supply.ID, jack),
			To:   core.JackEndpoint(pp.ID, core.JackPower),
			Type: core.CablePower,
		})
	}
}
