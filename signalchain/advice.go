package signalchain

import (
	"fmt"

	"github.com/samber/lo"

	"pedalboard/core"
)

// Warning and suggestion codes.
const (
	WarnGainBeforeDelayNoGate = "gain-before-delay-without-gate"
	WarnFuzzAfterBuffer       = "direct-pickup-after-buffer"
	WarnLoopUnavailable       = "effects-loop-unavailable"
	WarnNoFourCablePedal      = "four-cable-without-capable-pedal"

	SuggestUnusedLoop = "unused-effects-loop"
	SuggestNoiseGate  = "add-noise-gate"
	SuggestTunerFirst = "tuner-first"
)

func warnings(ordered []core.PlacedPedal, pedals map[string]core.Pedal, ctx Context) []Message {
	var out []Message

	hasGate := lo.ContainsBy(ordered, func(pp core.PlacedPedal) bool {
		return pedals[pp.ID].Category == core.CategoryNoiseGate
	})
	if !hasGate {
		for i, pp := range ordered {
			if !pedals[pp.ID].IsHighGain() {
				continue
			}
			_, idx, found := lo.FindIndexOf(ordered[i+1:], func(later core.PlacedPedal) bool {
				return pedals[later.ID].Category == core.CategoryDelay
			})
			if found {
				delay := ordered[i+1+idx]
				out = append(out, Message{
					Code:     WarnGainBeforeDelayNoGate,
					Text:     fmt.Sprintf("%s feeds %s with no noise gate; repeats will carry the hiss", label(pedals[pp.ID]), label(pedals[delay.ID])),
					PedalIDs: []string{pp.ID, delay.ID},
				})
				break
			}
		}
	}

	for i, pp := range ordered {
		if !pedals[pp.ID].NeedsDirectPickup {
			continue
		}
		buffer, found := lo.Find(ordered[:i], func(earlier core.PlacedPedal) bool {
			return pedals[earlier.ID].Buffered
		})
		if found {
			out = append(out, Message{
				Code:     WarnFuzzAfterBuffer,
				Text:     fmt.Sprintf("%s needs to see the pickups directly but follows buffered %s", label(pedals[pp.ID]), label(pedals[buffer.ID])),
				PedalIDs: []string{buffer.ID, pp.ID},
			})
		}
	}

	if ctx.UseEffectsLoop && !ctx.AmpHasEffectsLoop {
		out = append(out, Message{
			Code: WarnLoopUnavailable,
			Text: "effects loop routing requested but the amp has no effects loop; all pedals stay in front of the amp",
		})
	}

	if ctx.Use4CableMethod && !lo.ContainsBy(ordered, func(pp core.PlacedPedal) bool { return pp.Location == core.LocationFourCableHub }) {
		out = append(out, Message{
			Code: WarnNoFourCablePedal,
			Text: "4-cable method requested but no pedal on the board has a send/return for it",
		})
	}
	return out
}

func suggestions(ordered []core.PlacedPedal, pedals map[string]core.Pedal, ctx Context) []Message {
	var out []Message

	timeBased := lo.Filter(ordered, func(pp core.PlacedPedal, _ int) bool {
		return pedals[pp.ID].Category.IsTimeBased()
	})
	if ctx.AmpHasEffectsLoop && !ctx.UseEffectsLoop && len(timeBased) > 0 {
		out = append(out, Message{
			Code:     SuggestUnusedLoop,
			Text:     "the amp has an unused effects loop; delay and reverb usually sound cleaner there",
			PedalIDs: lo.Map(timeBased, func(pp core.PlacedPedal, _ int) string { return pp.ID }),
		})
	}

	highGain := lo.CountBy(ordered, func(pp core.PlacedPedal) bool { return pedals[pp.ID].IsHighGain() })
	hasGate := lo.ContainsBy(ordered, func(pp core.PlacedPedal) bool {
		return pedals[pp.ID].Category == core.CategoryNoiseGate
	})
	if highGain >= 2 && !hasGate {
		out = append(out, Message{
			Code: SuggestNoiseGate,
			Text: "stacking high-gain pedals without a noise gate; consider adding one after the last drive",
		})
	}

	for i, pp := range ordered {
		if pedals[pp.ID].Category != core.CategoryTuner {
			continue
		}
		ahead := lo.Filter(ordered[:i], func(earlier core.PlacedPedal, _ int) bool {
			return !pedals[earlier.ID].NeedsDirectPickup
		})
		if len(ahead) > 0 {
			out = append(out, Message{
				Code:     SuggestTunerFirst,
				Text:     fmt.Sprintf("%s is not first in the chain; tuners track best on the dry signal", label(pedals[pp.ID])),
				PedalIDs: []string{pp.ID},
			})
		}
		break
	}
	return out
}

func label(p core.Pedal) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
