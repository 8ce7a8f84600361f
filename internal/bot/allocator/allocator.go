// Package allocator turns the population ledger into a single build
// decision per round.
package allocator

import (
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/ledger"
)

// Ratio is one entry of the build ratio vector.
type Ratio struct {
	Kind   host.Kind
	Weight int
}

// AnchorRule competes anchor production against robot production. The ideal
// anchor total is Ratio times the population of Per; Max caps the total so
// anchors cannot starve robots forever (0 disables the cap).
type AnchorRule struct {
	Enabled bool
	Per     host.Kind
	Ratio   float64
	Max     int
}

// Plan is immutable once built.
type Plan struct {
	Ratios []Ratio
	Anchor AnchorRule
}

type Action int8

const (
	None Action = iota
	BuildRobot
	BuildAnchor
)

func (a Action) String() string {
	switch a {
	case BuildRobot:
		return "ROBOT"
	case BuildAnchor:
		return "ANCHOR"
	}
	return "NONE"
}

type Decision struct {
	Action  Action
	Kind    host.Kind
	Deficit float64
}

func (p Plan) weightSum() int {
	sum := 0
	for _, r := range p.Ratios {
		if r.Weight > 0 {
			sum += r.Weight
		}
	}
	return sum
}

// Ideal returns, for a population grown by one, the ideal count of each
// ratio entry: (N+1) * weight / sum(weights).
func (p Plan) Ideal(c ledger.Counts) []float64 {
	out := make([]float64, len(p.Ratios))
	sum := p.weightSum()
	if sum == 0 {
		return out
	}
	n := float64(c.Total() + 1)
	for i, r := range p.Ratios {
		if r.Weight > 0 {
			out[i] = n * float64(r.Weight) / float64(sum)
		}
	}
	return out
}

// Deficits returns ideal minus actual for each ratio entry.
func (p Plan) Deficits(c ledger.Counts) []float64 {
	out := p.Ideal(c)
	for i, r := range p.Ratios {
		out[i] -= float64(c.Of(r.Kind))
	}
	return out
}

// AnchorDeficit is the anchor option's score, and false when the rule is off
// or the cap is reached.
func (p Plan) AnchorDeficit(c ledger.Counts, anchorsBuilt int) (float64, bool) {
	a := p.Anchor
	if !a.Enabled {
		return 0, false
	}
	if a.Max > 0 && anchorsBuilt >= a.Max {
		return 0, false
	}
	return a.Ratio*float64(c.Of(a.Per)) - float64(anchorsBuilt), true
}

// Choose picks the entry with the largest deficit; the first entry wins ties.
// The anchor option wins only when its deficit is strictly larger than every
// robot deficit.
func (p Plan) Choose(c ledger.Counts, anchorsBuilt int) Decision {
	best := Decision{Action: None}
	for i, d := range p.Deficits(c) {
		if p.Ratios[i].Weight <= 0 {
			continue
		}
		if best.Action == None || d > best.Deficit {
			best = Decision{Action: BuildRobot, Kind: p.Ratios[i].Kind, Deficit: d}
		}
	}
	if ad, ok := p.AnchorDeficit(c, anchorsBuilt); ok && (best.Action == None || ad > best.Deficit) {
		best = Decision{Action: BuildAnchor, Deficit: ad}
	}
	return best
}
