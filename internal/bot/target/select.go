package target

import (
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/knowledge"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/territory"
)

// Radii are squared arrival radii per purpose.
type Radii struct {
	Zone    int
	Contest int
	Well    int
	Home    int
	Explore int
}

// Selector picks a destination for an idle agent.
type Selector struct {
	Radii Radii
	// WellRadiusSq bounds how far a known well may be; 0 means unbounded.
	WellRadiusSq int
}

// Wants says which destination classes the agent can make use of.
type Wants struct {
	// Claim: the agent carries a claim token and needs an unclaimed zone.
	Claim bool
	// Contest: the agent fights over zones owned by the other team.
	Contest bool
	// Resource: the well kind to gather; NoResource skips wells.
	Resource host.Resource
}

// Pick is a chosen destination.
type Pick struct {
	Cell     geom.Cell
	RadiusSq int
	Purpose  Purpose
}

// Select applies the policy in order: unclaimed zone (when claiming), zone
// owned by the other team (when contesting), nearest well of the wanted kind
// within the sensing bound, then a long-range exploration target. An
// exploration target known to be impassable moves to an open neighbour.
func (sel Selector) Select(pos geom.Cell, k *knowledge.Store, ex *Explorer, w Wants) Pick {
	if p, ok := sel.Known(pos, k, w); ok {
		return p
	}
	return Pick{Cell: openNear(ex.Target(pos), k, ex), RadiusSq: sel.Radii.Explore, Purpose: PurposeExplore}
}

// openNear returns c, or the first neighbour of c in direction order that
// is not known to be impassable.
func openNear(c geom.Cell, k *knowledge.Store, ex *Explorer) geom.Cell {
	if !k.IsImpassable(c) {
		return c
	}
	for _, d := range geom.Directions {
		if n := ex.clamp(c.Add(d)); !k.IsImpassable(n) {
			return n
		}
	}
	return c
}

// Known is Select without the exploration fallback.
func (sel Selector) Known(pos geom.Cell, k *knowledge.Store, w Wants) (Pick, bool) {
	zones := k.Zones()
	if w.Claim {
		if c, ok := zones.Nearest(pos, territory.Unclaimed); ok {
			return Pick{Cell: c, RadiusSq: sel.Radii.Zone, Purpose: PurposeZone}, true
		}
	}
	if w.Contest {
		if c, ok := zones.Nearest(pos, territory.Other); ok {
			return Pick{Cell: c, RadiusSq: sel.Radii.Contest, Purpose: PurposeContest}, true
		}
	}
	if w.Resource != host.NoResource {
		if c, ok := k.NearestWell(pos, w.Resource, sel.WellRadiusSq); ok {
			return Pick{Cell: c, RadiusSq: sel.Radii.Well, Purpose: PurposeWell}, true
		}
	}
	return Pick{}, false
}

// Apply sets p on s if s is idle or p outranks the current destination.
func (p Pick) Apply(s *State) bool {
	return s.Supersede(p.Cell, p.RadiusSq, p.Purpose)
}

// Rotation cycles through resource kinds, one per completed trip.
type Rotation struct {
	Kinds []host.Resource
	i     int
}

// NewRotation starts the cycle at offset, so agents spread across kinds.
func NewRotation(kinds []host.Resource, offset int) *Rotation {
	r := &Rotation{Kinds: kinds}
	if len(kinds) > 0 {
		r.i = ((offset % len(kinds)) + len(kinds)) % len(kinds)
	}
	return r
}

func (r *Rotation) Current() host.Resource {
	if len(r.Kinds) == 0 {
		return host.NoResource
	}
	return r.Kinds[r.i]
}

func (r *Rotation) Advance() {
	if len(r.Kinds) > 0 {
		r.i = (r.i + 1) % len(r.Kinds)
	}
}
