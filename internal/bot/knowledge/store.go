// Package knowledge is an agent's local cache of map facts, fed by its own
// sensing and by the team channel.
package knowledge

import (
	"sort"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/territory"
)

type Store struct {
	impassable map[geom.Cell]bool
	clouds     map[geom.Cell]bool
	currents   map[geom.Cell]geom.Direction
	wells      map[geom.Cell]host.Resource
	structures []geom.Cell
	zones      *territory.Map
}

func New() *Store {
	return &Store{
		impassable: map[geom.Cell]bool{},
		clouds:     map[geom.Cell]bool{},
		currents:   map[geom.Cell]geom.Direction{},
		wells:      map[geom.Cell]host.Resource{},
		zones:      territory.NewMap(),
	}
}

// Stats summarises what the store knows.
type Stats struct {
	Impassable int
	Clouds     int
	Currents   int
	Wells      int
	Zones      int
	Structures int
}

func (s *Store) Stats() Stats {
	return Stats{
		Impassable: len(s.impassable),
		Clouds:     len(s.clouds),
		Currents:   len(s.currents),
		Wells:      len(s.wells),
		Zones:      s.zones.Len(),
		Structures: len(s.structures),
	}
}

// Learn applies one fact and reports whether anything changed. Applying the
// same fact again is a no-op.
func (s *Store) Learn(f channel.Fact) bool {
	c := f.Cell
	switch f.Tag.Kind() {
	case channel.KindImpassable:
		if s.impassable[c] {
			return false
		}
		s.impassable[c] = true
		return true
	case channel.KindCloud:
		if s.clouds[c] {
			return false
		}
		s.clouds[c] = true
		return true
	case channel.KindCurrent:
		if d, ok := s.currents[c]; ok && d == f.Direction() {
			return false
		}
		s.currents[c] = f.Direction()
		return true
	case channel.KindWell:
		if r, ok := s.wells[c]; ok && r == f.Resource() {
			return false
		}
		s.wells[c] = f.Resource()
		return true
	case channel.KindZone:
		owner := territory.Other
		if f.OwnedBySelf() {
			owner = territory.Self
		}
		return s.zones.MarkZone(c, owner) > 0
	}
	return false
}

// Ingest decodes and applies one slot value. Undecodable values carry no
// information and are ignored.
func (s *Store) Ingest(v int) bool {
	f, ok := channel.Decode(v)
	if !ok {
		return false
	}
	return s.Learn(f)
}

// LearnZone records locally sensed zone ownership, including Unclaimed
// which the channel cannot carry.
func (s *Store) LearnZone(c geom.Cell, o territory.Owner) bool {
	return s.zones.MarkZone(c, o) > 0
}

func (s *Store) AddStructure(c geom.Cell) bool {
	for _, have := range s.structures {
		if have == c {
			return false
		}
	}
	s.structures = append(s.structures, c)
	return true
}

func (s *Store) IsImpassable(c geom.Cell) bool { return s.impassable[c] }

// Current returns the direction of a known current at c.
func (s *Store) Current(c geom.Cell) (geom.Direction, bool) {
	d, ok := s.currents[c]
	return d, ok
}

func (s *Store) WellAt(c geom.Cell) (host.Resource, bool) {
	r, ok := s.wells[c]
	return r, ok
}

func (s *Store) Zones() *territory.Map { return s.zones }

func (s *Store) Structures() []geom.Cell {
	out := make([]geom.Cell, len(s.structures))
	copy(out, s.structures)
	return out
}

// NearestStructure returns the closest known peer structure.
func (s *Store) NearestStructure(from geom.Cell) (geom.Cell, bool) {
	best, bestD, found := geom.Cell{}, 0, false
	for _, c := range s.structures {
		if d := from.DistSq(c); !found || d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

// NearestWell returns the closest known well of resource r within radiusSq
// of from (radiusSq <= 0 means unbounded). Ties go to the lowest (x, y).
func (s *Store) NearestWell(from geom.Cell, r host.Resource, radiusSq int) (geom.Cell, bool) {
	cells := make([]geom.Cell, 0, len(s.wells))
	for c, have := range s.wells {
		if have != r {
			continue
		}
		if radiusSq > 0 && from.DistSq(c) > radiusSq {
			continue
		}
		cells = append(cells, c)
	}
	if len(cells) == 0 {
		return geom.Cell{}, false
	}
	sort.Slice(cells, func(i, j int) bool {
		di, dj := from.DistSq(cells[i]), from.DistSq(cells[j])
		if di != dj {
			return di < dj
		}
		if cells[i].X != cells[j].X {
			return cells[i].X < cells[j].X
		}
		return cells[i].Y < cells[j].Y
	})
	return cells[0], true
}
