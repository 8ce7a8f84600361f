// Package territory keeps contested-zone ownership consistent across
// connected zone cells.
package territory

import (
	"sort"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
)

// Owner is relative to the agent's own team.
type Owner int8

const (
	Unclaimed Owner = iota
	Self
	Other
)

func (o Owner) String() string {
	switch o {
	case Self:
		return "SELF"
	case Other:
		return "OTHER"
	}
	return "UNCLAIMED"
}

// Map is the set of known zone cells and their owners. Two side-adjacent
// known cells belong to the same zone.
type Map struct {
	owner map[geom.Cell]Owner
}

func NewMap() *Map {
	return &Map{owner: make(map[geom.Cell]Owner, 64)}
}

func (m *Map) Len() int { return len(m.owner) }

func (m *Map) Owner(c geom.Cell) (Owner, bool) {
	o, ok := m.owner[c]
	return o, ok
}

// MarkZone records c as a zone cell owned by o and floods o across every
// known cell connected to c, so the whole zone carries the latest sample.
// It returns the number of cells whose owner changed (including c when new).
//
// The walk is an explicit BFS with a visited set; it touches each known cell
// at most once.
func (m *Map) MarkZone(c geom.Cell, o Owner) int {
	changed := 0
	if cur, ok := m.owner[c]; !ok || cur != o {
		changed++
	}
	m.owner[c] = o

	visited := map[geom.Cell]bool{c: true}
	queue := []geom.Cell{c}
	for head := 0; head < len(queue); head++ {
		for _, n := range queue[head].Neighbors4() {
			if visited[n] {
				continue
			}
			cur, known := m.owner[n]
			if !known {
				continue
			}
			visited[n] = true
			if cur != o {
				m.owner[n] = o
				changed++
			}
			queue = append(queue, n)
		}
	}
	return changed
}

// Cells returns every known zone cell with owner o, sorted.
func (m *Map) Cells(o Owner) []geom.Cell {
	var out []geom.Cell
	for c, cur := range m.owner {
		if cur == o {
			out = append(out, c)
		}
	}
	sortCells(out)
	return out
}

// Nearest returns the known cell owned by o closest to from. Ties go to the
// lowest (x, y).
func (m *Map) Nearest(from geom.Cell, o Owner) (geom.Cell, bool) {
	best, bestD, found := geom.Cell{}, 0, false
	for c, cur := range m.owner {
		if cur != o {
			continue
		}
		d := from.DistSq(c)
		if !found || d < bestD || (d == bestD && less(c, best)) {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

func sortCells(cs []geom.Cell) {
	sort.Slice(cs, func(i, j int) bool { return less(cs[i], cs[j]) })
}

func less(a, b geom.Cell) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
