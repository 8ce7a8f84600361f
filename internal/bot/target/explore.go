package target

import "github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"

// Explorer produces long-range targets that spread agents over the map.
// The first leg heads for the point opposite the spawn; later legs head
// away from the agent's average position so far.
type Explorer struct {
	width  int
	height int
	spawn  geom.Cell

	sum  geom.Vec
	n    int
	legs int
}

func NewExplorer(spawn geom.Cell, width, height int) *Explorer {
	return &Explorer{width: width, height: height, spawn: spawn}
}

// Observe folds pos into the running average.
func (e *Explorer) Observe(pos geom.Cell) {
	e.sum = e.sum.Add(geom.VecOf(pos))
	e.n++
}

func (e *Explorer) Average() (geom.Vec, bool) {
	if e.n == 0 {
		return geom.Vec{}, false
	}
	return e.sum.Scale(1 / float64(e.n)), true
}

// Antipode mirrors c through the map centre.
func (e *Explorer) Antipode(c geom.Cell) geom.Cell {
	return geom.Cell{X: e.width - 1 - c.X, Y: e.height - 1 - c.Y}
}

// Target returns the next exploration point, always inside the map.
func (e *Explorer) Target(pos geom.Cell) geom.Cell {
	e.legs++
	if e.legs == 1 {
		return e.clamp(e.Antipode(e.spawn))
	}
	avg, ok := e.Average()
	away := geom.VecOf(pos).Sub(avg)
	if !ok || away.Len() < 1 {
		return e.clamp(e.Antipode(pos))
	}
	reach := float64(e.width)
	if e.height > e.width {
		reach = float64(e.height)
	}
	reach /= 2
	return e.clamp(geom.VecOf(pos).Add(away.Normalized().Scale(reach)).Cell())
}

// Heading returns the compass direction pointing away from the average
// position, or Center before anything has been observed.
func (e *Explorer) Heading(pos geom.Cell) geom.Direction {
	avg, ok := e.Average()
	if !ok {
		return geom.Center
	}
	away := geom.VecOf(pos).Sub(avg)
	if away.IsZero() {
		return geom.Center
	}
	return geom.AngleToDirection(away.Angle())
}

func (e *Explorer) clamp(c geom.Cell) geom.Cell {
	return geom.Cell{X: geom.Clamp(c.X, 0, e.width-1), Y: geom.Clamp(c.Y, 0, e.height-1)}
}
