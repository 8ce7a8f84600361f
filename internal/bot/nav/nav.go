// Package nav turns a destination into at most one step per round.
package nav

import (
	"math/rand"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/target"
)

// Mover is the part of the host the navigator drives.
type Mover interface {
	Location() geom.Cell
	CanMove(d geom.Direction) bool
	Move(d geom.Direction) error
}

// Step reports what one call to Navigator.Step did.
type Step struct {
	Outcome  target.Outcome
	Moved    bool
	Dir      geom.Direction
	Fallback bool
}

// Navigator moves greedily toward the destination and, when the direct step
// is blocked, tries one random direction instead. It never plans a path; an
// agent can stall against an obstacle.
type Navigator struct {
	rng *rand.Rand

	// Currents reports known currents. A direct step onto a current that
	// would push the agent further from the destination than it stands now
	// counts as blocked.
	Currents func(c geom.Cell) (geom.Direction, bool)
}

func New(rng *rand.Rand) *Navigator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Navigator{rng: rng}
}

// Step advances s by at most one move. Suppressed states do not move. A
// state already within its arrival radius is cleared without moving, and a
// move that lands within the radius clears it in the same round.
func (n *Navigator) Step(m Mover, s *target.State) (Step, error) {
	pos := m.Location()
	dest, ok := s.Dest()
	if !ok {
		return Step{Outcome: target.Idle, Dir: geom.Center}, nil
	}
	if s.Reached(pos) {
		s.Clear()
		return Step{Outcome: target.Arrived, Dir: geom.Center}, nil
	}
	if s.Suppressed() {
		return Step{Outcome: target.EnRoute, Dir: geom.Center}, nil
	}

	st := Step{Outcome: target.EnRoute, Dir: pos.DirectionTo(dest)}
	if !m.CanMove(st.Dir) || n.adverse(pos, st.Dir, dest, s) {
		st.Fallback = true
		st.Dir = geom.Directions[n.rng.Intn(len(geom.Directions))]
		if !m.CanMove(st.Dir) {
			return st, nil
		}
	}
	if err := m.Move(st.Dir); err != nil {
		return st, err
	}
	st.Moved = true
	if s.Reached(m.Location()) {
		s.Clear()
		st.Outcome = target.Arrived
	}
	return st, nil
}

func (n *Navigator) adverse(pos geom.Cell, d geom.Direction, dest geom.Cell, s *target.State) bool {
	if n.Currents == nil {
		return false
	}
	to := pos.Add(d)
	if s.Reached(to) {
		return false
	}
	push, ok := n.Currents(to)
	return ok && to.Add(push).DistSq(dest) > pos.DistSq(dest)
}
