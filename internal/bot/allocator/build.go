package allocator

import (
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

// Builder is the part of the host a coordinator builds through.
type Builder interface {
	Location() geom.Cell
	SensePassability(c geom.Cell) bool
	SenseRobotAt(c geom.Cell) (host.RobotInfo, bool)
	CanBuildRobot(k host.Kind, c geom.Cell) bool
	BuildRobot(k host.Kind, c geom.Cell) error
	CanBuildAnchor() bool
	BuildAnchor() error
}

// Result describes what Execute did.
type Result struct {
	Built bool
	Cell  geom.Cell
}

// SpawnCell returns the first adjacent cell, in direction order, that is
// passable and unoccupied.
func SpawnCell(b Builder) (geom.Cell, bool) {
	at := b.Location()
	for _, d := range geom.Directions {
		c := at.Add(d)
		if !b.SensePassability(c) {
			continue
		}
		if _, occupied := b.SenseRobotAt(c); occupied {
			continue
		}
		return c, true
	}
	return geom.Cell{}, false
}

// Execute performs at most one build for d. An unaffordable choice, or a
// robot choice with no free spawn cell, is a no-op; the coordinator keeps
// its resources for the same choice next round.
func Execute(b Builder, d Decision) (Result, error) {
	switch d.Action {
	case BuildAnchor:
		if !b.CanBuildAnchor() {
			return Result{}, nil
		}
		if err := b.BuildAnchor(); err != nil {
			return Result{}, err
		}
		return Result{Built: true, Cell: b.Location()}, nil
	case BuildRobot:
		c, ok := SpawnCell(b)
		if !ok || !b.CanBuildRobot(d.Kind, c) {
			return Result{}, nil
		}
		if err := b.BuildRobot(d.Kind, c); err != nil {
			return Result{}, err
		}
		return Result{Built: true, Cell: c}, nil
	}
	return Result{}, nil
}
