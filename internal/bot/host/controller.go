// Package host describes the capabilities the external host grants an agent.
//
// Every mutating call has a Can* predicate. Callers check the predicate first;
// a mutating call whose precondition fails returns ErrNotAllowed and has no
// effect. Nothing blocks.
package host

import (
	"errors"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
)

var ErrNotAllowed = errors.New("host: action not allowed")

// Self is the agent's view of its own identity and the match clock.
type Self interface {
	ID() int
	Team() Team
	Kind() Kind
	Location() geom.Cell
	Round() int
	MapWidth() int
	MapHeight() int
	// RobotCount is the number of live robots on the agent's team.
	RobotCount() int
	// BudgetLeft is the number of compute units the agent may still spend this round.
	BudgetLeft() int
}

type Perception interface {
	SenseNearbyRobots(radiusSq int, team Team) []RobotInfo
	SenseRobotAt(c geom.Cell) (RobotInfo, bool)
	SensePassability(c geom.Cell) bool
	SenseNearbyMapInfos(radiusSq int) []MapInfo
	SenseNearbyWells() []WellInfo
	SenseNearbyIslands() []IslandInfo
}

type Actions interface {
	CanMove(d geom.Direction) bool
	Move(d geom.Direction) error

	CanAttack(c geom.Cell) bool
	Attack(c geom.Cell) error

	Cargo(r Resource) int
	CargoWeight() int
	CanCollect(c geom.Cell) bool
	Collect(c geom.Cell) error
	CanTransfer(c geom.Cell, r Resource, amount int) bool
	Transfer(c geom.Cell, r Resource, amount int) error

	HasAnchor() bool
	AnchorsHeld() int
	CanBuildAnchor() bool
	BuildAnchor() error
	CanTakeAnchor(c geom.Cell) bool
	TakeAnchor(c geom.Cell) error
	CanPlaceAnchor() bool
	PlaceAnchor() error

	CanBuildRobot(k Kind, c geom.Cell) bool
	BuildRobot(k Kind, c geom.Cell) error
}

// Shared is the team's broadcast array.
type Shared interface {
	ReadShared(i int) (int, error)
	CanWriteShared(i, v int) bool
	WriteShared(i, v int) error
}

type Diagnostics interface {
	SetIndicator(s string)
}

// Controller is the whole surface available to one agent during its round.
type Controller interface {
	Self
	Perception
	Actions
	Shared
	Diagnostics
}
