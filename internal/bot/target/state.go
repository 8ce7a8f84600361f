// Package target holds a mobile agent's destination and the policy that
// picks one.
package target

import "github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"

// Purpose says why a destination was chosen. Higher values take priority
// when a new destination competes with the current one.
type Purpose int8

const (
	PurposeNone Purpose = iota
	PurposeExplore
	PurposeWell
	PurposeContest
	PurposeZone
	PurposeHome
)

func (p Purpose) String() string {
	switch p {
	case PurposeExplore:
		return "explore"
	case PurposeWell:
		return "well"
	case PurposeContest:
		return "contest"
	case PurposeZone:
		return "zone"
	case PurposeHome:
		return "home"
	}
	return "none"
}

// Outcome is the result of checking a destination against the agent's position.
type Outcome int8

const (
	Idle Outcome = iota
	EnRoute
	Arrived
	Invalidated
)

func (o Outcome) String() string {
	switch o {
	case EnRoute:
		return "en_route"
	case Arrived:
		return "arrived"
	case Invalidated:
		return "invalidated"
	}
	return "idle"
}

// State is one agent's navigation state. The zero value is Idle.
type State struct {
	dest    geom.Cell
	has     bool
	radius  int
	purpose Purpose

	// Loading and Unloading are set by the role during a round in which it
	// collects or transfers; either one suppresses movement for that round.
	Loading   bool
	Unloading bool
}

func (s *State) Idle() bool { return !s.has }

func (s *State) Dest() (geom.Cell, bool) { return s.dest, s.has }

// RadiusSq is the squared distance within which the destination counts as reached.
func (s *State) RadiusSq() int { return s.radius }

func (s *State) Purpose() Purpose {
	if !s.has {
		return PurposeNone
	}
	return s.purpose
}

// Set replaces the destination unconditionally. A negative radius is treated as 0.
func (s *State) Set(c geom.Cell, radiusSq int, p Purpose) {
	if radiusSq < 0 {
		radiusSq = 0
	}
	s.dest, s.has, s.radius, s.purpose = c, true, radiusSq, p
}

// Supersede sets the destination only if p outranks the current purpose
// (any purpose outranks Idle). It reports whether the destination changed.
func (s *State) Supersede(c geom.Cell, radiusSq int, p Purpose) bool {
	if s.has && p <= s.purpose {
		return false
	}
	s.Set(c, radiusSq, p)
	return true
}

func (s *State) Clear() {
	s.dest, s.has, s.radius, s.purpose = geom.Cell{}, false, 0, PurposeNone
}

// BeginRound drops the per-round load/unload flags.
func (s *State) BeginRound() {
	s.Loading = false
	s.Unloading = false
}

// Suppressed reports whether movement is held this round.
func (s *State) Suppressed() bool { return s.Loading || s.Unloading }

func (s *State) Reached(pos geom.Cell) bool {
	return s.has && pos.DistSq(s.dest) <= s.radius
}

// Check clears the destination when pos is within the arrival radius, or
// when valid (if non-nil) rejects it, and reports which happened.
func (s *State) Check(pos geom.Cell, valid func(dest geom.Cell, p Purpose) bool) Outcome {
	if !s.has {
		return Idle
	}
	if s.Reached(pos) {
		s.Clear()
		return Arrived
	}
	if valid != nil && !valid(s.dest, s.purpose) {
		s.Clear()
		return Invalidated
	}
	return EnRoute
}
