package host

import "github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"

type Team int8

const (
	Neutral Team = iota
	TeamA
	TeamB
)

func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return Neutral
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return "N"
}

// Kind is a robot category. The numeric value of the mobile kinds doubles as
// their ledger slot index, so the order is part of the channel layout.
type Kind int8

const (
	Headquarters Kind = iota
	Carrier
	Launcher
	Booster
	Destabilizer
	Amplifier
)

// MobileKinds lists every non-coordinator kind in ledger order.
var MobileKinds = []Kind{Carrier, Launcher, Booster, Destabilizer, Amplifier}

var kindNames = map[Kind]string{
	Headquarters: "HEADQUARTERS",
	Carrier:      "CARRIER",
	Launcher:     "LAUNCHER",
	Booster:      "BOOSTER",
	Destabilizer: "DESTABILIZER",
	Amplifier:    "AMPLIFIER",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

func (k Kind) IsCoordinator() bool { return k == Headquarters }

func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

type Resource int8

const (
	NoResource Resource = iota
	Adamantium
	Mana
	Elixir
)

func (r Resource) String() string {
	switch r {
	case Adamantium:
		return "ADAMANTIUM"
	case Mana:
		return "MANA"
	case Elixir:
		return "ELIXIR"
	}
	return "NONE"
}

func ParseResource(s string) (Resource, bool) {
	for _, r := range []Resource{Adamantium, Mana, Elixir} {
		if r.String() == s {
			return r, true
		}
	}
	return NoResource, false
}

type RobotInfo struct {
	ID     int
	Team   Team
	Kind   Kind
	Cell   geom.Cell
	Health int
}

// MapInfo is what sensing reveals about a single cell.
type MapInfo struct {
	Cell     geom.Cell
	Passable bool
	Cloud    bool
	Current  geom.Direction // Center when the cell has no current
}

type WellInfo struct {
	Cell     geom.Cell
	Resource Resource
}

type IslandInfo struct {
	ID    int
	Cells []geom.Cell
	Owner Team
}
