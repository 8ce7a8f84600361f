package channel

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

// A fact packs as (x << 10) | (y << 4) | tag, 16 bits in total.
const (
	TagBits   = 4
	CoordBits = 6
	MaxCoord  = 1 << CoordBits

	tagMask   = 1<<TagBits - 1
	coordMask = MaxCoord - 1
	yShift    = TagBits
	xShift    = TagBits + CoordBits
)

// Tag ranges do not overlap: currents 3..10, wells 11..13, zones 14..15.
type Tag uint8

const (
	TagInvalid    Tag = 0
	TagImpassable Tag = 1
	TagCloud      Tag = 2
	TagCurrentN   Tag = 3 // + direction index, through TagCurrentNW
	TagCurrentNW  Tag = TagCurrentN + 7
	TagAdamantium Tag = 11
	TagMana       Tag = 12
	TagElixir     Tag = 13
	// TagZoneSelf means the zone is owned by the team whose channel holds the fact.
	TagZoneSelf  Tag = 14
	TagZoneOther Tag = 15
)

type FactKind int8

const (
	KindNone FactKind = iota
	KindImpassable
	KindCloud
	KindCurrent
	KindWell
	KindZone
)

func (t Tag) Kind() FactKind {
	switch {
	case t == TagImpassable:
		return KindImpassable
	case t == TagCloud:
		return KindCloud
	case t >= TagCurrentN && t <= TagCurrentNW:
		return KindCurrent
	case t >= TagAdamantium && t <= TagElixir:
		return KindWell
	case t == TagZoneSelf || t == TagZoneOther:
		return KindZone
	}
	return KindNone
}

// Fact is one broadcastable observation about a cell.
type Fact struct {
	Cell geom.Cell
	Tag  Tag
}

func Impassable(c geom.Cell) Fact { return Fact{Cell: c, Tag: TagImpassable} }
func Cloud(c geom.Cell) Fact      { return Fact{Cell: c, Tag: TagCloud} }

// Current returns a current fact; a Center direction yields an invalid fact.
func Current(c geom.Cell, d geom.Direction) Fact {
	if d < geom.North || d > geom.NorthWest {
		return Fact{Cell: c}
	}
	return Fact{Cell: c, Tag: TagCurrentN + Tag(d)}
}

func Well(c geom.Cell, r host.Resource) Fact {
	switch r {
	case host.Adamantium:
		return Fact{Cell: c, Tag: TagAdamantium}
	case host.Mana:
		return Fact{Cell: c, Tag: TagMana}
	case host.Elixir:
		return Fact{Cell: c, Tag: TagElixir}
	}
	return Fact{Cell: c}
}

// Zone returns a contested-zone ownership fact relative to the channel's team.
func Zone(c geom.Cell, ownedBySelf bool) Fact {
	if ownedBySelf {
		return Fact{Cell: c, Tag: TagZoneSelf}
	}
	return Fact{Cell: c, Tag: TagZoneOther}
}

// Direction is valid only for current facts.
func (f Fact) Direction() geom.Direction {
	if f.Tag.Kind() != KindCurrent {
		return geom.Center
	}
	return geom.Direction(f.Tag - TagCurrentN)
}

// Resource is valid only for well facts.
func (f Fact) Resource() host.Resource {
	switch f.Tag {
	case TagAdamantium:
		return host.Adamantium
	case TagMana:
		return host.Mana
	case TagElixir:
		return host.Elixir
	}
	return host.NoResource
}

func (f Fact) OwnedBySelf() bool { return f.Tag == TagZoneSelf }

func (f Fact) String() string {
	return fmt.Sprintf("(%d,%d)#%d", f.Cell.X, f.Cell.Y, f.Tag)
}

// Encode packs f. It reports false for facts that carry no information or do
// not fit the bit widths; such facts are never broadcast.
func Encode(f Fact) (int, bool) {
	if f.Tag.Kind() == KindNone {
		return Empty, false
	}
	if f.Cell.X < 0 || f.Cell.Y < 0 || f.Cell.X >= MaxCoord || f.Cell.Y >= MaxCoord {
		return Empty, false
	}
	return f.Cell.X<<xShift | f.Cell.Y<<yShift | int(f.Tag), true
}

// Decode unpacks a slot value. Empty and malformed values report false.
func Decode(v int) (Fact, bool) {
	if v <= Empty || v > MaxValue {
		return Fact{}, false
	}
	tag := Tag(v & tagMask)
	if tag.Kind() == KindNone {
		return Fact{}, false
	}
	return Fact{
		Cell: geom.Cell{X: (v >> xShift) & coordMask, Y: (v >> yShift) & coordMask},
		Tag:  tag,
	}, true
}

// FactFromMapInfo turns a sensed cell into its broadcastable fact. An
// unremarkable cell (passable, clear, still) has none.
func FactFromMapInfo(mi host.MapInfo) (Fact, bool) {
	switch {
	case !mi.Passable:
		return Impassable(mi.Cell), true
	case mi.Current != geom.Center && mi.Current.Valid():
		return Current(mi.Cell, mi.Current), true
	case mi.Cloud:
		return Cloud(mi.Cell), true
	}
	return Fact{}, false
}

// EncodeLocation packs a bare structure location as x*64 + y + 1.
func EncodeLocation(c geom.Cell) (int, bool) {
	if c.X < 0 || c.Y < 0 || c.X >= MaxCoord || c.Y >= MaxCoord {
		return Empty, false
	}
	return c.X*MaxCoord + c.Y + 1, true
}

func DecodeLocation(v int) (geom.Cell, bool) {
	if v <= Empty || v > MaxCoord*MaxCoord {
		return geom.Cell{}, false
	}
	v--
	return geom.Cell{X: v / MaxCoord, Y: v % MaxCoord}, true
}
