package channel

import "github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"

// Size is the number of slots in a team's shared array.
const Size = 64

// Slot layout. Any change here must be mirrored by both Publish callers and
// the readers in knowledge and ledger.
const (
	BarrierSlot = 0

	LedgerFirst = 1
	LedgerLast  = 5

	// AnchorTotalSlot holds the number of anchors the team's coordinators have
	// built so far. It is never reset.
	AnchorTotalSlot = 6

	StructureFirst = 7
	StructureLast  = 14

	FastFirst = 15
	FastLast  = 26

	SlowFirst = 27
	SlowLast  = Size - 1
)

// Empty is the value of an unused slot. No fact encodes to it.
const Empty = 0

// MaxValue is the largest value a slot can hold.
const MaxValue = 1<<16 - 1

var (
	// FastLane carries zone and well facts.
	FastLane = Lane{First: FastFirst, Last: FastLast}
	// SlowLane carries terrain and current facts.
	SlowLane = Lane{First: SlowFirst, Last: SlowLast}
	// Structures holds peer-structure locations, one per coordinator.
	Structures = Lane{First: StructureFirst, Last: StructureLast}
)

// LedgerSlot returns the population slot of a mobile kind.
func LedgerSlot(k host.Kind) (int, bool) {
	i := int(k)
	if i < LedgerFirst || i > LedgerLast {
		return 0, false
	}
	return i, true
}

// LaneFor picks the lane a fact is broadcast on.
func LaneFor(f Fact) Lane {
	switch f.Tag.Kind() {
	case KindZone, KindWell:
		return FastLane
	}
	return SlowLane
}
