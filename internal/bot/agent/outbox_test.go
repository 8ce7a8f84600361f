package agent

import (
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel/channeltest"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

func TestOutbox_PushDedupesAndEvictsOldestNonZone(t *testing.T) {
	o := NewOutbox(3)
	zone := channel.Zone(geom.Cell{X: 1, Y: 1}, true)
	o.Push(zone)
	o.Push(channel.Impassable(geom.Cell{X: 2, Y: 2}))
	o.Push(channel.Impassable(geom.Cell{X: 2, Y: 2}))
	o.Push(channel.Cloud(geom.Cell{X: 3, Y: 3}))
	if o.Len() != 3 {
		t.Fatalf("len=%d want 3", o.Len())
	}
	o.Push(channel.Well(geom.Cell{X: 4, Y: 4}, host.Mana))
	if o.Len() != 3 || o.pending[0] != zone || o.queued[channel.Impassable(geom.Cell{X: 2, Y: 2})] {
		t.Fatalf("pending=%v", o.pending)
	}
	// The evicted fact can be queued again.
	o.Push(channel.Impassable(geom.Cell{X: 2, Y: 2}))
	if o.Len() != 3 {
		t.Fatalf("len=%d", o.Len())
	}
}

func TestOutbox_FlushHoldsUnwritableAndDropsOnFullLane(t *testing.T) {
	a := channeltest.New()
	a.ReadOnly = true
	o := NewOutbox(0)
	o.Push(channel.Impassable(geom.Cell{X: 5, Y: 5}))
	o.Push(channel.Zone(geom.Cell{X: 6, Y: 6}, false))

	a.ReadCost = 1
	budget := a.Budget
	res, err := o.Flush(a, a, 0)
	if err != nil || res.Held != 2 || o.Len() != 2 {
		t.Fatalf("read-only flush res=%+v err=%v len=%d", res, err, o.Len())
	}
	if a.Budget != budget {
		t.Fatalf("read-only flush spent %d on reads", budget-a.Budget)
	}

	a.ReadOnly = false
	res, err = o.Flush(a, a, 0)
	if err != nil || res.Written != 2 || o.Len() != 0 {
		t.Fatalf("flush res=%+v err=%v len=%d", res, err, o.Len())
	}

	// Fill the slow lane with other facts; a further terrain fact is dropped.
	for i := channel.SlowFirst; i <= channel.SlowLast; i++ {
		v, _ := channel.Encode(channel.Cloud(geom.Cell{X: i, Y: 1}))
		a.Slots[i] = v
	}
	o.Push(channel.Impassable(geom.Cell{X: 9, Y: 9}))
	res, err = o.Flush(a, a, 0)
	if err != nil || res.Dropped != 1 || o.Len() != 0 {
		t.Fatalf("full lane res=%+v err=%v len=%d", res, err, o.Len())
	}
}

func TestOutbox_FlushStopsWhenBudgetRunsLow(t *testing.T) {
	a := channeltest.New()
	a.Budget = 100
	a.ReadCost = 1
	o := NewOutbox(0)
	o.Push(channel.Impassable(geom.Cell{X: 1, Y: 2}))
	o.Push(channel.Cloud(geom.Cell{X: 3, Y: 4}))

	// One slow-lane publish scans 37 slots, which leaves less than the reserve.
	res, err := o.Flush(a, a, 70)
	if err != nil || res.Written != 1 || res.Held != 1 || o.Len() != 1 {
		t.Fatalf("res=%+v err=%v len=%d", res, err, o.Len())
	}
	a.Budget = 1 << 20
	res, err = o.Flush(a, a, 70)
	if err != nil || res.Written != 1 || o.Len() != 0 {
		t.Fatalf("second flush res=%+v err=%v len=%d", res, err, o.Len())
	}
}
