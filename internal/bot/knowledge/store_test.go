package knowledge

import (
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel/channeltest"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/territory"
)

func mustEncode(t *testing.T, f channel.Fact) int {
	t.Helper()
	v, ok := channel.Encode(f)
	if !ok {
		t.Fatalf("Encode(%v)", f)
	}
	return v
}

func TestIngest_Idempotent(t *testing.T) {
	facts := []channel.Fact{
		channel.Impassable(geom.Cell{X: 1, Y: 2}),
		channel.Cloud(geom.Cell{X: 3, Y: 2}),
		channel.Current(geom.Cell{X: 4, Y: 4}, geom.SouthWest),
		channel.Well(geom.Cell{X: 8, Y: 1}, host.Mana),
		channel.Zone(geom.Cell{X: 9, Y: 9}, false),
	}
	s := New()
	for _, f := range facts {
		if !s.Ingest(mustEncode(t, f)) {
			t.Fatalf("first ingest of %v reported no change", f)
		}
	}
	before := s.Stats()
	for _, f := range facts {
		if s.Ingest(mustEncode(t, f)) {
			t.Fatalf("re-ingest of %v reported a change", f)
		}
	}
	if after := s.Stats(); after != before {
		t.Fatalf("stats changed on re-ingest: %+v -> %+v", before, after)
	}
	if o, _ := s.Zones().Owner(geom.Cell{X: 9, Y: 9}); o != territory.Other {
		t.Fatalf("zone owner=%v", o)
	}
}

func TestIngest_IgnoresGarbage(t *testing.T) {
	s := New()
	for _, v := range []int{0, -1, 1 << 20, 3 << 10} {
		if s.Ingest(v) {
			t.Fatalf("Ingest(%d) changed the store", v)
		}
	}
	if s.Stats() != (Stats{}) {
		t.Fatalf("store not empty: %+v", s.Stats())
	}
}

func TestNearestWell(t *testing.T) {
	s := New()
	s.Learn(channel.Well(geom.Cell{X: 10, Y: 10}, host.Adamantium))
	s.Learn(channel.Well(geom.Cell{X: 2, Y: 2}, host.Mana))
	s.Learn(channel.Well(geom.Cell{X: 3, Y: 0}, host.Adamantium))

	got, ok := s.NearestWell(geom.Cell{}, host.Adamantium, 0)
	if !ok || got != (geom.Cell{X: 3, Y: 0}) {
		t.Fatalf("nearest adamantium=%v ok=%v", got, ok)
	}
	if _, ok := s.NearestWell(geom.Cell{}, host.Adamantium, 4); ok {
		t.Fatalf("radius 4 should exclude every adamantium well")
	}
	if _, ok := s.NearestWell(geom.Cell{}, host.Elixir, 0); ok {
		t.Fatalf("no elixir wells known")
	}
}

func TestSync_ReadsStructuresAndLanes(t *testing.T) {
	a := channeltest.New()
	hq, _ := channel.EncodeLocation(geom.Cell{X: 5, Y: 6})
	a.Slots[channel.StructureFirst] = hq
	a.Slots[channel.FastFirst] = mustEncode(t, channel.Zone(geom.Cell{X: 1, Y: 1}, true))
	a.Slots[channel.FastFirst+3] = 12345 &^ 0xF // tag 0: garbage
	a.Slots[channel.SlowLast] = mustEncode(t, channel.Impassable(geom.Cell{X: 0, Y: 7}))

	s := New()
	res, err := s.Sync(a, a, 0)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Learned != 3 || res.Truncated {
		t.Fatalf("res=%+v", res)
	}
	if c, ok := s.NearestStructure(geom.Cell{}); !ok || c != (geom.Cell{X: 5, Y: 6}) {
		t.Fatalf("structure=%v ok=%v", c, ok)
	}
	if !s.IsImpassable(geom.Cell{X: 0, Y: 7}) {
		t.Fatalf("slow lane fact missing")
	}

	res, _ = s.Sync(a, a, 0)
	if res.Learned != 0 {
		t.Fatalf("second sync learned=%d", res.Learned)
	}
}

func TestSync_TruncatesBeforeSlowLane(t *testing.T) {
	a := channeltest.New()
	a.Slots[channel.SlowFirst] = mustEncode(t, channel.Cloud(geom.Cell{X: 1, Y: 1}))
	a.ReadCost = 1
	a.Budget = channel.Structures.Len() + channel.FastLane.Len() + 10
	s := New()
	res, err := s.Sync(a, a, 11)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !res.Truncated {
		t.Fatalf("expected truncation")
	}
	if s.Stats().Clouds != 0 {
		t.Fatalf("slow lane should not have been read")
	}
}
