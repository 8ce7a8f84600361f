package channel

import (
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

func TestCodec_RoundTripAllFacts(t *testing.T) {
	for x := 0; x < MaxCoord; x++ {
		for y := 0; y < MaxCoord; y++ {
			for tag := TagImpassable; tag <= TagZoneOther; tag++ {
				f := Fact{Cell: geom.Cell{X: x, Y: y}, Tag: tag}
				v, ok := Encode(f)
				if !ok {
					t.Fatalf("Encode(%v) not representable", f)
				}
				if v == Empty {
					t.Fatalf("Encode(%v) = Empty", f)
				}
				if v > MaxValue {
					t.Fatalf("Encode(%v)=%d exceeds slot width", f, v)
				}
				got, ok := Decode(v)
				if !ok || got != f {
					t.Fatalf("Decode(Encode(%v))=%v ok=%v", f, got, ok)
				}
			}
		}
	}
}

func TestCodec_Unrepresentable(t *testing.T) {
	cases := []Fact{
		{Cell: geom.Cell{X: 1, Y: 1}},
		Current(geom.Cell{X: 1, Y: 1}, geom.Center),
		Well(geom.Cell{X: 1, Y: 1}, host.NoResource),
		Impassable(geom.Cell{X: MaxCoord, Y: 0}),
		Impassable(geom.Cell{X: 0, Y: -1}),
	}
	for _, f := range cases {
		if v, ok := Encode(f); ok {
			t.Fatalf("Encode(%v)=%d want not representable", f, v)
		}
	}
}

func TestCodec_DecodeGarbage(t *testing.T) {
	for _, v := range []int{0, -5, MaxValue + 1, 5 << xShift} {
		if f, ok := Decode(v); ok {
			t.Fatalf("Decode(%d)=%v want no information", v, f)
		}
	}
}

func TestCodec_TagMeaning(t *testing.T) {
	c := geom.Cell{X: 7, Y: 9}
	for _, d := range geom.Directions {
		f := Current(c, d)
		if f.Tag.Kind() != KindCurrent || f.Direction() != d {
			t.Fatalf("current %v decoded as kind=%v dir=%v", d, f.Tag.Kind(), f.Direction())
		}
		if f.Resource() != host.NoResource {
			t.Fatalf("current %v reports a well resource", d)
		}
	}
	for _, r := range []host.Resource{host.Adamantium, host.Mana, host.Elixir} {
		f := Well(c, r)
		if f.Tag.Kind() != KindWell || f.Resource() != r {
			t.Fatalf("well %v decoded as kind=%v res=%v", r, f.Tag.Kind(), f.Resource())
		}
		if f.Direction() != geom.Center {
			t.Fatalf("well %v reports a current direction", r)
		}
	}
	if !Zone(c, true).OwnedBySelf() || Zone(c, false).OwnedBySelf() {
		t.Fatalf("zone ownership flag mismatch")
	}
}

func TestFactFromMapInfo(t *testing.T) {
	c := geom.Cell{X: 2, Y: 3}
	if _, ok := FactFromMapInfo(host.MapInfo{Cell: c, Passable: true, Current: geom.Center}); ok {
		t.Fatalf("plain cell should carry no fact")
	}
	f, ok := FactFromMapInfo(host.MapInfo{Cell: c, Passable: false, Current: geom.Center})
	if !ok || f.Tag != TagImpassable {
		t.Fatalf("wall: %v ok=%v", f, ok)
	}
	f, ok = FactFromMapInfo(host.MapInfo{Cell: c, Passable: true, Current: geom.West})
	if !ok || f.Direction() != geom.West {
		t.Fatalf("current: %v ok=%v", f, ok)
	}
	f, ok = FactFromMapInfo(host.MapInfo{Cell: c, Passable: true, Cloud: true, Current: geom.Center})
	if !ok || f.Tag != TagCloud {
		t.Fatalf("cloud: %v ok=%v", f, ok)
	}
}

func TestLocation_RoundTrip(t *testing.T) {
	for _, c := range []geom.Cell{{X: 0, Y: 0}, {X: 63, Y: 63}, {X: 12, Y: 40}} {
		v, ok := EncodeLocation(c)
		if !ok || v == Empty {
			t.Fatalf("EncodeLocation(%v)=%d ok=%v", c, v, ok)
		}
		got, ok := DecodeLocation(v)
		if !ok || got != c {
			t.Fatalf("DecodeLocation(%d)=%v want=%v", v, got, c)
		}
	}
	if _, ok := DecodeLocation(Empty); ok {
		t.Fatalf("empty slot decoded as a location")
	}
}

func TestLedgerSlot(t *testing.T) {
	if _, ok := LedgerSlot(host.Headquarters); ok {
		t.Fatalf("headquarters must not have a ledger slot")
	}
	for _, k := range host.MobileKinds {
		i, ok := LedgerSlot(k)
		if !ok || i < LedgerFirst || i > LedgerLast {
			t.Fatalf("LedgerSlot(%v)=%d ok=%v", k, i, ok)
		}
	}
}
