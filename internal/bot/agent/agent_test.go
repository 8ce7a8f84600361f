package agent

import (
	"strings"
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/tuning"
	"github.com/andrewgopher/battlecode23-scaffold/internal/sim/arena"
	simtuning "github.com/andrewgopher/battlecode23-scaffold/internal/sim/tuning"
)

const smallMap = `
name: small
rows:
  - "............"
  - ".A........M."
  - "............"
  - ".a...00...b."
  - "............"
  - ".M........A."
  - "............"
`

type runnerFunc func(rc host.Controller) error

func (f runnerFunc) Round(rc host.Controller) error { return f(rc) }

func newMatch(t *testing.T, layout string, spawn arena.Spawner) *arena.World {
	t.Helper()
	m, err := arena.ParseMap([]byte(layout))
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	rules := simtuning.Defaults()
	rules.Rounds = 100
	w, err := arena.New(m, arena.Config{MatchID: "agent-test", Rules: rules, Spawn: spawn})
	if err != nil {
		t.Fatalf("arena.New: %v", err)
	}
	return w
}

func TestAgent_LedgerTracksReportsWithOneRoundLag(t *testing.T) {
	w := newMatch(t, smallMap, func(self host.Self) arena.Runner { return New(self, tuning.Defaults(), nil) })

	// Round 1 only counts coordinators.
	w.StepOnce()
	if got := len(w.Robots()); got != 2 {
		t.Fatalf("round 1 robots=%d want 2", got)
	}
	// Rounds 2 and 3 both read an empty ledger and build carriers; only
	// the first carrier has reported by the end of round 3.
	w.StepOnce()
	w.StepOnce()
	if got := w.Shared(host.TeamA)[channel.LedgerFirst]; got != 1 {
		t.Fatalf("round 3 carrier slot=%d want 1", got)
	}
	w.StepOnce()
	shared := w.Shared(host.TeamA)
	if shared[1] != 2 || shared[2] != 0 || shared[channel.BarrierSlot] != 1 {
		t.Fatalf("round 4 shared[0:3]=%v", shared[:3])
	}
	w.StepOnce()
	if got := w.Shared(host.TeamA)[2]; got != 1 {
		t.Fatalf("round 5 launcher slot=%d want 1", got)
	}
	// Team A's headquarters is robot 1.
	if ind := w.Indicator(1); !strings.Contains(ind, "held=0") {
		t.Fatalf("headquarters indicator=%q", ind)
	}
	hq, _ := channel.DecodeLocation(w.Shared(host.TeamA)[channel.StructureFirst])
	if hq != (geom.Cell{X: 1, Y: 3}) {
		t.Fatalf("structure slot=%v", hq)
	}
}

const twoBaseMap = `
name: two-base
rows:
  - "................"
  - ".A..a......b..M."
  - "......00........"
  - "................"
  - ".M..a......b..A."
  - "................"
`

func TestAgent_TwoCoordinatorsShareOneBarrier(t *testing.T) {
	w := newMatch(t, twoBaseMap, func(self host.Self) arena.Runner { return New(self, tuning.Defaults(), nil) })
	prev := map[host.Kind]int{}
	for round := 1; round <= 40; round++ {
		w.StepOnce()
		shared := w.Shared(host.TeamA)
		if shared[channel.BarrierSlot] != 2 {
			t.Fatalf("round %d barrier=%d want 2", round, shared[channel.BarrierSlot])
		}
		// Reports land after the last coordinator's reset, so the ledger
		// never exceeds the population alive at the start of the round.
		for k := channel.LedgerFirst; k <= channel.LedgerLast; k++ {
			if got, limit := shared[k], prev[host.Kind(k)]; got > limit {
				t.Fatalf("round %d ledger[%s]=%d exceeds population %d", round, host.Kind(k), got, limit)
			}
		}
		prev = map[host.Kind]int{}
		for _, r := range w.Robots() {
			if r.Team == host.TeamA {
				prev[r.Kind]++
			}
		}
	}
	if prev[host.Carrier] == 0 {
		t.Fatalf("team A built no carriers: %v", prev)
	}
	// Both coordinators post their location.
	for i := 0; i < 2; i++ {
		if _, ok := channel.DecodeLocation(w.Shared(host.TeamA)[channel.StructureFirst+i]); !ok {
			t.Fatalf("structure slot %d empty", channel.StructureFirst+i)
		}
	}
}

// buildPanics makes every build attempt blow up mid-round.
type buildPanics struct{ host.Controller }

func (buildPanics) CanBuildRobot(host.Kind, geom.Cell) bool { panic("build exploded") }

func TestAgent_PanicAbandonsRoundButBarrierAdvances(t *testing.T) {
	var hq *Agent
	w := newMatch(t, smallMap, func(self host.Self) arena.Runner {
		a := New(self, tuning.Defaults(), nil)
		if self.Kind() != host.Headquarters || self.Team() != host.TeamA {
			return a
		}
		hq = a
		return runnerFunc(func(rc host.Controller) error { return a.Round(buildPanics{rc}) })
	})
	// The first round builds nothing, so it cannot fault.
	for i := 0; i < 4; i++ {
		w.StepOnce()
	}
	if hq.Faults() != 3 {
		t.Fatalf("faults=%d want 3", hq.Faults())
	}
	shared := w.Shared(host.TeamA)
	if shared[channel.BarrierSlot] != 1 {
		t.Fatalf("barrier=%d want 1", shared[channel.BarrierSlot])
	}
	if _, ok := channel.DecodeLocation(shared[channel.StructureFirst]); !ok {
		t.Fatalf("structure slot not posted before the panic")
	}
	for _, r := range w.Robots() {
		if r.Team == host.TeamA && r.Kind != host.Headquarters {
			t.Fatalf("team A built %s despite the panics", r.Kind)
		}
	}
}

func TestAgent_SharesSensedFactsOverTheChannel(t *testing.T) {
	w := newMatch(t, smallMap, func(self host.Self) arena.Runner { return New(self, tuning.Defaults(), nil) })
	// Wells near the HQ are sensed in round 1 and flushed on the odd round.
	w.StepOnce()
	shared := w.Shared(host.TeamA)
	found := false
	for _, v := range shared[channel.FastFirst : channel.FastLast+1] {
		if f, ok := channel.Decode(v); ok && f.Tag.Kind() == channel.KindWell {
			found = true
		}
	}
	if !found {
		t.Fatalf("no well fact in the fast lane: %v", shared[channel.FastFirst:channel.FastLast+1])
	}
}
