package allocator

import (
	"math"
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/ledger"
)

func plan(weights ...int) Plan {
	var p Plan
	for i, w := range weights {
		p.Ratios = append(p.Ratios, Ratio{Kind: host.MobileKinds[i], Weight: w})
	}
	return p
}

func TestChoose_LargestDeficit(t *testing.T) {
	p := plan(5, 6, 2, 3, 4)
	c := ledger.CountsOf(map[host.Kind]int{host.Carrier: 2})

	ideal := p.Ideal(c)
	want := []float64{0.75, 0.9, 0.3, 0.45, 0.6}
	for i := range want {
		if math.Abs(ideal[i]-want[i]) > 1e-9 {
			t.Fatalf("ideal[%d]=%f want=%f", i, ideal[i], want[i])
		}
	}
	d := p.Choose(c, 0)
	if d.Action != BuildRobot || d.Kind != p.Ratios[1].Kind {
		t.Fatalf("decision=%+v want %v", d, p.Ratios[1].Kind)
	}
	if math.Abs(d.Deficit-0.9) > 1e-9 {
		t.Fatalf("deficit=%f", d.Deficit)
	}
}

func TestChoose_TieGoesToFirst(t *testing.T) {
	p := plan(5, 5, 3, 2, 1)
	d := p.Choose(ledger.Counts{}, 0)
	if d.Kind != host.Carrier {
		t.Fatalf("tie chose %v want CARRIER", d.Kind)
	}
	d = p.Choose(ledger.CountsOf(map[host.Kind]int{host.Carrier: 1}), 0)
	if d.Kind != host.Launcher {
		t.Fatalf("chose %v want LAUNCHER", d.Kind)
	}
}

func TestChoose_ZeroWeightNeverChosen(t *testing.T) {
	p := plan(0, 1)
	d := p.Choose(ledger.CountsOf(map[host.Kind]int{host.Launcher: 40}), 0)
	if d.Kind != host.Launcher {
		t.Fatalf("chose %v", d.Kind)
	}
	if d := (Plan{}).Choose(ledger.Counts{}, 0); d.Action != None {
		t.Fatalf("empty plan chose %+v", d)
	}
}

func TestChoose_AnchorRule(t *testing.T) {
	p := plan(1, 1)
	p.Anchor = AnchorRule{Enabled: true, Per: host.Carrier, Ratio: 0.5, Max: 3}

	// 6 carriers, 6 launchers: robot deficits are 0.5 each; anchor ideal 3.
	c := ledger.CountsOf(map[host.Kind]int{host.Carrier: 6, host.Launcher: 6})
	if d := p.Choose(c, 0); d.Action != BuildAnchor {
		t.Fatalf("anchor should win: %+v", d)
	}
	if d := p.Choose(c, 2); d.Action != BuildAnchor {
		t.Fatalf("anchor deficit 1 > 0.5 should win: %+v", d)
	}
	if d := p.Choose(c, 3); d.Action != BuildRobot {
		t.Fatalf("cap reached, robots should win: %+v", d)
	}
	// Equal deficits: robots keep priority.
	c = ledger.CountsOf(map[host.Kind]int{host.Carrier: 1, host.Launcher: 1})
	if d := p.Choose(c, 0); d.Action != BuildRobot {
		t.Fatalf("anchor deficit 0.5 ties 0.5, robot must win: %+v", d)
	}
}

type fakeBuilder struct {
	at      geom.Cell
	walls   map[geom.Cell]bool
	robots  map[geom.Cell]bool
	afford  bool
	built   []geom.Cell
	anchors int
}

func (f *fakeBuilder) Location() geom.Cell               { return f.at }
func (f *fakeBuilder) SensePassability(c geom.Cell) bool { return !f.walls[c] }
func (f *fakeBuilder) SenseRobotAt(c geom.Cell) (host.RobotInfo, bool) {
	return host.RobotInfo{Cell: c}, f.robots[c]
}
func (f *fakeBuilder) CanBuildRobot(k host.Kind, c geom.Cell) bool { return f.afford }
func (f *fakeBuilder) BuildRobot(k host.Kind, c geom.Cell) error {
	f.built = append(f.built, c)
	f.robots[c] = true
	return nil
}
func (f *fakeBuilder) CanBuildAnchor() bool { return f.afford }
func (f *fakeBuilder) BuildAnchor() error {
	f.anchors++
	return nil
}

func TestExecute(t *testing.T) {
	at := geom.Cell{X: 5, Y: 5}
	f := &fakeBuilder{
		at:     at,
		walls:  map[geom.Cell]bool{at.Add(geom.North): true},
		robots: map[geom.Cell]bool{at.Add(geom.NorthEast): true},
		afford: true,
	}
	res, err := Execute(f, Decision{Action: BuildRobot, Kind: host.Carrier})
	if err != nil || !res.Built || res.Cell != at.Add(geom.East) {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if _, err := Execute(f, Decision{Action: BuildAnchor}); err != nil || f.anchors != 1 {
		t.Fatalf("anchor build: anchors=%d err=%v", f.anchors, err)
	}

	f.afford = false
	res, _ = Execute(f, Decision{Action: BuildRobot, Kind: host.Carrier})
	if res.Built {
		t.Fatalf("unaffordable build happened")
	}

	f.afford = true
	for _, d := range geom.Directions {
		f.robots[at.Add(d)] = true
	}
	res, _ = Execute(f, Decision{Action: BuildRobot, Kind: host.Carrier})
	if res.Built || len(f.built) != 1 {
		t.Fatalf("built with no free spawn cell: %+v", res)
	}
}
