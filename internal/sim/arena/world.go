// Package arena is an in-memory host: it owns the map, the robots and each
// team's shared array, and schedules one agent round per robot per round.
package arena

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
	"github.com/andrewgopher/battlecode23-scaffold/internal/sim/tuning"
)

// Runner is one robot's brain as the host sees it.
type Runner interface {
	Round(rc host.Controller) error
}

// Spawner creates the runner for a newly built robot.
type Spawner func(self host.Self) Runner

// Sink receives every round summary. Sinks are called on the world goroutine
// and must not block.
type Sink interface {
	Round(msg protocol.RoundMsg)
	End(msg protocol.EndMsg)
}

type Config struct {
	MatchID string
	Seed    int64
	Rules   tuning.Tuning
	Spawn   Spawner
	Sinks   []Sink
	Logger  *log.Logger
}

type robot struct {
	id     int
	team   host.Team
	kind   host.Kind
	cell   geom.Cell
	health int
	alive  bool

	cargo     [4]int
	anchor    bool // carrier holds one
	anchors   int  // headquarters stock
	indicator string

	runner Runner
}

type island struct {
	owner  host.Team
	health int
}

type teamState struct {
	shared     [channel.Size]int
	adamantium int
	mana       int
	elixir     int
	built      int // anchors built
	faults     int
}

type World struct {
	cfg   Config
	rules tuning.Tuning
	m     *Map

	round   int
	nextID  int
	robots  map[int]*robot
	order   []int
	occ     map[geom.Cell]int
	islands map[int]*island
	teams   map[host.Team]*teamState

	over   bool
	winner host.Team
	reason string

	stop chan struct{}
}

func New(m *Map, cfg Config) (*World, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil map", ErrBadMap)
	}
	if cfg.Spawn == nil {
		return nil, fmt.Errorf("arena: config needs a Spawn function")
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:     cfg,
		rules:   cfg.Rules,
		m:       m,
		nextID:  1,
		robots:  map[int]*robot{},
		occ:     map[geom.Cell]int{},
		islands: map[int]*island{},
		teams:   map[host.Team]*teamState{},
		stop:    make(chan struct{}),
	}
	for _, t := range []host.Team{host.TeamA, host.TeamB} {
		w.teams[t] = &teamState{adamantium: cfg.Rules.StartAdamantium, mana: cfg.Rules.StartMana}
	}
	for _, id := range m.IslandIDs() {
		w.islands[id] = &island{owner: host.Neutral}
	}
	// Headquarters alternate between teams so neither always moves first.
	a, b := m.Headquarters(host.TeamA), m.Headquarters(host.TeamB)
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			w.spawn(host.TeamA, host.Headquarters, a[i])
		}
		if i < len(b) {
			w.spawn(host.TeamB, host.Headquarters, b[i])
		}
	}
	return w, nil
}

func (w *World) spawn(t host.Team, k host.Kind, c geom.Cell) *robot {
	r := &robot{
		id:     w.nextID,
		team:   t,
		kind:   k,
		cell:   c,
		health: w.rules.HitPointsOf(k.String()),
		alive:  true,
	}
	w.nextID++
	w.robots[r.id] = r
	w.order = append(w.order, r.id)
	w.occ[c] = r.id
	r.runner = w.cfg.Spawn(&controller{w: w, r: r})
	return r
}

func (w *World) kill(r *robot) {
	r.alive = false
	delete(w.occ, r.cell)
	delete(w.robots, r.id)
}

func (w *World) Round() int { return w.round }

func (w *World) Map() *Map { return w.m }

func (w *World) Over() bool { return w.over }

func (w *World) Winner() host.Team { return w.winner }

// Shared returns a copy of a team's shared array.
func (w *World) Shared(t host.Team) [channel.Size]int {
	if ts := w.teams[t]; ts != nil {
		return ts.shared
	}
	return [channel.Size]int{}
}

// Robots returns the live robots in scheduling order.
func (w *World) Robots() []host.RobotInfo {
	out := make([]host.RobotInfo, 0, len(w.robots))
	for _, id := range w.order {
		if r := w.robots[id]; r != nil {
			out = append(out, r.info())
		}
	}
	return out
}

// Indicator returns the last diagnostics string robot id set.
func (w *World) Indicator(id int) string {
	if r := w.robots[id]; r != nil {
		return r.indicator
	}
	return ""
}

func (w *World) IslandOwner(id int) host.Team {
	if is := w.islands[id]; is != nil {
		return is.owner
	}
	return host.Neutral
}

// Run steps the world until the match ends, ctx is cancelled or Stop is
// called. A zero tick rate runs rounds back to back.
func (w *World) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if w.rules.TickRateHz > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(w.rules.TickRateHz))
		defer ticker.Stop()
		tick = ticker.C
	}
	for !w.over {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.stop:
				w.finish(host.Neutral, "STOPPED")
				return nil
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.stop:
				w.finish(host.Neutral, "STOPPED")
				return nil
			default:
			}
		}
		w.StepOnce()
	}
	return nil
}

func (w *World) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
}

func (w *World) logf(format string, args ...any) {
	if w.cfg.Logger != nil {
		w.cfg.Logger.Printf(format, args...)
	}
}

func (r *robot) info() host.RobotInfo {
	return host.RobotInfo{ID: r.id, Team: r.team, Kind: r.kind, Cell: r.cell, Health: r.health}
}

func sortRobots(rs []host.RobotInfo) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
}
