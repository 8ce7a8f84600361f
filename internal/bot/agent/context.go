// Package agent runs one robot's round: report to the ledger, sense, share
// facts over the channel and hand over to the robot's role.
package agent

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/knowledge"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/nav"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/target"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/territory"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/tuning"
)

// Context is everything one agent remembers between rounds. It is created
// when the robot spawns and threaded through every step.
type Context struct {
	ID    int
	Kind  host.Kind
	Team  host.Team
	Spawn geom.Cell

	Tuning tuning.Tuning
	Log    *log.Logger
	Rng    *rand.Rand

	Store    *knowledge.Store
	Target   target.State
	Selector target.Selector
	Explorer *target.Explorer
	Nav      *nav.Navigator
	Outbox   *Outbox

	Faults int
}

func newContext(self host.Self, t tuning.Tuning, logger *log.Logger) *Context {
	rng := rand.New(rand.NewSource(t.Seed + int64(self.ID())))
	store := knowledge.New()
	navigator := nav.New(rng)
	navigator.Currents = store.Current
	return &Context{
		ID:       self.ID(),
		Kind:     self.Kind(),
		Team:     self.Team(),
		Spawn:    self.Location(),
		Tuning:   t,
		Log:      logger,
		Rng:      rng,
		Store:    store,
		Selector: t.Selector(),
		Explorer: target.NewExplorer(self.Location(), self.MapWidth(), self.MapHeight()),
		Nav:      navigator,
		Outbox:   NewOutbox(0),
	}
}

func (c *Context) logf(round int, format string, args ...any) {
	if c.Log == nil {
		return
	}
	c.Log.Printf("%s#%d team=%s round=%d: %s", c.Kind, c.ID, c.Team, round, fmt.Sprintf(format, args...))
}

// observe learns a locally sensed fact and queues it for broadcast if new.
func (c *Context) observe(f channel.Fact) {
	if c.Store.Learn(f) {
		c.Outbox.Push(f)
	}
}

func (c *Context) sense(rc host.Controller) {
	for _, mi := range rc.SenseNearbyMapInfos(c.Tuning.SenseRadiusSq) {
		if f, ok := channel.FactFromMapInfo(mi); ok {
			c.observe(f)
		}
	}
	for _, w := range rc.SenseNearbyWells() {
		c.observe(channel.Well(w.Cell, w.Resource))
	}
	for _, is := range rc.SenseNearbyIslands() {
		if len(is.Cells) == 0 {
			continue
		}
		owner := ownerFor(is.Owner, c.Team)
		changed := false
		for _, cell := range is.Cells {
			if c.Store.LearnZone(cell, owner) {
				changed = true
			}
		}
		// One cell per island is enough for a peer to target it.
		if changed && owner != territory.Unclaimed {
			c.Outbox.Push(channel.Zone(is.Cells[0], owner == territory.Self))
		}
	}
	for _, r := range rc.SenseNearbyRobots(c.Tuning.SenseRadiusSq, c.Team) {
		if r.Kind.IsCoordinator() {
			c.Store.AddStructure(r.Cell)
		}
	}
}

func ownerFor(t, self host.Team) territory.Owner {
	switch t {
	case host.Neutral:
		return territory.Unclaimed
	case self:
		return territory.Self
	}
	return territory.Other
}

// stillValid rejects destinations the store has since ruled out.
func (c *Context) stillValid(dest geom.Cell, p target.Purpose) bool {
	switch p {
	case target.PurposeZone:
		o, ok := c.Store.Zones().Owner(dest)
		return !ok || o == territory.Unclaimed
	case target.PurposeContest:
		o, ok := c.Store.Zones().Owner(dest)
		return !ok || o == territory.Other
	case target.PurposeWell:
		_, ok := c.Store.WellAt(dest)
		return ok
	}
	return true
}

// pick keeps the destination current: a known target that outranks the
// current one replaces it, and an idle agent falls back to exploring.
func (c *Context) pick(pos geom.Cell, w target.Wants) {
	if p, ok := c.Selector.Known(pos, c.Store, w); ok {
		p.Apply(&c.Target)
		return
	}
	if c.Target.Idle() {
		c.Selector.Select(pos, c.Store, c.Explorer, w).Apply(&c.Target)
	}
}

// move steps toward the destination and records the new position.
func (c *Context) move(rc host.Controller) error {
	_, err := c.Nav.Step(rc, &c.Target)
	c.Explorer.Observe(rc.Location())
	return err
}

func (c *Context) indicate(rc host.Controller) {
	if d, ok := c.Target.Dest(); ok {
		rc.SetIndicator(fmt.Sprintf("%s -> (%d,%d)", c.Target.Purpose(), d.X, d.Y))
		return
	}
	rc.SetIndicator("idle")
}
