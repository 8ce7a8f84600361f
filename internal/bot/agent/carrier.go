package agent

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/target"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/territory"
)

var cargoKinds = []host.Resource{host.Adamantium, host.Mana, host.Elixir}

// carrier gathers resources and ferries anchors to unclaimed zones.
type carrier struct {
	rot *target.Rotation
}

func newCarrier(kinds []host.Resource, id int) *carrier {
	return &carrier{rot: target.NewRotation(kinds, id)}
}

func (r *carrier) Round(c *Context, rc host.Controller) error {
	pos := rc.Location()
	if c.Target.Purpose() == target.PurposeZone && !rc.HasAnchor() {
		c.Target.Clear()
	}
	c.Target.Check(pos, c.stillValid)

	acted, err := r.act(c, rc)
	if err != nil {
		return err
	}
	r.plan(c, rc)
	if err := c.move(rc); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if !acted {
		if _, err := r.act(c, rc); err != nil {
			return err
		}
	}
	c.indicate(rc)
	return nil
}

// act performs at most one action and reports whether it did.
func (r *carrier) act(c *Context, rc host.Controller) (bool, error) {
	pos := rc.Location()
	if rc.HasAnchor() {
		o, known := c.Store.Zones().Owner(pos)
		if !known || o != territory.Unclaimed || !rc.CanPlaceAnchor() {
			return false, nil
		}
		if err := rc.PlaceAnchor(); err != nil {
			return false, fmt.Errorf("place anchor: %w", err)
		}
		c.Store.LearnZone(pos, territory.Self)
		c.Outbox.Push(channel.Zone(pos, true))
		c.Target.Clear()
		return true, nil
	}

	for _, hq := range c.Store.Structures() {
		if pos.DistSq(hq) <= 2 && rc.CanTakeAnchor(hq) {
			if err := rc.TakeAnchor(hq); err != nil {
				return false, fmt.Errorf("take anchor: %w", err)
			}
			c.Target.Clear()
			return true, nil
		}
	}

	if rc.CargoWeight() >= c.Tuning.ReturnAtCargo {
		return r.unload(c, rc)
	}

	for _, d := range append(geom.Directions[:], geom.Center) {
		cell := pos.Add(d)
		if _, ok := c.Store.WellAt(cell); !ok || !rc.CanCollect(cell) {
			continue
		}
		if err := rc.Collect(cell); err != nil {
			return false, fmt.Errorf("collect: %w", err)
		}
		c.Target.Loading = true
		return true, nil
	}
	return false, nil
}

func (r *carrier) unload(c *Context, rc host.Controller) (bool, error) {
	pos := rc.Location()
	for _, hq := range c.Store.Structures() {
		if pos.DistSq(hq) > 2 {
			continue
		}
		for _, res := range cargoKinds {
			amount := rc.Cargo(res)
			if amount == 0 || !rc.CanTransfer(hq, res, amount) {
				continue
			}
			if err := rc.Transfer(hq, res, amount); err != nil {
				return false, fmt.Errorf("transfer: %w", err)
			}
			c.Target.Unloading = true
			if rc.CargoWeight() == 0 {
				r.rot.Advance()
				c.Target.Clear()
			}
			return true, nil
		}
	}
	return false, nil
}

// plan sets or supersedes the destination for this round.
func (r *carrier) plan(c *Context, rc host.Controller) {
	pos := rc.Location()
	if !rc.HasAnchor() && rc.CargoWeight() >= c.Tuning.ReturnAtCargo {
		if home, ok := c.Store.NearestStructure(pos); ok {
			c.Target.Supersede(home, c.Selector.Radii.Home, target.PurposeHome)
			return
		}
	}
	if rc.HasAnchor() {
		c.pick(pos, target.Wants{Claim: true})
		return
	}
	c.pick(pos, target.Wants{Resource: r.rot.Current()})
}
