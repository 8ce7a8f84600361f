package agent

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/target"
)

// launcher attacks whatever it can reach and contests enemy zones.
type launcher struct{}

func (launcher) Round(c *Context, rc host.Controller) error {
	c.Target.Check(rc.Location(), c.stillValid)
	attacked, err := attackNearest(c, rc)
	if err != nil {
		return err
	}
	c.pick(rc.Location(), target.Wants{Contest: true})
	if err := c.move(rc); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if !attacked {
		if _, err := attackNearest(c, rc); err != nil {
			return err
		}
	}
	c.indicate(rc)
	return nil
}

// attackNearest attacks the closest enemy in range. Headquarters cannot be
// damaged so they are skipped.
func attackNearest(c *Context, rc host.Controller) (bool, error) {
	pos := rc.Location()
	var best *host.RobotInfo
	enemies := rc.SenseNearbyRobots(c.Tuning.AttackRadiusSq, c.Team.Opponent())
	for i := range enemies {
		e := &enemies[i]
		if e.Kind.IsCoordinator() || !rc.CanAttack(e.Cell) {
			continue
		}
		if best == nil || pos.DistSq(e.Cell) < pos.DistSq(best.Cell) ||
			(pos.DistSq(e.Cell) == pos.DistSq(best.Cell) && e.Health < best.Health) {
			best = e
		}
	}
	if best == nil {
		return false, nil
	}
	if err := rc.Attack(best.Cell); err != nil {
		return false, fmt.Errorf("attack: %w", err)
	}
	return true, nil
}

// scout explores. Amplifiers, boosters and destabilizers use it; in the host
// their presence extends where teammates may write the channel.
type scout struct{}

func (scout) Round(c *Context, rc host.Controller) error {
	c.Target.Check(rc.Location(), c.stillValid)
	c.pick(rc.Location(), target.Wants{})
	if err := c.move(rc); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if c.Target.Purpose() == target.PurposeExplore {
		rc.SetIndicator(fmt.Sprintf("explore heading %s", c.Explorer.Heading(rc.Location())))
		return nil
	}
	c.indicate(rc)
	return nil
}
