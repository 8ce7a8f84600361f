package agent

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/ledger"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/tuning"
)

// Role is the kind-specific part of a round.
type Role interface {
	Round(c *Context, rc host.Controller) error
}

// Agent drives one robot. Its role is fixed at creation.
type Agent struct {
	ctx  *Context
	role Role
}

// New creates the agent for the robot behind self.
func New(self host.Self, t tuning.Tuning, logger *log.Logger) *Agent {
	c := newContext(self, t, logger)
	return &Agent{ctx: c, role: roleFor(c)}
}

func roleFor(c *Context) Role {
	switch c.Kind {
	case host.Headquarters:
		return newHeadquarters(c.Tuning.Plan())
	case host.Carrier:
		return newCarrier(c.Tuning.ResourceKinds(), c.ID)
	case host.Launcher:
		return &launcher{}
	}
	return scout{}
}

func (a *Agent) Context() *Context { return a.ctx }

// Faults is the number of rounds abandoned because of an error or panic.
func (a *Agent) Faults() int { return a.ctx.Faults }

// Round runs one round. Errors and panics abandon the rest of the round;
// they are logged and returned, and the agent carries on next round with
// whatever state it had.
func (a *Agent) Round(rc host.Controller) (err error) {
	c := a.ctx
	round := rc.Round()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			c.logf(round, "%s", debug.Stack())
		}
		if err != nil {
			c.Faults++
			c.logf(round, "round abandoned: %v", err)
		}
	}()

	c.Target.BeginRound()
	if !c.Kind.IsCoordinator() {
		if _, err := ledger.Report(rc, c.Kind); err != nil {
			return fmt.Errorf("ledger report: %w", err)
		}
	}
	c.sense(rc)
	if round%2 == 0 {
		res, err := c.Store.Sync(rc, rc, c.Tuning.BudgetReserve)
		if err != nil {
			return fmt.Errorf("channel sync: %w", err)
		}
		if res.Truncated {
			c.logf(round, "channel sync truncated after %d facts", res.Learned)
		}
	}
	if err := a.role.Round(c, rc); err != nil {
		return fmt.Errorf("%s: %w", c.Kind, err)
	}
	if round%2 == 1 {
		if _, err := c.Outbox.Flush(rc, rc, c.Tuning.BudgetReserve); err != nil {
			return fmt.Errorf("channel flush: %w", err)
		}
	}
	return nil
}
