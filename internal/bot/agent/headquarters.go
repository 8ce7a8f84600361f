package agent

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/allocator"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/ledger"
)

// headquarters is the coordinator role: it runs the round barrier, builds
// and keeps the channel lanes fresh.
type headquarters struct {
	plan    allocator.Plan
	barrier *ledger.Barrier
	posted  bool
}

func newHeadquarters(p allocator.Plan) *headquarters {
	return &headquarters{plan: p}
}

func (h *headquarters) Round(c *Context, rc host.Controller) (err error) {
	census := h.barrier == nil
	if census {
		// Every coordinator runs its first round in the same round and none
		// of them builds in it, so each one counts coordinators only and
		// they all capture the same total.
		h.barrier = ledger.NewBarrier(rc.RobotCount())
	}
	turn, err := h.barrier.Begin(rc)
	if err != nil {
		return fmt.Errorf("barrier begin: %w", err)
	}
	// End runs even when the round is abandoned so the counter stays in step.
	defer func() {
		if endErr := h.barrier.End(rc, turn); err == nil && endErr != nil {
			err = fmt.Errorf("barrier end: %w", endErr)
		}
	}()
	if !h.posted {
		h.posted, err = postLocation(rc, turn.Index)
		if err != nil {
			return err
		}
	}

	counts, err := ledger.Read(rc)
	if err != nil {
		return err
	}
	anchors, err := ledger.Anchors(rc)
	if err != nil {
		return err
	}
	d := h.plan.Choose(counts, anchors)
	if !census {
		res, err := allocator.Execute(rc, d)
		if err != nil {
			return fmt.Errorf("build %s: %w", d.Action, err)
		}
		if res.Built && d.Action == allocator.BuildAnchor {
			if err := ledger.AddAnchor(rc); err != nil {
				return fmt.Errorf("anchor total: %w", err)
			}
			anchors++
		}
	}
	rc.SetIndicator(fmt.Sprintf("%s anchors=%d held=%d next=%s", counts, anchors, rc.AnchorsHeld(), decisionLabel(d)))

	if turn.Last && rc.Round()%2 == 1 {
		if err := channel.FastLane.Clear(rc); err != nil {
			return fmt.Errorf("clear fast lane: %w", err)
		}
		if err := channel.SlowLane.Clear(rc); err != nil {
			return fmt.Errorf("clear slow lane: %w", err)
		}
	}
	return nil
}

// postLocation claims structure slot first+index for this coordinator.
func postLocation(rc host.Controller, index int) (bool, error) {
	slot := channel.StructureFirst + index
	if slot > channel.StructureLast {
		return true, nil
	}
	v, ok := channel.EncodeLocation(rc.Location())
	if !ok || !rc.CanWriteShared(slot, v) {
		return false, nil
	}
	if err := rc.WriteShared(slot, v); err != nil {
		return false, fmt.Errorf("post location: %w", err)
	}
	return true, nil
}

func decisionLabel(d allocator.Decision) string {
	if d.Action == allocator.BuildRobot {
		return d.Kind.String()
	}
	return d.Action.String()
}
