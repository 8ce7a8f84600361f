package arena

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/sim/tuning"
)

// controller is one robot's view of the world for one round.
type controller struct {
	w      *World
	r      *robot
	budget int
	moved  bool
	acted  bool
}

var _ host.Controller = (*controller)(nil)

func notAllowed(op string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(op, args...), host.ErrNotAllowed)
}

// Self

func (c *controller) ID() int             { return c.r.id }
func (c *controller) Team() host.Team     { return c.r.team }
func (c *controller) Kind() host.Kind     { return c.r.kind }
func (c *controller) Location() geom.Cell { return c.r.cell }
func (c *controller) Round() int          { return c.w.round }
func (c *controller) MapWidth() int       { return c.w.m.Width }
func (c *controller) MapHeight() int      { return c.w.m.Height }
func (c *controller) BudgetLeft() int     { return c.budget }

func (c *controller) RobotCount() int {
	n := 0
	for _, r := range c.w.robots {
		if r.team == c.r.team {
			n++
		}
	}
	return n
}

func (c *controller) spend(n int) { c.budget -= n }

func (c *controller) visible(cell geom.Cell) bool {
	return c.w.m.InBounds(cell) && c.r.cell.DistSq(cell) <= c.w.rules.VisionRadiusSq
}

func (c *controller) clampRadius(radiusSq int) int {
	if radiusSq < 0 || radiusSq > c.w.rules.VisionRadiusSq {
		return c.w.rules.VisionRadiusSq
	}
	return radiusSq
}

// Perception

func (c *controller) SenseNearbyRobots(radiusSq int, team host.Team) []host.RobotInfo {
	c.spend(c.w.rules.Budget.SenseCost)
	radiusSq = c.clampRadius(radiusSq)
	var out []host.RobotInfo
	for _, r := range c.w.robots {
		if r.id == c.r.id || (team != host.Neutral && r.team != team) {
			continue
		}
		if c.r.cell.DistSq(r.cell) <= radiusSq {
			out = append(out, r.info())
		}
	}
	sortRobots(out)
	return out
}

func (c *controller) SenseRobotAt(cell geom.Cell) (host.RobotInfo, bool) {
	if !c.visible(cell) {
		return host.RobotInfo{}, false
	}
	id, ok := c.w.occ[cell]
	if !ok {
		return host.RobotInfo{}, false
	}
	return c.w.robots[id].info(), true
}

func (c *controller) SensePassability(cell geom.Cell) bool {
	return c.visible(cell) && c.w.m.Passable(cell)
}

func (c *controller) SenseNearbyMapInfos(radiusSq int) []host.MapInfo {
	c.spend(c.w.rules.Budget.SenseCost)
	var out []host.MapInfo
	c.eachVisible(c.clampRadius(radiusSq), func(cell geom.Cell) {
		out = append(out, c.w.m.Info(cell))
	})
	return out
}

func (c *controller) SenseNearbyWells() []host.WellInfo {
	c.spend(c.w.rules.Budget.SenseCost)
	var out []host.WellInfo
	c.eachVisible(c.w.rules.VisionRadiusSq, func(cell geom.Cell) {
		if r, ok := c.w.m.Well(cell); ok {
			out = append(out, host.WellInfo{Cell: cell, Resource: r})
		}
	})
	return out
}

func (c *controller) SenseNearbyIslands() []host.IslandInfo {
	c.spend(c.w.rules.Budget.SenseCost)
	byID := map[int]*host.IslandInfo{}
	var ids []int
	c.eachVisible(c.w.rules.VisionRadiusSq, func(cell geom.Cell) {
		id, ok := c.w.m.IslandAt(cell)
		if !ok {
			return
		}
		info := byID[id]
		if info == nil {
			info = &host.IslandInfo{ID: id, Owner: c.w.islands[id].owner}
			byID[id] = info
			ids = append(ids, id)
		}
		info.Cells = append(info.Cells, cell)
	})
	out := make([]host.IslandInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byID[id])
	}
	return out
}

// eachVisible visits in-bounds cells within radiusSq, west to east then
// south to north.
func (c *controller) eachVisible(radiusSq int, fn func(geom.Cell)) {
	at := c.r.cell
	reach := 0
	for reach*reach < radiusSq {
		reach++
	}
	for x := at.X - reach; x <= at.X+reach; x++ {
		for y := at.Y - reach; y <= at.Y+reach; y++ {
			cell := geom.Cell{X: x, Y: y}
			if c.w.m.InBounds(cell) && at.DistSq(cell) <= radiusSq {
				fn(cell)
			}
		}
	}
}

// Actions

func (c *controller) CanMove(d geom.Direction) bool {
	if c.moved || c.r.kind == host.Headquarters || d == geom.Center || !d.Valid() {
		return false
	}
	next := c.r.cell.Add(d)
	if !c.w.m.Passable(next) {
		return false
	}
	_, occupied := c.w.occ[next]
	return !occupied
}

func (c *controller) Move(d geom.Direction) error {
	if !c.CanMove(d) {
		return notAllowed("move %s", d)
	}
	c.w.moveRobot(c.r, c.r.cell.Add(d))
	c.moved = true
	return nil
}

func (c *controller) enemyAt(cell geom.Cell) (*robot, bool) {
	id, ok := c.w.occ[cell]
	if !ok {
		return nil, false
	}
	r := c.w.robots[id]
	return r, r.team != c.r.team
}

func (c *controller) CanAttack(cell geom.Cell) bool {
	if c.acted || c.r.kind != host.Launcher || c.r.cell.DistSq(cell) > c.w.rules.AttackRadiusSq {
		return false
	}
	r, enemy := c.enemyAt(cell)
	return enemy && r.kind != host.Headquarters
}

func (c *controller) Attack(cell geom.Cell) error {
	if !c.CanAttack(cell) {
		return notAllowed("attack %v", cell)
	}
	c.acted = true
	r, _ := c.enemyAt(cell)
	r.health -= c.w.rules.AttackDamage
	if r.health <= 0 {
		c.w.kill(r)
	}
	return nil
}

func (c *controller) Cargo(r host.Resource) int {
	if r <= host.NoResource || int(r) >= len(c.r.cargo) {
		return 0
	}
	return c.r.cargo[r]
}

func (c *controller) CargoWeight() int {
	n := 0
	for _, v := range c.r.cargo {
		n += v
	}
	return n
}

func (c *controller) interactable(cell geom.Cell) bool {
	return c.r.cell.DistSq(cell) <= c.w.rules.InteractRadiusSq
}

func (c *controller) CanCollect(cell geom.Cell) bool {
	if c.acted || c.r.kind != host.Carrier || !c.interactable(cell) {
		return false
	}
	if _, ok := c.w.m.Well(cell); !ok {
		return false
	}
	return c.CargoWeight() < c.w.rules.CarrierCapacity
}

func (c *controller) Collect(cell geom.Cell) error {
	if !c.CanCollect(cell) {
		return notAllowed("collect %v", cell)
	}
	res, _ := c.w.m.Well(cell)
	n := c.w.rules.CollectAmount
	if room := c.w.rules.CarrierCapacity - c.CargoWeight(); n > room {
		n = room
	}
	c.r.cargo[res] += n
	c.acted = true
	return nil
}

func (c *controller) ownHQAt(cell geom.Cell) (*robot, bool) {
	id, ok := c.w.occ[cell]
	if !ok {
		return nil, false
	}
	r := c.w.robots[id]
	return r, r.team == c.r.team && r.kind == host.Headquarters
}

func (c *controller) CanTransfer(cell geom.Cell, r host.Resource, amount int) bool {
	if c.acted || c.r.kind != host.Carrier || amount <= 0 || !c.interactable(cell) {
		return false
	}
	if _, ok := c.ownHQAt(cell); !ok {
		return false
	}
	return c.Cargo(r) >= amount
}

func (c *controller) Transfer(cell geom.Cell, r host.Resource, amount int) error {
	if !c.CanTransfer(cell, r, amount) {
		return notAllowed("transfer %d %s to %v", amount, r, cell)
	}
	c.r.cargo[r] -= amount
	ts := c.w.teams[c.r.team]
	switch r {
	case host.Adamantium:
		ts.adamantium += amount
	case host.Mana:
		ts.mana += amount
	case host.Elixir:
		ts.elixir += amount
	}
	c.acted = true
	return nil
}

func (c *controller) HasAnchor() bool { return c.r.anchor }

func (c *controller) AnchorsHeld() int {
	if c.r.kind == host.Headquarters {
		return c.r.anchors
	}
	if c.r.anchor {
		return 1
	}
	return 0
}

func (c *controller) affordable(cost tuning.Cost) bool {
	ts := c.w.teams[c.r.team]
	return ts.adamantium >= cost.Adamantium && ts.mana >= cost.Mana && ts.elixir >= cost.Elixir
}

func (c *controller) pay(cost tuning.Cost) {
	ts := c.w.teams[c.r.team]
	ts.adamantium -= cost.Adamantium
	ts.mana -= cost.Mana
	ts.elixir -= cost.Elixir
}

func (c *controller) CanBuildAnchor() bool {
	return !c.acted && c.r.kind == host.Headquarters && c.affordable(c.w.rules.AnchorCost)
}

func (c *controller) BuildAnchor() error {
	if !c.CanBuildAnchor() {
		return notAllowed("build anchor")
	}
	c.pay(c.w.rules.AnchorCost)
	c.r.anchors++
	c.w.teams[c.r.team].built++
	c.acted = true
	return nil
}

func (c *controller) CanTakeAnchor(cell geom.Cell) bool {
	if c.acted || c.r.kind != host.Carrier || c.r.anchor || !c.interactable(cell) {
		return false
	}
	hq, ok := c.ownHQAt(cell)
	return ok && hq.anchors > 0
}

func (c *controller) TakeAnchor(cell geom.Cell) error {
	if !c.CanTakeAnchor(cell) {
		return notAllowed("take anchor at %v", cell)
	}
	hq, _ := c.ownHQAt(cell)
	hq.anchors--
	c.r.anchor = true
	c.acted = true
	return nil
}

func (c *controller) CanPlaceAnchor() bool {
	if c.acted || !c.r.anchor {
		return false
	}
	id, ok := c.w.m.IslandAt(c.r.cell)
	return ok && c.w.islands[id].owner == host.Neutral
}

func (c *controller) PlaceAnchor() error {
	if !c.CanPlaceAnchor() {
		return notAllowed("place anchor at %v", c.r.cell)
	}
	id, _ := c.w.m.IslandAt(c.r.cell)
	is := c.w.islands[id]
	is.owner, is.health = c.r.team, c.w.rules.AnchorHealth
	c.r.anchor = false
	c.acted = true
	c.w.logf("round %d: team %s claimed island %d", c.w.round, c.r.team, id)
	return nil
}

func (c *controller) CanBuildRobot(k host.Kind, cell geom.Cell) bool {
	if c.acted || c.r.kind != host.Headquarters || k.IsCoordinator() {
		return false
	}
	if c.r.cell.DistSq(cell) > c.w.rules.BuildRadiusSq || !c.w.m.Passable(cell) {
		return false
	}
	if _, occupied := c.w.occ[cell]; occupied {
		return false
	}
	cost, ok := c.w.rules.CostOf(k.String())
	return ok && c.affordable(cost)
}

func (c *controller) BuildRobot(k host.Kind, cell geom.Cell) error {
	if !c.CanBuildRobot(k, cell) {
		return notAllowed("build %s at %v", k, cell)
	}
	cost, _ := c.w.rules.CostOf(k.String())
	c.pay(cost)
	c.w.spawn(c.r.team, k, cell)
	c.acted = true
	return nil
}

// Shared

func (c *controller) ReadShared(i int) (int, error) {
	if i < 0 || i >= channel.Size {
		return 0, fmt.Errorf("read slot %d: %w", i, ErrOutOfBounds)
	}
	c.spend(c.w.rules.Budget.ReadCost)
	return c.w.teams[c.r.team].shared[i], nil
}

// CanWriteShared holds near an own headquarters, amplifier or owned island.
func (c *controller) CanWriteShared(i, v int) bool {
	if i < 0 || i >= channel.Size || v < 0 || v > channel.MaxValue {
		return false
	}
	return c.canWrite()
}

func (c *controller) canWrite() bool {
	if c.r.kind == host.Headquarters || c.r.kind == host.Amplifier {
		return true
	}
	reach := c.w.rules.WriteRadiusSq
	for _, r := range c.w.robots {
		if r.team != c.r.team || (r.kind != host.Headquarters && r.kind != host.Amplifier) {
			continue
		}
		if c.r.cell.DistSq(r.cell) <= reach {
			return true
		}
	}
	for _, id := range c.w.m.IslandIDs() {
		if c.w.islands[id].owner != c.r.team {
			continue
		}
		for _, cell := range c.w.m.IslandCells(id) {
			if c.r.cell.DistSq(cell) <= reach {
				return true
			}
		}
	}
	return false
}

func (c *controller) WriteShared(i, v int) error {
	if !c.CanWriteShared(i, v) {
		return notAllowed("write slot %d=%d", i, v)
	}
	c.spend(c.w.rules.Budget.WriteCost)
	c.w.teams[c.r.team].shared[i] = v
	return nil
}

// Diagnostics

func (c *controller) SetIndicator(s string) { c.r.indicator = s }
