package arena

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

// StepOnce runs one full round: every robot alive at the start of the round
// acts once in spawn order, then currents, income and zone decay apply.
func (w *World) StepOnce() protocol.RoundMsg {
	if w.over {
		return w.summary()
	}
	w.round++
	order := append([]int(nil), w.order...)
	for _, id := range order {
		r := w.robots[id]
		if r == nil || !r.alive {
			continue
		}
		w.runRobot(r)
	}
	w.compact()
	w.applyCurrents()
	w.applyIncome()
	w.settleIslands()

	msg := w.summary()
	for _, s := range w.cfg.Sinks {
		s.Round(msg)
	}
	w.checkEnd()
	return msg
}

func (w *World) runRobot(r *robot) {
	rc := &controller{w: w, r: r, budget: w.rules.Budget.PerRound}
	err := safeRound(r.runner, rc)
	if err != nil {
		w.teams[r.team].faults++
	}
}

// safeRound keeps a misbehaving runner from taking the host down.
func safeRound(run Runner, rc host.Controller) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("arena: runner panic: %v", p)
		}
	}()
	if run == nil {
		return nil
	}
	return run.Round(rc)
}

func (w *World) compact() {
	kept := w.order[:0]
	for _, id := range w.order {
		if _, ok := w.robots[id]; ok {
			kept = append(kept, id)
		}
	}
	w.order = kept
}

// applyCurrents pushes each robot standing on a current one step, if the
// destination is free.
func (w *World) applyCurrents() {
	for _, id := range w.order {
		r := w.robots[id]
		d, ok := w.m.currents[r.cell]
		if !ok || r.kind == host.Headquarters {
			continue
		}
		next := r.cell.Add(d)
		if !w.m.Passable(next) {
			continue
		}
		if _, occupied := w.occ[next]; occupied {
			continue
		}
		w.moveRobot(r, next)
	}
}

func (w *World) applyIncome() {
	for _, id := range w.order {
		r := w.robots[id]
		if r.kind != host.Headquarters {
			continue
		}
		ts := w.teams[r.team]
		ts.adamantium += w.rules.IncomeAdamantium
		ts.mana += w.rules.IncomeMana
	}
}

// settleIslands wears down owned islands by one per opposing robot within
// reach of any of their cells; at zero the island becomes unclaimed.
func (w *World) settleIslands() {
	for _, id := range w.m.IslandIDs() {
		is := w.islands[id]
		if is.owner == host.Neutral {
			continue
		}
		pressure := 0
		for _, rid := range w.order {
			r := w.robots[rid]
			if r.team == is.owner || r.kind == host.Headquarters {
				continue
			}
			for _, c := range w.m.IslandCells(id) {
				if r.cell.DistSq(c) <= w.rules.InteractRadiusSq {
					pressure++
					break
				}
			}
		}
		is.health -= pressure
		if is.health <= 0 {
			w.logf("round %d: island %d lost by team %s", w.round, id, is.owner)
			is.owner, is.health = host.Neutral, 0
		}
	}
}

func (w *World) checkEnd() {
	counts := w.zonesOwned()
	total := len(w.islands)
	for _, t := range []host.Team{host.TeamA, host.TeamB} {
		// Owning three quarters of the zones ends the match early.
		if total > 0 && counts[t]*4 >= total*3 {
			w.finish(t, "ZONES")
			return
		}
	}
	if w.round >= w.rules.Rounds {
		winner := host.Neutral
		switch {
		case counts[host.TeamA] > counts[host.TeamB]:
			winner = host.TeamA
		case counts[host.TeamB] > counts[host.TeamA]:
			winner = host.TeamB
		case w.teams[host.TeamA].built > w.teams[host.TeamB].built:
			winner = host.TeamA
		case w.teams[host.TeamB].built > w.teams[host.TeamA].built:
			winner = host.TeamB
		}
		w.finish(winner, "ROUND_LIMIT")
	}
}

func (w *World) finish(winner host.Team, reason string) {
	if w.over {
		return
	}
	w.over, w.winner, w.reason = true, winner, reason
	msg := protocol.EndMsg{
		Type:            protocol.TypeEnd,
		ProtocolVersion: protocol.Version,
		MatchID:         w.cfg.MatchID,
		Rounds:          w.round,
		Reason:          reason,
	}
	if winner != host.Neutral {
		msg.Winner = winner.String()
	}
	w.logf("match %s over after %d rounds: winner=%q reason=%s", w.cfg.MatchID, w.round, msg.Winner, reason)
	for _, s := range w.cfg.Sinks {
		s.End(msg)
	}
}

func (w *World) zonesOwned() map[host.Team]int {
	out := map[host.Team]int{}
	for _, is := range w.islands {
		if is.owner != host.Neutral {
			out[is.owner]++
		}
	}
	return out
}

func (w *World) summary() protocol.RoundMsg {
	zones := w.zonesOwned()
	msg := protocol.RoundMsg{
		Type:            protocol.TypeRound,
		ProtocolVersion: protocol.Version,
		MatchID:         w.cfg.MatchID,
		Round:           w.round,
	}
	for _, t := range []host.Team{host.TeamA, host.TeamB} {
		ts := w.teams[t]
		pop := map[string]int{}
		for _, id := range w.order {
			if r := w.robots[id]; r != nil && r.team == t {
				pop[r.kind.String()]++
			}
		}
		ledgerSlots := make([]int, 0, channel.LedgerLast-channel.LedgerFirst+1)
		for i := channel.LedgerFirst; i <= channel.LedgerLast; i++ {
			ledgerSlots = append(ledgerSlots, ts.shared[i])
		}
		used := 0
		for i := channel.FastFirst; i <= channel.SlowLast; i++ {
			if ts.shared[i] != channel.Empty {
				used++
			}
		}
		msg.Teams = append(msg.Teams, protocol.TeamSummary{
			Team:       t.String(),
			Population: pop,
			Adamantium: ts.adamantium,
			Mana:       ts.mana,
			Elixir:     ts.elixir,
			ZonesOwned: zones[t],
			Anchors:    ts.built,
			Faults:     ts.faults,
			Ledger:     ledgerSlots,
			LaneSlots:  used,
		})
	}
	return msg
}

func (w *World) moveRobot(r *robot, to geom.Cell) {
	delete(w.occ, r.cell)
	r.cell = to
	w.occ[to] = r.id
}
