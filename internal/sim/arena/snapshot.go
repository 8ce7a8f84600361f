package arena

import (
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
	"github.com/andrewgopher/battlecode23-scaffold/internal/persistence/snapshot"
)

// Snapshot copies the world's current state.
func (w *World) Snapshot() snapshot.SnapshotV1 {
	s := snapshot.SnapshotV1{
		Header:  snapshot.Header{Version: snapshot.Version, MatchID: w.cfg.MatchID, Round: w.round},
		MapName: w.m.Name,
		Width:   w.m.Width,
		Height:  w.m.Height,
		Seed:    w.cfg.Seed,
		Over:    w.over,
		Reason:  w.reason,
	}
	if w.over && w.winner != host.Neutral {
		s.Winner = w.winner.String()
	}
	for _, t := range []host.Team{host.TeamA, host.TeamB} {
		ts := w.teams[t]
		s.Teams = append(s.Teams, snapshot.TeamV1{
			Team:       t.String(),
			Adamantium: ts.adamantium,
			Mana:       ts.mana,
			Elixir:     ts.elixir,
			Anchors:    ts.built,
			Faults:     ts.faults,
			Shared:     append([]int(nil), ts.shared[:]...),
		})
	}
	for _, id := range w.order {
		r := w.robots[id]
		if r == nil {
			continue
		}
		s.Robots = append(s.Robots, snapshot.RobotV1{
			ID:        r.id,
			Team:      r.team.String(),
			Kind:      r.kind.String(),
			Pos:       [2]int{r.cell.X, r.cell.Y},
			Health:    r.health,
			Cargo:     [3]int{r.cargo[host.Adamantium], r.cargo[host.Mana], r.cargo[host.Elixir]},
			Anchor:    r.anchor,
			Anchors:   r.anchors,
			Indicator: r.indicator,
		})
	}
	for _, id := range w.m.IslandIDs() {
		is := w.islands[id]
		s.Islands = append(s.Islands, snapshot.IslandV1{
			ID:     id,
			Owner:  is.owner.String(),
			Health: is.health,
			Cells:  len(w.m.IslandCells(id)),
		})
	}
	return s
}
