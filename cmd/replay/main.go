package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	persistlog "github.com/andrewgopher/battlecode23-scaffold/internal/persistence/log"
	"github.com/andrewgopher/battlecode23-scaffold/internal/persistence/snapshot"
	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

func main() {
	var (
		roundsDir = flag.String("rounds", "./data/matches/rounds", "dir containing <match>-*.jsonl.zst")
		matchID   = flag.String("match", "", "match id (default: every match in the dir)")
		every     = flag.Int("every", 100, "print one summary per N rounds (0 prints only the end)")
		fromRound = flag.Int("from_round", 0, "first round to print (inclusive, optional)")
		toRound   = flag.Int("to_round", 0, "last round to print (inclusive, optional)")
		snapPath  = flag.String("snapshot", "", "print a .snap.zst instead of reading round logs")
	)
	flag.Parse()

	if *snapPath != "" {
		snap, err := snapshot.ReadSnapshot(*snapPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read snapshot:", err)
			os.Exit(1)
		}
		printSnapshot(snap)
		return
	}

	files, err := persistlog.ListFiles(*roundsDir, strings.TrimSpace(*matchID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "list rounds:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no round logs found in", *roundsDir)
		os.Exit(1)
	}

	c := &checker{every: *every, from: *fromRound, to: *toRound, next: map[string]int{}}
	for _, path := range files {
		if err := persistlog.ReadFile(path, c.entry); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: matches=%d rounds=%d\n", len(c.next), c.checked)
}

// checker verifies that each match's rounds are consecutive and prints a
// summary line per sampled round.
type checker struct {
	every, from, to int

	next    map[string]int
	checked int
}

func (c *checker) entry(e persistlog.Entry) error {
	switch {
	case e.Round != nil:
		m := e.Round
		want := c.next[m.MatchID] + 1
		if m.Round != want {
			return fmt.Errorf("match %s: round mismatch: want=%d got=%d", m.MatchID, want, m.Round)
		}
		c.next[m.MatchID] = m.Round
		c.checked++
		if c.wants(m.Round) {
			printRound(*m)
		}
	case e.End != nil:
		m := e.End
		if m.Rounds != c.next[m.MatchID] {
			return fmt.Errorf("match %s: end after %d rounds, log has %d", m.MatchID, m.Rounds, c.next[m.MatchID])
		}
		winner := m.Winner
		if winner == "" {
			winner = "none"
		}
		fmt.Printf("match %s over: rounds=%d winner=%s reason=%s\n", m.MatchID, m.Rounds, winner, m.Reason)
	}
	return nil
}

func (c *checker) wants(round int) bool {
	if round < c.from || (c.to != 0 && round > c.to) {
		return false
	}
	return c.every > 0 && round%c.every == 0
}

func printRound(m protocol.RoundMsg) {
	for _, ts := range m.Teams {
		kinds := make([]string, 0, len(ts.Population))
		for k := range ts.Population {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		pop := make([]string, 0, len(kinds))
		for _, k := range kinds {
			pop = append(pop, fmt.Sprintf("%s=%d", k, ts.Population[k]))
		}
		fmt.Printf("round %d team %s: ad=%d mn=%d ex=%d zones=%d anchors=%d faults=%d lanes=%d ledger=%v %s\n",
			m.Round, ts.Team, ts.Adamantium, ts.Mana, ts.Elixir, ts.ZonesOwned, ts.Anchors, ts.Faults,
			ts.LaneSlots, ts.Ledger, strings.Join(pop, " "))
	}
}

func printSnapshot(s snapshot.SnapshotV1) {
	fmt.Printf("snapshot v%d match=%s round=%d map=%s %dx%d seed=%d over=%v winner=%q robots=%d islands=%d\n",
		s.Header.Version, s.Header.MatchID, s.Header.Round, s.MapName, s.Width, s.Height, s.Seed,
		s.Over, s.Winner, len(s.Robots), len(s.Islands))
	for _, t := range s.Teams {
		used := 0
		for _, v := range t.Shared {
			if v != 0 {
				used++
			}
		}
		fmt.Printf("team %s: ad=%d mn=%d ex=%d anchors=%d faults=%d shared_used=%d\n",
			t.Team, t.Adamantium, t.Mana, t.Elixir, t.Anchors, t.Faults, used)
	}
	for _, is := range s.Islands {
		fmt.Printf("island %d: owner=%s health=%d cells=%d\n", is.ID, is.Owner, is.Health, is.Cells)
	}
}
