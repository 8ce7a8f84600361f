package indexdb

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

func roundMsg(n int) protocol.RoundMsg {
	return protocol.RoundMsg{
		Type:    protocol.TypeRound,
		MatchID: "m1",
		Round:   n,
		Teams: []protocol.TeamSummary{
			{Team: "A", Population: map[string]int{"CARRIER": n, "HEADQUARTERS": 1}, Adamantium: 100 + n, ZonesOwned: n / 2},
			{Team: "B", Population: map[string]int{"HEADQUARTERS": 1}, Mana: 50},
		},
	}
}

func TestSQLiteIndex_IndexesRoundsAndResult(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.UpsertConfig("rules", map[string]int{"rounds": 3}); err != nil {
		t.Fatalf("UpsertConfig: %v", err)
	}
	idx.RecordMatch("m1", "twin", 69420)
	for i := 1; i <= 3; i++ {
		idx.Round(roundMsg(i))
	}
	idx.End(protocol.EndMsg{Type: protocol.TypeEnd, MatchID: "m1", Rounds: 3, Winner: "A", Reason: "ROUND_LIMIT"})

	// Close drains the queue; reopen to query what was committed.
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if st := idx.Stats(); st.DropRoundTotal != 0 || st.WriteFailTotal != 0 {
		t.Fatalf("stats=%+v", st)
	}
	idx, err = OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	res, err := idx.Match("m1")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.MapName != "twin" || res.Seed != 69420 || res.Rounds != 3 || res.Winner != "A" || res.Reason != "ROUND_LIMIT" {
		t.Fatalf("match=%+v", res)
	}
	series, err := idx.TeamSeries("m1", "A")
	if err != nil {
		t.Fatalf("TeamSeries: %v", err)
	}
	if len(series) != 3 || series[2].Adamantium != 103 || series[2].Zones != 1 {
		t.Fatalf("series=%+v", series)
	}
	if n, err := idx.Population("m1", 2, "A", "CARRIER"); err != nil || n != 2 {
		t.Fatalf("population=%d err=%v", n, err)
	}
	if _, err := idx.Match("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing match err=%v", err)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqRound, round: roundMsg(1)}

	s.Round(roundMsg(2))
	s.End(protocol.EndMsg{MatchID: "m1"})
	s.RecordMatch("m1", "twin", 1)

	st := s.Stats()
	if st.DropRoundTotal != 1 || st.DropEndTotal != 1 || st.DropMatchTotal != 1 {
		t.Fatalf("drops=%+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_NilIsANoop(t *testing.T) {
	var s *SQLiteIndex
	s.Round(roundMsg(1))
	s.End(protocol.EndMsg{})
	if st := s.Stats(); st.QueueCapacity != 0 {
		t.Fatalf("stats=%+v", st)
	}
}
