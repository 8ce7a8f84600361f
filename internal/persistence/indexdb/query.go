package indexdb

import (
	"database/sql"
	"errors"
	"fmt"
)

// MatchResult is a row of the matches table.
type MatchResult struct {
	MatchID string
	MapName string
	Seed    int64
	Rounds  int
	Winner  string
	Reason  string
}

// TeamRound is one team's row for one round.
type TeamRound struct {
	Round      int
	Adamantium int
	Mana       int
	Zones      int
	Anchors    int
	Faults     int
}

// ErrNotFound is returned by lookups with no matching row.
var ErrNotFound = errors.New("indexdb: not found")

// Match returns the registered match. Rounds, Winner and Reason are empty
// until the match has ended.
func (s *SQLiteIndex) Match(matchID string) (MatchResult, error) {
	r := MatchResult{MatchID: matchID}
	var rounds sql.NullInt64
	var winner, reason sql.NullString
	err := s.db.QueryRow(`SELECT map_name, seed, rounds, winner, reason FROM matches WHERE match_id=?`, matchID).
		Scan(&r.MapName, &r.Seed, &rounds, &winner, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return r, err
	}
	r.Rounds, r.Winner, r.Reason = int(rounds.Int64), winner.String, reason.String
	return r, nil
}

// TeamSeries returns a team's per-round rows in round order.
func (s *SQLiteIndex) TeamSeries(matchID, team string) ([]TeamRound, error) {
	rows, err := s.db.Query(`SELECT round, adamantium, mana, zones, anchors, faults
		FROM team_rounds WHERE match_id=? AND team=? ORDER BY round`, matchID, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TeamRound
	for rows.Next() {
		var r TeamRound
		if err := rows.Scan(&r.Round, &r.Adamantium, &r.Mana, &r.Zones, &r.Anchors, &r.Faults); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Population returns a team's robot count of one kind at a round.
func (s *SQLiteIndex) Population(matchID string, round int, team, kind string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT count FROM population WHERE match_id=? AND round=? AND team=? AND kind=?`,
		matchID, round, team, kind).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
