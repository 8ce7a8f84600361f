package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

// SQLiteIndex is a queryable secondary index of round summaries. Writes are
// queued to a single writer goroutine and dropped when the queue is full;
// the round log stays the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropRound atomic.Uint64
	dropEnd   atomic.Uint64
	dropMatch atomic.Uint64
	writeFail atomic.Uint64
}

type reqKind int

const (
	reqMatch reqKind = iota + 1
	reqRound
	reqEnd
)

type req struct {
	kind reqKind

	match matchRow
	round protocol.RoundMsg
	end   protocol.EndMsg
}

type matchRow struct {
	MatchID   string
	MapName   string
	Seed      int64
	StartedAt string
}

// Stats is a point-in-time view of the writer queue.
type Stats struct {
	QueueDepth     int
	QueueCapacity  int
	DropRoundTotal uint64
	DropEndTotal   uint64
	DropMatchTotal uint64
	WriteFailTotal uint64
}

// DefaultQueue is the writer queue length OpenSQLite uses.
const DefaultQueue = 4096

func OpenSQLite(path string) (*SQLiteIndex, error) {
	return openSQLite(path, DefaultQueue)
}

func openSQLite(path string, queue int) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{db: db, ch: make(chan req, queue)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS configs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			map_name TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			rounds INTEGER,
			winner TEXT,
			reason TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			match_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (match_id, round)
		);`,
		`CREATE TABLE IF NOT EXISTS team_rounds (
			match_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			team TEXT NOT NULL,
			adamantium INTEGER NOT NULL,
			mana INTEGER NOT NULL,
			elixir INTEGER NOT NULL,
			zones INTEGER NOT NULL,
			anchors INTEGER NOT NULL,
			faults INTEGER NOT NULL,
			lane_slots INTEGER NOT NULL,
			PRIMARY KEY (match_id, round, team)
		);`,
		`CREATE TABLE IF NOT EXISTS population (
			match_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			team TEXT NOT NULL,
			kind TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (match_id, round, team, kind)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_team_rounds_team ON team_rounds(match_id, team, round);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) enqueue(r req, drops *atomic.Uint64) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		drops.Add(1)
	}
}

// RecordMatch registers a match before its first round.
func (s *SQLiteIndex) RecordMatch(matchID, mapName string, seed int64) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqMatch, match: matchRow{
		MatchID:   matchID,
		MapName:   mapName,
		Seed:      seed,
		StartedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}}, &s.dropMatch)
}

func (s *SQLiteIndex) Round(m protocol.RoundMsg) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqRound, round: m}, &s.dropRound)
}

func (s *SQLiteIndex) End(m protocol.EndMsg) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqEnd, end: m}, &s.dropEnd)
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropRoundTotal: s.dropRound.Load(),
		DropEndTotal:   s.dropEnd.Load(),
		DropMatchTotal: s.dropMatch.Load(),
		WriteFailTotal: s.writeFail.Load(),
	}
}

// UpsertConfig stores the configuration a match ran with, keyed by name,
// as canonical JSON with its sha256 digest.
func (s *SQLiteIndex) UpsertConfig(name string, v any) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO configs(name,digest,json,updated_at) VALUES(?,?,?,?)`,
		name, hex.EncodeToString(sum[:]), string(b), now); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertMatch, _ := s.db.Prepare(`INSERT OR REPLACE INTO matches(match_id,map_name,seed,started_at) VALUES(?,?,?,?)`)
	insertRound, _ := s.db.Prepare(`INSERT OR REPLACE INTO rounds(match_id,round,raw_json) VALUES(?,?,?)`)
	insertTeam, _ := s.db.Prepare(`INSERT OR REPLACE INTO team_rounds(match_id,round,team,adamantium,mana,elixir,zones,anchors,faults,lane_slots) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	insertPop, _ := s.db.Prepare(`INSERT OR REPLACE INTO population(match_id,round,team,kind,count) VALUES(?,?,?,?,?)`)
	updateEnd, _ := s.db.Prepare(`UPDATE matches SET rounds=?, winner=?, reason=? WHERE match_id=?`)
	defer func() {
		for _, st := range []*sql.Stmt{insertMatch, insertRound, insertTeam, insertPop, updateEnd} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			s.writeFail.Add(1)
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.writeFail.Add(1)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		s.writeFail.Add(1)
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) bool {
		if st == nil || tx == nil {
			return false
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return false
		}
		opCount++
		return true
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqMatch:
			m := r.match
			exec(insertMatch, m.MatchID, m.MapName, m.Seed, m.StartedAt)

		case reqRound:
			m := r.round
			raw, _ := json.Marshal(m)
			if !exec(insertRound, m.MatchID, m.Round, string(raw)) {
				continue
			}
		teams:
			for _, ts := range m.Teams {
				if !exec(insertTeam, m.MatchID, m.Round, ts.Team, ts.Adamantium, ts.Mana, ts.Elixir,
					ts.ZonesOwned, ts.Anchors, ts.Faults, ts.LaneSlots) {
					break
				}
				for kind, n := range ts.Population {
					if !exec(insertPop, m.MatchID, m.Round, ts.Team, kind, n) {
						break teams
					}
				}
			}

		case reqEnd:
			e := r.end
			exec(updateEnd, e.Rounds, e.Winner, e.Reason, e.MatchID)
			// The result should be visible as soon as the match ends.
			commit()
			continue
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
