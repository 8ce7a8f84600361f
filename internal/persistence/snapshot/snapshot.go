// Package snapshot stores a point-in-time copy of a match: robots, islands,
// team stock and each team's shared array. A file is one zstd stream holding
// a JSON header line followed by the gob-encoded snapshot.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Version of the on-disk layout.
const Version = 1

type Header struct {
	Version int    `json:"version"`
	MatchID string `json:"match_id"`
	Round   int    `json:"round"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	MapName string `json:"map_name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Seed    int64  `json:"seed"`

	Over   bool   `json:"over"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`

	Teams   []TeamV1   `json:"teams"`
	Robots  []RobotV1  `json:"robots"`
	Islands []IslandV1 `json:"islands"`
}

type TeamV1 struct {
	Team       string `json:"team"`
	Adamantium int    `json:"adamantium"`
	Mana       int    `json:"mana"`
	Elixir     int    `json:"elixir"`
	Anchors    int    `json:"anchors"`
	Faults     int    `json:"faults"`
	Shared     []int  `json:"shared"`
}

type RobotV1 struct {
	ID        int    `json:"id"`
	Team      string `json:"team"`
	Kind      string `json:"kind"`
	Pos       [2]int `json:"pos"`
	Health    int    `json:"health"`
	Cargo     [3]int `json:"cargo"`
	Anchor    bool   `json:"anchor,omitempty"`
	Anchors   int    `json:"anchors,omitempty"`
	Indicator string `json:"indicator,omitempty"`
}

type IslandV1 struct {
	ID     int    `json:"id"`
	Owner  string `json:"owner"`
	Health int    `json:"health"`
	Cells  int    `json:"cells"`
}

// Team returns the named team's entry.
func (s SnapshotV1) Team(name string) (TeamV1, bool) {
	for _, t := range s.Teams {
		if t.Team == name {
			return t, true
		}
	}
	return TeamV1{}, false
}

func WriteSnapshot(path string, snap SnapshotV1) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return bw.Flush()
}

// ReadHeader decodes only the header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// The gob body repeats the header.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}
