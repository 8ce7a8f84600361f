package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

// Entry is one decoded line of a round log. Exactly one field is set.
type Entry struct {
	Round *protocol.RoundMsg
	End   *protocol.EndMsg
}

// ListFiles returns the round log files in dir, oldest first. An empty
// prefix matches every match id.
func ListFiles(dir, prefix string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
	}
	// Reopened hours carry a ".N" before the extension and sort after the
	// first file of that hour.
	sort.Slice(names, func(i, j int) bool {
		return strings.TrimSuffix(names[i], ext) < strings.TrimSuffix(names[j], ext)
	})
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// ReadFile decodes path line by line and calls fn for each entry. Lines of
// unknown type are skipped; fn's error stops the read and is returned.
func ReadFile(path string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		base, err := protocol.DecodeBase(b)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		var e Entry
		switch base.Type {
		case protocol.TypeRound:
			var m protocol.RoundMsg
			if err := json.Unmarshal(b, &m); err != nil {
				return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
			}
			e.Round = &m
		case protocol.TypeEnd:
			var m protocol.EndMsg
			if err := json.Unmarshal(b, &m); err != nil {
				return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
			}
			e.End = &m
		default:
			continue
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadDir reads every file ListFiles returns, in order.
func ReadDir(dir, prefix string, fn func(Entry) error) error {
	files, err := ListFiles(dir, prefix)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := ReadFile(path, fn); err != nil {
			return err
		}
	}
	return nil
}
