package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/andrewgopher/battlecode23-scaffold/internal/protocol"
)

const ext = ".jsonl.zst"

// JSONLZstdWriter appends one JSON document per line to an hourly file.
// Each file is a single zstd frame and is only readable after it has been
// rotated away or the writer closed.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour || w.w == nil {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := w.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// Appending would start a second zstd frame; a fresh name per reopen keeps
	// one frame per file.
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.%d%s", w.prefix, hour, i, ext))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		err1 = w.w.Flush()
	}
	if w.enc != nil {
		if err := w.enc.Close(); err1 == nil {
			err1 = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err1 == nil {
			err1 = err
		}
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s%s", w.prefix, hour, ext))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RoundLogger writes every round summary and the final result of one match
// under <dir>/rounds. It satisfies the arena sink interface; write failures
// are counted and the first one is kept for Failures.
type RoundLogger struct {
	w *JSONLZstdWriter

	mu       sync.Mutex
	failures int
	err      error
}

func NewRoundLogger(dir, matchID string) *RoundLogger {
	return &RoundLogger{w: NewJSONLZstdWriter(filepath.Join(dir, "rounds"), matchID)}
}

func (l *RoundLogger) Round(m protocol.RoundMsg) { l.record(l.w.Write(m)) }
func (l *RoundLogger) End(m protocol.EndMsg)     { l.record(l.w.Write(m)) }

func (l *RoundLogger) record(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures++
	if l.err == nil {
		l.err = err
	}
}

// Failures returns how many writes failed and the first failure.
func (l *RoundLogger) Failures() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures, l.err
}

func (l *RoundLogger) Close() error { return l.w.Close() }
