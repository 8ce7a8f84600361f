// Package ledger counts a team's live robots per kind through the shared
// channel, and runs the lock-free round barrier among coordinators that
// resets the count once per round.
package ledger

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

// Counts is one reading of the ledger slots.
type Counts struct {
	byKind [channel.LedgerLast + 1]int
}

func CountsOf(m map[host.Kind]int) Counts {
	var c Counts
	for k, n := range m {
		if slot, ok := channel.LedgerSlot(k); ok {
			c.byKind[slot] = n
		}
	}
	return c
}

func (c Counts) Of(k host.Kind) int {
	slot, ok := channel.LedgerSlot(k)
	if !ok {
		return 0
	}
	return c.byKind[slot]
}

func (c Counts) Total() int {
	n := 0
	for _, v := range c.byKind {
		n += v
	}
	return n
}

func (c Counts) Map() map[host.Kind]int {
	out := make(map[host.Kind]int, len(host.MobileKinds))
	for _, k := range host.MobileKinds {
		out[k] = c.Of(k)
	}
	return out
}

func (c Counts) String() string {
	s := ""
	for i := channel.LedgerFirst; i <= channel.LedgerLast; i++ {
		if i > channel.LedgerFirst {
			s += " "
		}
		s += fmt.Sprint(c.byKind[i])
	}
	return s
}

// Read returns the current ledger.
func Read(s channel.Slots) (Counts, error) {
	var c Counts
	for i := channel.LedgerFirst; i <= channel.LedgerLast; i++ {
		v, err := s.ReadShared(i)
		if err != nil {
			return c, err
		}
		if v > 0 {
			c.byKind[i] = v
		}
	}
	return c, nil
}

// Report adds one to k's slot. It is best-effort: when the slot is not
// writable the report is skipped and false is returned.
func Report(s channel.Slots, k host.Kind) (bool, error) {
	slot, ok := channel.LedgerSlot(k)
	if !ok {
		return false, nil
	}
	v, err := s.ReadShared(slot)
	if err != nil {
		return false, err
	}
	if v < 0 {
		v = 0
	}
	if !s.CanWriteShared(slot, v+1) {
		return false, nil
	}
	if err := s.WriteShared(slot, v+1); err != nil {
		return false, err
	}
	return true, nil
}

// Anchors returns the team's running total of built anchors.
func Anchors(s channel.Slots) (int, error) {
	v, err := s.ReadShared(channel.AnchorTotalSlot)
	if err != nil || v < 0 {
		return 0, err
	}
	return v, nil
}

// AddAnchor bumps the running anchor total.
func AddAnchor(s channel.Slots) error {
	v, err := Anchors(s)
	if err != nil {
		return err
	}
	if !s.CanWriteShared(channel.AnchorTotalSlot, v+1) {
		return channel.ErrNotWritable
	}
	return s.WriteShared(channel.AnchorTotalSlot, v+1)
}
