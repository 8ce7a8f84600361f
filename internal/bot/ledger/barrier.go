package ledger

import "github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"

// Barrier is one coordinator's side of the round barrier over BarrierSlot.
//
// Slot 0 counts coordinators that finished the current round. The first
// coordinator to run in a round sees the full count from the previous round
// and resets it; the one that sees total-1 is last and zeroes the ledger.
// This is correct for any per-round order provided every coordinator runs
// exactly once per round and total never changes.
type Barrier struct {
	total int
}

// Turn is a coordinator's position within one round.
type Turn struct {
	Index int
	First bool
	Last  bool
}

func NewBarrier(totalCoordinators int) *Barrier {
	if totalCoordinators < 1 {
		totalCoordinators = 1
	}
	return &Barrier{total: totalCoordinators}
}

func (b *Barrier) Total() int { return b.total }

// Begin determines this coordinator's turn. A counter at or beyond total (or
// a garbage value) means no coordinator has run yet this round.
func (b *Barrier) Begin(s channel.Slots) (Turn, error) {
	v, err := s.ReadShared(channel.BarrierSlot)
	if err != nil {
		return Turn{}, err
	}
	if v >= b.total || v < 0 {
		if s.CanWriteShared(channel.BarrierSlot, 0) {
			if err := s.WriteShared(channel.BarrierSlot, 0); err != nil {
				return Turn{}, err
			}
		}
		v = 0
	}
	return Turn{Index: v, First: v == 0, Last: v == b.total-1}, nil
}

// End records that this coordinator has acted; the last coordinator of the
// round also zeroes the ledger for the next round.
func (b *Barrier) End(s channel.Slots, t Turn) error {
	v, err := s.ReadShared(channel.BarrierSlot)
	if err != nil {
		return err
	}
	if s.CanWriteShared(channel.BarrierSlot, v+1) {
		if err := s.WriteShared(channel.BarrierSlot, v+1); err != nil {
			return err
		}
	}
	if !t.Last {
		return nil
	}
	return Reset(s)
}

// Reset zeroes every ledger slot.
func Reset(s channel.Slots) error {
	for i := channel.LedgerFirst; i <= channel.LedgerLast; i++ {
		if !s.CanWriteShared(i, 0) {
			return channel.ErrNotWritable
		}
		if err := s.WriteShared(i, 0); err != nil {
			return err
		}
	}
	return nil
}
