package channel

import "errors"

var (
	ErrLaneFull    = errors.New("channel: lane full")
	ErrNotWritable = errors.New("channel: slot not writable")
)

// Slots is the part of the host the channel needs.
type Slots interface {
	ReadShared(i int) (int, error)
	CanWriteShared(i, v int) bool
	WriteShared(i, v int) error
}

// Budget reports how much compute an agent has left this round.
type Budget interface {
	BudgetLeft() int
}

// Lane is a contiguous inclusive slot range used as a lossy queue. Writers
// fill the lowest empty slot, so lower indexes hold older values.
type Lane struct {
	First int
	Last  int
}

func (l Lane) Len() int { return l.Last - l.First + 1 }

// Publish writes v into the lane unless it is already present. A zone fact
// replaces a stale zone fact about the same cell. When the lane is full a
// priority write displaces the oldest non-priority value (or the oldest value
// if every slot is priority); other writes fail with ErrLaneFull.
func (l Lane) Publish(s Slots, v int, priority bool) error {
	fact, _ := Decode(v)
	zone := fact.Tag.Kind() == KindZone
	free, stale, victim, priorityVictim := -1, -1, -1, -1
	for i := l.First; i <= l.Last; i++ {
		cur, err := s.ReadShared(i)
		if err != nil {
			return err
		}
		if cur == v {
			return nil
		}
		switch {
		case zone && stale < 0 && sameZoneCell(cur, fact):
			stale = i
		case cur == Empty:
			if free < 0 {
				free = i
			}
		case isPriority(cur):
			if priorityVictim < 0 {
				priorityVictim = i
			}
		default:
			if victim < 0 {
				victim = i
			}
		}
	}
	idx := stale
	if idx < 0 {
		idx = free
	}
	if idx < 0 {
		if !priority {
			return ErrLaneFull
		}
		idx = victim
		if idx < 0 {
			idx = priorityVictim
		}
	}
	if !s.CanWriteShared(idx, v) {
		return ErrNotWritable
	}
	return s.WriteShared(idx, v)
}

// Scan calls fn for every non-empty slot in order. It stops early, reporting
// truncated, once the budget drops below reserve.
func (l Lane) Scan(s Slots, b Budget, reserve int, fn func(v int)) (truncated bool, err error) {
	for i := l.First; i <= l.Last; i++ {
		if b != nil && b.BudgetLeft() < reserve {
			return true, nil
		}
		v, err := s.ReadShared(i)
		if err != nil {
			return false, err
		}
		if v == Empty {
			continue
		}
		fn(v)
	}
	return false, nil
}

// Clear empties every occupied slot the caller may write.
func (l Lane) Clear(s Slots) error {
	for i := l.First; i <= l.Last; i++ {
		v, err := s.ReadShared(i)
		if err != nil {
			return err
		}
		if v == Empty {
			continue
		}
		if !s.CanWriteShared(i, Empty) {
			return ErrNotWritable
		}
		if err := s.WriteShared(i, Empty); err != nil {
			return err
		}
	}
	return nil
}

func isPriority(v int) bool {
	f, ok := Decode(v)
	return ok && f.Tag.Kind() == KindZone
}

func sameZoneCell(v int, f Fact) bool {
	g, ok := Decode(v)
	return ok && g.Tag.Kind() == KindZone && g.Cell == f.Cell
}
