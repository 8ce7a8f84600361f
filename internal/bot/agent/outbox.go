package agent

import (
	"errors"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
)

// Outbox queues locally learned facts until the next write round.
type Outbox struct {
	Max int

	pending []channel.Fact
	queued  map[channel.Fact]bool
}

func NewOutbox(max int) *Outbox {
	if max <= 0 {
		max = channel.FastLane.Len() + channel.SlowLane.Len()
	}
	return &Outbox{Max: max, queued: map[channel.Fact]bool{}}
}

func (o *Outbox) Len() int { return len(o.pending) }

// Push queues f once. When the queue is full the oldest non-zone fact is
// dropped to make room.
func (o *Outbox) Push(f channel.Fact) {
	if _, ok := channel.Encode(f); !ok || o.queued[f] {
		return
	}
	if len(o.pending) >= o.Max {
		drop := 0
		for i, p := range o.pending {
			if p.Tag.Kind() != channel.KindZone {
				drop = i
				break
			}
		}
		o.remove(drop)
	}
	o.pending = append(o.pending, f)
	o.queued[f] = true
}

// FlushResult counts what one Flush did.
type FlushResult struct {
	Written int
	Dropped int
	Held    int
}

// Flush publishes queued facts. Facts whose lane is full are dropped; facts
// the host will not let us write yet are kept for the next write round. An
// agent that cannot write at all, or whose budget falls below reserve, keeps
// the rest of the queue without reading the lanes.
func (o *Outbox) Flush(s channel.Slots, b channel.Budget, reserve int) (FlushResult, error) {
	var res FlushResult
	if len(o.pending) == 0 {
		return res, nil
	}
	if !s.CanWriteShared(channel.FastFirst, channel.Empty) {
		res.Held = len(o.pending)
		return res, nil
	}
	kept := o.pending[:0]
	var firstErr error
	for i, f := range o.pending {
		if firstErr != nil || (b != nil && b.BudgetLeft() < reserve) {
			res.Held += len(o.pending) - i
			kept = append(kept, o.pending[i:]...)
			break
		}
		v, _ := channel.Encode(f)
		err := channel.LaneFor(f).Publish(s, v, f.Tag.Kind() == channel.KindZone)
		switch {
		case err == nil:
			res.Written++
			delete(o.queued, f)
		case errors.Is(err, channel.ErrLaneFull):
			res.Dropped++
			delete(o.queued, f)
		case errors.Is(err, channel.ErrNotWritable):
			res.Held++
			kept = append(kept, f)
		default:
			firstErr = err
			kept = append(kept, f)
		}
	}
	o.pending = kept
	return res, firstErr
}

func (o *Outbox) remove(i int) {
	delete(o.queued, o.pending[i])
	o.pending = append(o.pending[:i], o.pending[i+1:]...)
}
