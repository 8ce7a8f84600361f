package knowledge

import "github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"

// SyncResult reports one channel read pass.
type SyncResult struct {
	Learned   int
	Truncated bool
}

// Sync reads the structure slots and both lanes into the store. It stops
// early once the budget drops below reserve; the fast lane is read before
// the slow lane so truncation drops terrain first.
func (s *Store) Sync(sl channel.Slots, b channel.Budget, reserve int) (SyncResult, error) {
	var res SyncResult
	truncated, err := channel.Structures.Scan(sl, b, reserve, func(v int) {
		if c, ok := channel.DecodeLocation(v); ok && s.AddStructure(c) {
			res.Learned++
		}
	})
	if err != nil || truncated {
		res.Truncated = truncated
		return res, err
	}
	for _, lane := range []channel.Lane{channel.FastLane, channel.SlowLane} {
		truncated, err := lane.Scan(sl, b, reserve, func(v int) {
			if s.Ingest(v) {
				res.Learned++
			}
		})
		if err != nil || truncated {
			res.Truncated = truncated
			return res, err
		}
	}
	return res, nil
}
