// Package channeltest provides an in-memory shared array for tests.
package channeltest

import (
	"fmt"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/channel"
)

// Write records one successful slot write.
type Write struct {
	Slot  int
	Value int
}

// Array is a shared array with a switchable write precondition and a
// per-read compute cost.
type Array struct {
	Slots    [channel.Size]int
	ReadOnly bool
	Budget   int
	ReadCost int

	Writes []Write
}

func New() *Array { return &Array{Budget: 1 << 30} }

func (a *Array) ReadShared(i int) (int, error) {
	if i < 0 || i >= channel.Size {
		return 0, fmt.Errorf("slot %d out of range", i)
	}
	a.Budget -= a.ReadCost
	return a.Slots[i], nil
}

func (a *Array) CanWriteShared(i, v int) bool {
	return !a.ReadOnly && i >= 0 && i < channel.Size && v >= 0 && v <= channel.MaxValue
}

func (a *Array) WriteShared(i, v int) error {
	if !a.CanWriteShared(i, v) {
		return fmt.Errorf("write %d=%d not allowed", i, v)
	}
	a.Slots[i] = v
	a.Writes = append(a.Writes, Write{Slot: i, Value: v})
	return nil
}

func (a *Array) BudgetLeft() int { return a.Budget }
