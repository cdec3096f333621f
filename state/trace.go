package state

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The sequence of snapshots recorded by a kernel run.
//
// Snapshots are created lazily the first time a tick is referenced.
// Once the trace is fully read it is not modified.
type Trace struct {
	snapshots map[int]*Snapshot

	// True if the kernel reported an unexpected exception
	Panicked bool
}

func NewTrace() *Trace {
	return &Trace{
		snapshots: make(map[int]*Snapshot),
	}
}

// Returns the snapshot for the tick, creating it if it does not exist
func (t *Trace) At(tick int) *Snapshot {
	if s, ok := t.snapshots[tick]; ok {
		return s
	}
	s := NewSnapshot(tick)
	t.snapshots[tick] = s
	return s
}

// Returns the snapshot for the tick and whether it exists
func (t *Trace) Get(tick int) (*Snapshot, bool) {
	s, ok := t.snapshots[tick]
	return s, ok
}

// Returns the recorded ticks in ascending order
func (t *Trace) Ticks() []int {
	ticks := maps.Keys(t.snapshots)
	slices.Sort(ticks)
	return ticks
}

// Returns the snapshots ordered by tick
func (t *Trace) Snapshots() []*Snapshot {
	out := make([]*Snapshot, 0, len(t.snapshots))
	for _, tick := range t.Ticks() {
		out = append(out, t.snapshots[tick])
	}
	return out
}

// Returns the highest recorded tick. ok is false if the trace is empty
func (t *Trace) LastTick() (tick int, ok bool) {
	if len(t.snapshots) == 0 {
		return 0, false
	}
	ticks := t.Ticks()
	return ticks[len(ticks)-1], true
}

// The number of recorded ticks
func (t *Trace) Len() int {
	return len(t.snapshots)
}
